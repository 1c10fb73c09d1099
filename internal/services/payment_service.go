package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vibedl/internal/gateway"
	"vibedl/internal/models/db_models"
	"vibedl/internal/models/response_models"
	"vibedl/internal/repositories"
	"vibedl/pkg/utils"
)

type PaymentConfig struct {
	// PriceCentavos is the allow-list of accepted charge amounts.
	PriceCentavos []int64
	// GrantDays is the fixed subscription extension per approved payment.
	GrantDays int
	// NotificationURL is where the gateway posts webhooks.
	NotificationURL string
	// ChargeTTL bounds how long a PIX QR code stays payable.
	ChargeTTL time.Duration
}

type PaymentServiceInterface interface {
	CreatePixPayment(ctx context.Context, accountID uuid.UUID, amountCentavos int64) (*response_models.PixPaymentResponse, error)

	// ProcessNotification handles an inbound gateway webhook. Safe against
	// at-least-once delivery: a duplicate notification for an already
	// terminal payment is a no-op.
	ProcessNotification(ctx context.Context, notification gateway.Notification) error

	// CheckStatus polls the gateway for a pending intent and settles it
	// through the same transactional path the webhook uses, so a poll racing
	// a webhook cannot double-extend the subscription.
	CheckStatus(ctx context.Context, accountID uuid.UUID, externalReference string) (*response_models.PaymentStatusResponse, error)
}

type paymentService struct {
	intentRepo  repositories.PaymentIntentRepository
	accountRepo repositories.AccountRepository
	gw          gateway.Client
	cfg         PaymentConfig
	logger      zerolog.Logger
	nowFn       func() int64
}

func NewPaymentService(
	intentRepo repositories.PaymentIntentRepository,
	accountRepo repositories.AccountRepository,
	gw gateway.Client,
	cfg PaymentConfig,
	logger zerolog.Logger,
) PaymentServiceInterface {
	if cfg.ChargeTTL == 0 {
		cfg.ChargeTTL = 30 * time.Minute
	}
	return &paymentService{
		intentRepo:  intentRepo,
		accountRepo: accountRepo,
		gw:          gw,
		cfg:         cfg,
		logger:      logger.With().Str("component", "payments").Logger(),
		nowFn:       utils.NowUnixSeconds,
	}
}

func (p *paymentService) CreatePixPayment(ctx context.Context, accountID uuid.UUID, amountCentavos int64) (*response_models.PixPaymentResponse, error) {
	if !p.amountAllowed(amountCentavos) {
		return nil, utils.ErrInvalidAmount
	}

	account, err := p.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	ref, err := externalReference(accountID)
	if err != nil {
		return nil, utils.ErrPaymentGateway
	}

	now := p.nowFn()
	expiresAt := time.Unix(now, 0).UTC().Add(p.cfg.ChargeTTL)

	charge, err := p.createWithRetry(ctx, gateway.CreatePixRequest{
		AmountCentavos:    amountCentavos,
		Description:       "Vibe Downloader subscription",
		PayerEmail:        account.Email,
		ExternalReference: ref,
		NotificationURL:   p.cfg.NotificationURL,
		ExpiresAt:         expiresAt,
	})
	if err != nil {
		// Nothing persisted on gateway failure: no money moved, no row.
		return nil, err
	}

	expiresUnix := expiresAt.Unix()
	intent := &db_models.PaymentIntent{
		AccountID:         accountID,
		ExternalReference: ref,
		GatewayPaymentID:  &charge.GatewayPaymentID,
		AmountCentavos:    amountCentavos,
		Status:            db_models.PaymentStatusPending,
		Method:            "pix",
		PixQRCodeBase64:   &charge.QRCodeBase64,
		PixCopyPaste:      &charge.QRText,
		GatewayPayload:    []byte(charge.Raw),
		ExpiresAt:         &expiresUnix,
	}
	if err := p.intentRepo.Insert(ctx, intent); err != nil {
		p.logger.Error().Err(err).Str("external_reference", ref).Msg("persist payment intent failed")
		return nil, utils.ErrDatabaseError
	}

	p.logger.Info().Str("external_reference", ref).Int64("amount_centavos", amountCentavos).
		Msg("pix payment created")

	return &response_models.PixPaymentResponse{
		ExternalReference: ref,
		AmountCentavos:    amountCentavos,
		QRCodeBase64:      charge.QRCodeBase64,
		PixCopyPaste:      charge.QRText,
		Status:            string(db_models.PaymentStatusPending),
	}, nil
}

func (p *paymentService) ProcessNotification(ctx context.Context, notification gateway.Notification) error {
	if notification.Type != "payment" {
		return nil
	}

	detail, err := p.getWithRetry(ctx, notification.Data.ID.String())
	if err != nil {
		return err
	}

	return p.settle(ctx, detail)
}

func (p *paymentService) CheckStatus(ctx context.Context, accountID uuid.UUID, externalReference string) (*response_models.PaymentStatusResponse, error) {
	intent, err := p.intentRepo.FindByExternalReference(ctx, externalReference)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if intent == nil || intent.AccountID != accountID {
		return nil, utils.ErrPaymentNotFound
	}

	// Pending and the webhook may simply not have arrived yet: ask the
	// gateway directly and settle through the shared path.
	if !intent.Status.Terminal() && intent.GatewayPaymentID != nil {
		detail, err := p.getWithRetry(ctx, *intent.GatewayPaymentID)
		if err == nil {
			if err := p.settle(ctx, detail); err != nil {
				return nil, err
			}
			intent, err = p.intentRepo.FindByExternalReference(ctx, externalReference)
			if err != nil || intent == nil {
				return nil, utils.ErrDatabaseError
			}
		} else {
			p.logger.Warn().Err(err).Str("external_reference", externalReference).
				Msg("status poll could not reach gateway, reporting stored status")
		}
	}

	return &response_models.PaymentStatusResponse{
		ExternalReference: intent.ExternalReference,
		Status:            string(intent.Status),
		Approved:          intent.Status == db_models.PaymentStatusApproved,
	}, nil
}

// settle maps a gateway payment detail onto the stored intent. Approval and
// the subscription extension happen in one transaction keyed by the external
// reference, which is what makes duplicate deliveries harmless.
func (p *paymentService) settle(ctx context.Context, detail *gateway.PaymentDetail) error {
	if detail.ExternalReference == "" {
		p.logger.Warn().Str("gateway_payment_id", detail.GatewayPaymentID).
			Msg("gateway payment without external reference, ignoring")
		return nil
	}

	switch detail.Status {
	case "approved":
		extended, newExpiry, err := p.intentRepo.ApproveAndExtend(ctx, detail.ExternalReference, p.cfg.GrantDays, p.nowFn())
		if err != nil {
			if errors.Is(err, utils.ErrPaymentNotFound) {
				p.logger.Warn().Str("external_reference", detail.ExternalReference).
					Msg("notification for unknown payment")
				return nil
			}
			return err
		}
		if extended {
			p.logger.Info().Str("external_reference", detail.ExternalReference).
				Int64("new_expiry", newExpiry).Msg("payment approved, subscription extended")
		}
		return nil
	case "rejected":
		return p.markTerminal(ctx, detail.ExternalReference, db_models.PaymentStatusRejected)
	case "cancelled":
		return p.markTerminal(ctx, detail.ExternalReference, db_models.PaymentStatusCancelled)
	default:
		// pending / in_process: nothing to record yet.
		return nil
	}
}

func (p *paymentService) markTerminal(ctx context.Context, ref string, status db_models.PaymentStatus) error {
	err := p.intentRepo.MarkTerminal(ctx, ref, status)
	if errors.Is(err, utils.ErrPaymentNotFound) {
		return nil
	}
	return err
}

func (p *paymentService) amountAllowed(amountCentavos int64) bool {
	for _, price := range p.cfg.PriceCentavos {
		if amountCentavos == price {
			return true
		}
	}
	return false
}

// Gateway calls are retried at most once before surfacing the error.

func (p *paymentService) createWithRetry(ctx context.Context, req gateway.CreatePixRequest) (*gateway.PixCharge, error) {
	charge, err := p.gw.CreatePixPayment(ctx, req)
	if err != nil {
		charge, err = p.gw.CreatePixPayment(ctx, req)
	}
	return charge, err
}

func (p *paymentService) getWithRetry(ctx context.Context, paymentID string) (*gateway.PaymentDetail, error) {
	detail, err := p.gw.GetPayment(ctx, paymentID)
	if err != nil {
		detail, err = p.gw.GetPayment(ctx, paymentID)
	}
	return detail, err
}

func externalReference(accountID uuid.UUID) (string, error) {
	random, err := utils.GenerateSecureToken(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("VIBE-%s-%s", accountID, random), nil
}
