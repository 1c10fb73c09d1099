package services

import (
	"context"
	"crypto/subtle"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vibedl/internal/models/db_models"
	"vibedl/internal/repositories"
	"vibedl/pkg/utils"
)

type DenialReason string

const (
	DenialNone            DenialReason = ""
	DenialNeverSubscribed DenialReason = "never_subscribed"
	DenialExpired         DenialReason = "expired"
)

// Decision is the answer to "may this account use the protected feature
// right now".
type Decision struct {
	Granted   bool
	Reason    DenialReason
	ExpiresAt *int64
}

// Evaluate computes the entitlement decision from an account snapshot and the
// current instant. Pure; persistence of the expiry flip is the caller's job.
// A nil expiry on a subscriber means legacy unlimited access.
func Evaluate(account *db_models.Account, now int64) Decision {
	if !account.IsSubscriber {
		return Decision{Granted: false, Reason: DenialNeverSubscribed}
	}
	if account.SubscriptionExpiresAt != nil && *account.SubscriptionExpiresAt < now {
		return Decision{Granted: false, Reason: DenialExpired, ExpiresAt: account.SubscriptionExpiresAt}
	}
	return Decision{Granted: true, ExpiresAt: account.SubscriptionExpiresAt}
}

type EntitlementServiceInterface interface {
	// Check evaluates the account's entitlement and, when the subscription
	// turned out to be expired, persists the is_subscriber flip before
	// returning the denial. Runs before every protected action.
	Check(ctx context.Context, accountID uuid.UUID) (Decision, error)

	// Authorize is Check reduced to an error: nil when granted,
	// ErrNotSubscribed / ErrSubscriptionExpired otherwise.
	Authorize(ctx context.Context, accountID uuid.UUID) error

	// AdminGrant extends the target account's subscription with the same
	// stacking rule as payments and coupons, gated by the dedicated admin
	// credential rather than the normal session mechanism.
	AdminGrant(ctx context.Context, adminKey, targetEmail string, days int) (int64, error)
}

type EntitlementService struct {
	accountRepo repositories.AccountRepository
	adminAPIKey string
	logger      zerolog.Logger
	nowFn       func() int64
}

func NewEntitlementService(accountRepo repositories.AccountRepository, adminAPIKey string, logger zerolog.Logger) EntitlementServiceInterface {
	return &EntitlementService{
		accountRepo: accountRepo,
		adminAPIKey: adminAPIKey,
		logger:      logger.With().Str("component", "entitlement").Logger(),
		nowFn:       utils.NowUnixSeconds,
	}
}

func (e *EntitlementService) Check(ctx context.Context, accountID uuid.UUID) (Decision, error) {
	account, err := e.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return Decision{}, utils.ErrDatabaseError
	}
	if account == nil {
		return Decision{}, utils.ErrAccountNotFound
	}

	now := e.nowFn()
	decision := Evaluate(account, now)

	if decision.Reason == DenialExpired {
		// Lazy flip: the stored subscriber flag is stale, persist the
		// re-derived value so later reads agree with the evaluation.
		if err := e.accountRepo.ClearSubscriberIfExpired(ctx, accountID, now); err != nil {
			e.logger.Error().Err(err).Str("account_id", accountID.String()).
				Msg("failed to persist expiry flip")
			return Decision{}, utils.ErrDatabaseError
		}
		e.logger.Info().Str("account_id", accountID.String()).Msg("subscription expired, flag cleared")
	}

	return decision, nil
}

func (e *EntitlementService) Authorize(ctx context.Context, accountID uuid.UUID) error {
	decision, err := e.Check(ctx, accountID)
	if err != nil {
		return err
	}
	switch decision.Reason {
	case DenialNone:
		return nil
	case DenialExpired:
		return utils.ErrSubscriptionExpired
	default:
		return utils.ErrNotSubscribed
	}
}

func (e *EntitlementService) AdminGrant(ctx context.Context, adminKey, targetEmail string, days int) (int64, error) {
	if e.adminAPIKey == "" ||
		subtle.ConstantTimeCompare([]byte(adminKey), []byte(e.adminAPIKey)) != 1 {
		return 0, utils.ErrUnauthorized
	}

	account, err := e.accountRepo.FindByEmail(ctx, targetEmail)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	if account == nil {
		return 0, utils.ErrAccountNotFound
	}

	newExpiry, err := e.accountRepo.ExtendSubscription(ctx, account.ID, days, e.nowFn())
	if err != nil {
		return 0, err
	}

	e.logger.Info().Str("account_id", account.ID.String()).Int("days", days).
		Int64("new_expiry", newExpiry).Msg("admin grant applied")

	return newExpiry, nil
}
