package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vibedl/internal/models/response_models"
	"vibedl/internal/repositories"
	"vibedl/pkg/utils"
)

type CouponServiceInterface interface {
	Redeem(ctx context.Context, accountID uuid.UUID, rawCode string) (*response_models.CouponRedeemResponse, error)
}

type CouponService struct {
	couponRepo repositories.CouponRepository
	logger     zerolog.Logger
	nowFn      func() int64
}

func NewCouponService(couponRepo repositories.CouponRepository, logger zerolog.Logger) CouponServiceInterface {
	return &CouponService{
		couponRepo: couponRepo,
		logger:     logger.With().Str("component", "coupons").Logger(),
		nowFn:      utils.NowUnixSeconds,
	}
}

// Redeem applies a code typed by an account. Preconditions are checked in
// order and each failure carries its own error; the repository re-validates
// everything under row locks before the triple write commits.
func (s *CouponService) Redeem(ctx context.Context, accountID uuid.UUID, rawCode string) (*response_models.CouponRedeemResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return nil, utils.ErrCouponNotFound
	}

	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if coupon == nil || !coupon.Active {
		return nil, utils.ErrCouponNotFound
	}

	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return nil, utils.ErrCouponExhausted
	}

	used, err := s.couponRepo.HasRedeemed(ctx, accountID, code)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if used {
		return nil, utils.ErrCouponAlreadyUsed
	}

	newExpiry, grantDays, err := s.couponRepo.Redeem(ctx, accountID, code, s.nowFn())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", accountID.String()).Str("code", code).
		Int("granted_days", grantDays).Int64("new_expiry", newExpiry).Msg("coupon redeemed")

	return &response_models.CouponRedeemResponse{
		Code:        code,
		GrantedDays: grantDays,
		ExpiresAt:   utils.FormatRFC3339UTC(newExpiry),
	}, nil
}
