package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibedl/internal/models/db_models"
	"vibedl/pkg/utils"
)

type CouponRepository interface {
	Insert(ctx context.Context, coupon *db_models.Coupon) error
	FindByCode(ctx context.Context, code string) (*db_models.Coupon, error)
	HasRedeemed(ctx context.Context, accountID uuid.UUID, code string) (bool, error)

	// Redeem performs the all-or-nothing triple write: increment the coupon's
	// usage count, insert the redemption row, extend the account. Every
	// precondition is re-checked under row locks, so two racing redemptions
	// of the same code cannot exceed the usage limit and the same account
	// cannot redeem a code twice. Returns the new expiry and the days granted.
	Redeem(ctx context.Context, accountID uuid.UUID, code string, now int64) (newExpiry int64, grantDays int, err error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (c *couponRepository) Insert(ctx context.Context, coupon *db_models.Coupon) error {
	return c.db.WithContext(ctx).Create(coupon).Error
}

func (c *couponRepository) FindByCode(ctx context.Context, code string) (*db_models.Coupon, error) {
	var coupon db_models.Coupon
	err := c.db.WithContext(ctx).First(&coupon, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (c *couponRepository) HasRedeemed(ctx context.Context, accountID uuid.UUID, code string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&db_models.CouponRedemption{}).
		Where("account_id = ? AND coupon_code = ?", accountID, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *couponRepository) Redeem(ctx context.Context, accountID uuid.UUID, code string, now int64) (int64, int, error) {
	var (
		newExpiry int64
		grantDays int
	)
	err := withConflictRetry(func() error {
		return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var coupon db_models.Coupon
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&coupon, "code = ?", code).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrCouponNotFound
				}
				return err
			}

			if !coupon.Active {
				return utils.ErrCouponNotFound
			}
			if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
				return utils.ErrCouponExhausted
			}

			redemption := &db_models.CouponRedemption{
				AccountID:  accountID,
				CouponCode: coupon.Code,
				RedeemedAt: now,
			}
			if err := tx.Create(redemption).Error; err != nil {
				// The unique (account_id, coupon_code) index is the authority
				// on "already used"; the service-level pre-check only exists
				// for a friendlier fast path.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return utils.ErrCouponAlreadyUsed
				}
				return err
			}

			if err := tx.Model(&coupon).
				Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}

			expiry, err := extendSubscriptionLocked(tx, accountID, coupon.GrantDays, now)
			if err != nil {
				return err
			}

			newExpiry = expiry
			grantDays = coupon.GrantDays
			return nil
		})
	})
	if err != nil {
		return 0, 0, err
	}
	return newExpiry, grantDays, nil
}
