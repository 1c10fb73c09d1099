package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vibedl/internal/models/db_models"
	"vibedl/pkg/utils"
)

type PaymentIntentRepository interface {
	Insert(ctx context.Context, intent *db_models.PaymentIntent) error
	FindByExternalReference(ctx context.Context, ref string) (*db_models.PaymentIntent, error)

	// ApproveAndExtend marks the intent approved and extends the owning
	// account's subscription, all in one transaction. When the intent is
	// already in a terminal state this is a no-op and extended is false:
	// duplicate webhook deliveries must not re-extend the subscription.
	ApproveAndExtend(ctx context.Context, externalReference string, grantDays int, now int64) (extended bool, newExpiry int64, err error)

	// MarkTerminal records a rejected/cancelled outcome. No-op when the
	// intent already reached a terminal state.
	MarkTerminal(ctx context.Context, externalReference string, status db_models.PaymentStatus) error
}

type paymentIntentRepository struct {
	db *gorm.DB
}

func NewPaymentIntentRepository(db *gorm.DB) PaymentIntentRepository {
	return &paymentIntentRepository{db: db}
}

func (p *paymentIntentRepository) Insert(ctx context.Context, intent *db_models.PaymentIntent) error {
	return p.db.WithContext(ctx).Create(intent).Error
}

func (p *paymentIntentRepository) FindByExternalReference(ctx context.Context, ref string) (*db_models.PaymentIntent, error) {
	var intent db_models.PaymentIntent
	err := p.db.WithContext(ctx).First(&intent, "external_reference = ?", ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

func (p *paymentIntentRepository) ApproveAndExtend(ctx context.Context, externalReference string, grantDays int, now int64) (bool, int64, error) {
	var (
		extended  bool
		newExpiry int64
	)
	err := withConflictRetry(func() error {
		extended = false
		newExpiry = 0
		return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var intent db_models.PaymentIntent
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&intent, "external_reference = ?", externalReference).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrPaymentNotFound
				}
				return err
			}

			if intent.Status.Terminal() {
				return nil
			}

			if err := tx.Model(&intent).Updates(map[string]interface{}{
				"status":      db_models.PaymentStatusApproved,
				"approved_at": now,
			}).Error; err != nil {
				return err
			}

			expiry, err := extendSubscriptionLocked(tx, intent.AccountID, grantDays, now)
			if err != nil {
				return err
			}

			extended = true
			newExpiry = expiry
			return nil
		})
	})
	if err != nil {
		return false, 0, err
	}
	return extended, newExpiry, nil
}

func (p *paymentIntentRepository) MarkTerminal(ctx context.Context, externalReference string, status db_models.PaymentStatus) error {
	if !status.Terminal() {
		return errors.New("MarkTerminal called with non-terminal status")
	}
	return withConflictRetry(func() error {
		return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var intent db_models.PaymentIntent
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&intent, "external_reference = ?", externalReference).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrPaymentNotFound
				}
				return err
			}

			if intent.Status.Terminal() {
				return nil
			}

			return tx.Model(&intent).Update("status", status).Error
		})
	})
}
