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

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	FindByDJName(ctx context.Context, name string) (*db_models.Account, error)

	// ExtendSubscription adds days on top of any unexpired time and marks the
	// account a subscriber. The account row is locked for the duration so
	// concurrent extensions compose instead of overwriting each other.
	// Returns the new expiry in unix seconds.
	ExtendSubscription(ctx context.Context, accountID uuid.UUID, days int, now int64) (int64, error)

	// ClearSubscriberIfExpired flips is_subscriber to false iff the stored
	// expiry is in the past. Used by the lazy expiry check.
	ClearSubscriberIfExpired(ctx context.Context, accountID uuid.UUID, now int64) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindByDJName(ctx context.Context, name string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "dj_name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) ExtendSubscription(ctx context.Context, accountID uuid.UUID, days int, now int64) (int64, error) {
	var newExpiry int64
	err := withConflictRetry(func() error {
		return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			expiry, err := extendSubscriptionLocked(tx, accountID, days, now)
			if err != nil {
				return err
			}
			newExpiry = expiry
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return newExpiry, nil
}

func (a *accountRepository) ClearSubscriberIfExpired(ctx context.Context, accountID uuid.UUID, now int64) error {
	return withConflictRetry(func() error {
		return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var account db_models.Account
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&account, "id = ?", accountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrAccountNotFound
				}
				return err
			}

			// Re-check under the lock: a concurrent extension may have moved
			// the expiry forward since the caller evaluated.
			if !account.IsSubscriber || account.SubscriptionExpiresAt == nil || *account.SubscriptionExpiresAt >= now {
				return nil
			}

			return tx.Model(&account).Update("is_subscriber", false).Error
		})
	})
}

// extendSubscriptionLocked is the single implementation of the stacking rule
// against the store. Callers must already be inside a transaction; the account
// row is locked before the read-modify-write.
func extendSubscriptionLocked(tx *gorm.DB, accountID uuid.UUID, days int, now int64) (int64, error) {
	var account db_models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.ErrAccountNotFound
		}
		return 0, err
	}

	newExpiry := utils.ExtendExpiry(account.SubscriptionExpiresAt, now, days)
	if err := tx.Model(&account).Updates(map[string]interface{}{
		"is_subscriber":           true,
		"subscription_expires_at": newExpiry,
	}).Error; err != nil {
		return 0, err
	}

	return newExpiry, nil
}
