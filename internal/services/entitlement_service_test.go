package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibedl/internal/models/db_models"
	"vibedl/pkg/utils"
)

const day = int64(24 * 3600)

func ptr(v int64) *int64 { return &v }

func TestEvaluate(t *testing.T) {
	now := int64(1_700_000_000)

	tests := []struct {
		name       string
		account    db_models.Account
		wantGrant  bool
		wantReason DenialReason
	}{
		{
			name:       "never subscribed",
			account:    db_models.Account{IsSubscriber: false},
			wantGrant:  false,
			wantReason: DenialNeverSubscribed,
		},
		{
			name:       "active with future expiry",
			account:    db_models.Account{IsSubscriber: true, SubscriptionExpiresAt: ptr(now + 10*day)},
			wantGrant:  true,
			wantReason: DenialNone,
		},
		{
			name:       "legacy unlimited",
			account:    db_models.Account{IsSubscriber: true, SubscriptionExpiresAt: nil},
			wantGrant:  true,
			wantReason: DenialNone,
		},
		{
			name:       "expired",
			account:    db_models.Account{IsSubscriber: true, SubscriptionExpiresAt: ptr(now - day)},
			wantGrant:  false,
			wantReason: DenialExpired,
		},
		{
			name:       "stale subscriber flag with past expiry",
			account:    db_models.Account{IsSubscriber: false, SubscriptionExpiresAt: ptr(now + day)},
			wantGrant:  false,
			wantReason: DenialNeverSubscribed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(&tt.account, now)
			assert.Equal(t, tt.wantGrant, decision.Granted)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func newTestEntitlementService(accounts *fakeAccountRepo, adminKey string, now int64) *EntitlementService {
	svc := NewEntitlementService(accounts, adminKey, zerolog.Nop()).(*EntitlementService)
	svc.nowFn = func() int64 { return now }
	return svc
}

func TestCheckLazyExpiryFlipPersists(t *testing.T) {
	now := int64(1_700_000_000)
	accounts := newFakeAccountRepo()
	account := accounts.add(&db_models.Account{
		IsSubscriber:          true,
		SubscriptionExpiresAt: ptr(now - day),
	})

	svc := newTestEntitlementService(accounts, "admin-key", now)

	decision, err := svc.Check(context.Background(), account.ID)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, DenialExpired, decision.Reason)

	// The flip must be persisted, not just computed.
	stored, err := accounts.FindByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSubscriber)
}

func TestAuthorizeErrors(t *testing.T) {
	now := int64(1_700_000_000)
	accounts := newFakeAccountRepo()
	never := accounts.add(&db_models.Account{IsSubscriber: false})
	expired := accounts.add(&db_models.Account{IsSubscriber: true, SubscriptionExpiresAt: ptr(now - 1)})
	active := accounts.add(&db_models.Account{IsSubscriber: true, SubscriptionExpiresAt: ptr(now + day)})

	svc := newTestEntitlementService(accounts, "admin-key", now)

	assert.ErrorIs(t, svc.Authorize(context.Background(), never.ID), utils.ErrNotSubscribed)
	assert.ErrorIs(t, svc.Authorize(context.Background(), expired.ID), utils.ErrSubscriptionExpired)
	assert.NoError(t, svc.Authorize(context.Background(), active.ID))
}

func TestAdminGrant(t *testing.T) {
	now := int64(1_700_000_000)
	accounts := newFakeAccountRepo()
	account := accounts.add(&db_models.Account{
		Email:                 "dj@example.com",
		IsSubscriber:          true,
		SubscriptionExpiresAt: ptr(now + 10*day),
	})

	svc := newTestEntitlementService(accounts, "admin-key", now)

	t.Run("wrong key", func(t *testing.T) {
		_, err := svc.AdminGrant(context.Background(), "nope", "dj@example.com", 30)
		assert.ErrorIs(t, err, utils.ErrUnauthorized)
	})

	t.Run("empty configured key denies everything", func(t *testing.T) {
		unconfigured := newTestEntitlementService(accounts, "", now)
		_, err := unconfigured.AdminGrant(context.Background(), "", "dj@example.com", 30)
		assert.ErrorIs(t, err, utils.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.AdminGrant(context.Background(), "admin-key", "ghost@example.com", 30)
		assert.ErrorIs(t, err, utils.ErrAccountNotFound)
	})

	t.Run("stacks on unexpired time", func(t *testing.T) {
		newExpiry, err := svc.AdminGrant(context.Background(), "admin-key", "dj@example.com", 30)
		require.NoError(t, err)
		assert.Equal(t, now+40*day, newExpiry)

		stored, err := accounts.FindByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsSubscriber)
		assert.Equal(t, now+40*day, *stored.SubscriptionExpiresAt)
	})
}
