package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vibedl/internal/models/db_models"
	"vibedl/internal/models/request_models"
	"vibedl/pkg/utils"
)

func init() {
	utils.InitJWT("test-signing-secret")
}

func newTestAccountService(accounts *fakeAccountRepo, now int64) AccountServiceInterface {
	entitlement := newTestEntitlementService(accounts, "admin-key", now)
	return NewAccountService(accounts, entitlement, zerolog.Nop())
}

func TestCreateAccount(t *testing.T) {
	now := int64(1_700_000_000)
	accounts := newFakeAccountRepo()
	svc := newTestAccountService(accounts, now)

	resp, err := svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		Email:    "DJ@Example.com",
		DJName:   "dj-vibe",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Regexp(t, "^[0-9A-F]{8}$", resp.ReferralCode)

	stored, err := accounts.FindByEmail(context.Background(), "dj@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored, "email is normalized to lower case")
	assert.False(t, stored.IsSubscriber)
	assert.Nil(t, stored.SubscriptionExpiresAt)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
	assert.NoError(t, utils.ComparePasswords(stored.PasswordHash, "hunter22"))
}

func TestCreateAccountDuplicates(t *testing.T) {
	now := int64(1_700_000_000)
	accounts := newFakeAccountRepo()
	accounts.add(&db_models.Account{Email: "taken@example.com", DJName: "taken-name"})
	svc := newTestAccountService(accounts, now)

	_, err := svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		Email: "taken@example.com", DJName: "fresh", Password: "hunter22",
	})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	_, err = svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		Email: "fresh@example.com", DJName: "taken-name", Password: "hunter22",
	})
	assert.ErrorIs(t, err, utils.ErrDJNameAlreadyExists)
}

func TestCreateAccountDuplicateRace(t *testing.T) {
	now := int64(1_700_000_000)

	t.Run("concurrent dj name insert reports the dj name error", func(t *testing.T) {
		accounts := newFakeAccountRepo()
		accounts.insertHook = func() error {
			accounts.add(&db_models.Account{Email: "other@example.com", DJName: "raced-name"})
			return gorm.ErrDuplicatedKey
		}
		svc := newTestAccountService(accounts, now)

		_, err := svc.CreateAccount(context.Background(), request_models.SignUpRequest{
			Email: "mine@example.com", DJName: "raced-name", Password: "hunter22",
		})
		assert.ErrorIs(t, err, utils.ErrDJNameAlreadyExists)
	})

	t.Run("unattributable collision reports the neutral error", func(t *testing.T) {
		accounts := newFakeAccountRepo()
		accounts.insertHook = func() error {
			return gorm.ErrDuplicatedKey
		}
		svc := newTestAccountService(accounts, now)

		_, err := svc.CreateAccount(context.Background(), request_models.SignUpRequest{
			Email: "mine@example.com", DJName: "fresh", Password: "hunter22",
		})
		assert.ErrorIs(t, err, utils.ErrAccountAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	now := int64(1_700_000_000)
	accounts := newFakeAccountRepo()
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	accounts.add(&db_models.Account{
		Email:                 "dj@example.com",
		PasswordHash:          hash,
		IsSubscriber:          true,
		SubscriptionExpiresAt: ptr(now + 10*day),
	})

	svc := newTestAccountService(accounts, now)

	t.Run("success reports premium state", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), request_models.LoginRequest{
			Email: "dj@example.com", Password: "hunter22",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, resp.IsSubscriber)
		assert.NotEmpty(t, resp.ExpiresAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), request_models.LoginRequest{
			Email: "dj@example.com", Password: "wrong",
		})
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), request_models.LoginRequest{
			Email: "ghost@example.com", Password: "hunter22",
		})
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})
}

func TestLoginFlipsExpiredSubscription(t *testing.T) {
	now := int64(1_700_000_000)
	accounts := newFakeAccountRepo()
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	account := accounts.add(&db_models.Account{
		Email:                 "stale@example.com",
		PasswordHash:          hash,
		IsSubscriber:          true,
		SubscriptionExpiresAt: ptr(now - day),
	})

	svc := newTestAccountService(accounts, now)

	resp, err := svc.Login(context.Background(), request_models.LoginRequest{
		Email: "stale@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsSubscriber)

	stored, _ := accounts.FindByID(context.Background(), account.ID)
	assert.False(t, stored.IsSubscriber, "expiry flip persists at login")
}
