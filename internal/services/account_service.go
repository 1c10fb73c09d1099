package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vibedl/internal/models/db_models"
	"vibedl/internal/models/request_models"
	"vibedl/internal/models/response_models"
	"vibedl/internal/repositories"
	"vibedl/pkg/utils"
)

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.RegisterResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	entitlement EntitlementServiceInterface
	logger      zerolog.Logger
}

func NewAccountService(accountRepo repositories.AccountRepository, entitlement EntitlementServiceInterface, logger zerolog.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		entitlement: entitlement,
		logger:      logger.With().Str("component", "accounts").Logger(),
	}
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	existing, err = a.accountRepo.FindByDJName(ctx, request.DJName)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrDJNameAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	newAccount := &db_models.Account{
		Email:        email,
		DJName:       request.DJName,
		PasswordHash: hashedPassword,
		ReferralCode: utils.GenerateReferralCode(),
		ReferredBy:   request.ReferredBy,
	}

	if err := a.accountRepo.Insert(ctx, newAccount); err != nil {
		// The pre-checks race with concurrent registrations; the unique
		// indexes are the final word.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, a.classifyDuplicate(ctx, email, request.DJName)
		}
		return nil, utils.ErrDatabaseError
	}

	a.logger.Info().Str("account_id", newAccount.ID.String()).Msg("account created")

	return &response_models.RegisterResponse{ReferralCode: newAccount.ReferralCode}, nil
}

// classifyDuplicate resolves which unique column a rejected insert collided
// on. gorm.ErrDuplicatedKey does not say, so re-query; a referral code clash
// (the remaining unique column) falls through to the generic error.
func (a *AccountService) classifyDuplicate(ctx context.Context, email, djName string) error {
	if existing, err := a.accountRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return utils.ErrEmailAlreadyExists
	}
	if existing, err := a.accountRepo.FindByDJName(ctx, djName); err == nil && existing != nil {
		return utils.ErrDJNameAlreadyExists
	}
	return utils.ErrAccountAlreadyExists
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	// Re-derive the subscriber flag at login so the response reflects any
	// expiry that happened since the last visit. The protected endpoints run
	// the same check again per request.
	decision, err := a.entitlement.Check(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	token, err := utils.CreateToken(account.ID)
	if err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	resp := &response_models.LoginResponse{
		Token:        token,
		IsSubscriber: decision.Granted,
	}
	if decision.ExpiresAt != nil {
		resp.ExpiresAt = utils.FormatRFC3339UTC(*decision.ExpiresAt)
	}

	return resp, nil
}
