package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"vibedl/internal/gateway"
	"vibedl/internal/models/db_models"
	"vibedl/pkg/utils"
)

// In-memory repository fakes. They honor the same atomicity contracts as the
// gorm implementations (single mutex standing in for row locks) so the
// concurrency properties of the services can be exercised without postgres.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*db_models.Account

	// insertHook, when set, runs before an insert is applied. Lets tests
	// stage a conflicting row mid-flight, the way a concurrent registration
	// would land between the service's pre-checks and its insert.
	insertHook func() error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*db_models.Account)}
}

func (f *fakeAccountRepo) add(account *db_models.Account) *db_models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.ID] = account
	return account
}

func (f *fakeAccountRepo) Insert(_ context.Context, account *db_models.Account) error {
	if f.insertHook != nil {
		if err := f.insertHook(); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	snapshot := *account
	return &snapshot, nil
}

func (f *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			snapshot := *account
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindByDJName(_ context.Context, name string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.DJName == name {
			snapshot := *account
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) ExtendSubscription(_ context.Context, accountID uuid.UUID, days int, now int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extendLocked(accountID, days, now)
}

func (f *fakeAccountRepo) extendLocked(accountID uuid.UUID, days int, now int64) (int64, error) {
	account, ok := f.accounts[accountID]
	if !ok {
		return 0, utils.ErrAccountNotFound
	}
	newExpiry := utils.ExtendExpiry(account.SubscriptionExpiresAt, now, days)
	account.IsSubscriber = true
	account.SubscriptionExpiresAt = &newExpiry
	return newExpiry, nil
}

func (f *fakeAccountRepo) ClearSubscriberIfExpired(_ context.Context, accountID uuid.UUID, now int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[accountID]
	if !ok {
		return utils.ErrAccountNotFound
	}
	if account.IsSubscriber && account.SubscriptionExpiresAt != nil && *account.SubscriptionExpiresAt < now {
		account.IsSubscriber = false
	}
	return nil
}

type fakeCouponRepo struct {
	mu          sync.Mutex
	coupons     map[string]*db_models.Coupon
	redemptions map[string]bool // accountID|code
	accounts    *fakeAccountRepo
}

func newFakeCouponRepo(accounts *fakeAccountRepo) *fakeCouponRepo {
	return &fakeCouponRepo{
		coupons:     make(map[string]*db_models.Coupon),
		redemptions: make(map[string]bool),
		accounts:    accounts,
	}
}

func redemptionKey(accountID uuid.UUID, code string) string {
	return accountID.String() + "|" + code
}

func (f *fakeCouponRepo) Insert(_ context.Context, coupon *db_models.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	f.coupons[coupon.Code] = coupon
	return nil
}

func (f *fakeCouponRepo) FindByCode(_ context.Context, code string) (*db_models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	coupon, ok := f.coupons[code]
	if !ok {
		return nil, nil
	}
	snapshot := *coupon
	return &snapshot, nil
}

func (f *fakeCouponRepo) HasRedeemed(_ context.Context, accountID uuid.UUID, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redemptions[redemptionKey(accountID, code)], nil
}

func (f *fakeCouponRepo) Redeem(_ context.Context, accountID uuid.UUID, code string, now int64) (int64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	coupon, ok := f.coupons[code]
	if !ok || !coupon.Active {
		return 0, 0, utils.ErrCouponNotFound
	}
	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return 0, 0, utils.ErrCouponExhausted
	}
	key := redemptionKey(accountID, code)
	if f.redemptions[key] {
		return 0, 0, utils.ErrCouponAlreadyUsed
	}

	f.redemptions[key] = true
	coupon.UsageCount++

	f.accounts.mu.Lock()
	newExpiry, err := f.accounts.extendLocked(accountID, coupon.GrantDays, now)
	f.accounts.mu.Unlock()
	if err != nil {
		return 0, 0, err
	}

	return newExpiry, coupon.GrantDays, nil
}

type fakePaymentIntentRepo struct {
	mu       sync.Mutex
	intents  map[string]*db_models.PaymentIntent
	accounts *fakeAccountRepo
}

func newFakePaymentIntentRepo(accounts *fakeAccountRepo) *fakePaymentIntentRepo {
	return &fakePaymentIntentRepo{
		intents:  make(map[string]*db_models.PaymentIntent),
		accounts: accounts,
	}
}

func (f *fakePaymentIntentRepo) Insert(_ context.Context, intent *db_models.PaymentIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	f.intents[intent.ExternalReference] = intent
	return nil
}

func (f *fakePaymentIntentRepo) FindByExternalReference(_ context.Context, ref string) (*db_models.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[ref]
	if !ok {
		return nil, nil
	}
	snapshot := *intent
	return &snapshot, nil
}

func (f *fakePaymentIntentRepo) ApproveAndExtend(_ context.Context, externalReference string, grantDays int, now int64) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	intent, ok := f.intents[externalReference]
	if !ok {
		return false, 0, utils.ErrPaymentNotFound
	}
	if intent.Status.Terminal() {
		return false, 0, nil
	}

	intent.Status = db_models.PaymentStatusApproved
	intent.ApprovedAt = &now

	f.accounts.mu.Lock()
	newExpiry, err := f.accounts.extendLocked(intent.AccountID, grantDays, now)
	f.accounts.mu.Unlock()
	if err != nil {
		return false, 0, err
	}

	return true, newExpiry, nil
}

func (f *fakePaymentIntentRepo) MarkTerminal(_ context.Context, externalReference string, status db_models.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	intent, ok := f.intents[externalReference]
	if !ok {
		return utils.ErrPaymentNotFound
	}
	if intent.Status.Terminal() {
		return nil
	}
	intent.Status = status
	return nil
}

type fakeDownloadJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*db_models.DownloadJob
}

func newFakeDownloadJobRepo() *fakeDownloadJobRepo {
	return &fakeDownloadJobRepo{jobs: make(map[uuid.UUID]*db_models.DownloadJob)}
}

func (f *fakeDownloadJobRepo) Insert(_ context.Context, job *db_models.DownloadJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeDownloadJobRepo) MarkDone(_ context.Context, jobID uuid.UUID, resultPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job := f.jobs[jobID]
	job.Status = db_models.DownloadJobStatusDone
	job.ResultPath = resultPath
	return nil
}

func (f *fakeDownloadJobRepo) MarkFailed(_ context.Context, jobID uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job := f.jobs[jobID]
	job.Status = db_models.DownloadJobStatusFailed
	job.FailReason = reason
	return nil
}

type fakeGatewayClient struct {
	mu          sync.Mutex
	createCalls int
	getCalls    int
	createFn    func(req gateway.CreatePixRequest) (*gateway.PixCharge, error)
	getFn       func(paymentID string) (*gateway.PaymentDetail, error)
}

func (f *fakeGatewayClient) CreatePixPayment(_ context.Context, req gateway.CreatePixRequest) (*gateway.PixCharge, error) {
	f.mu.Lock()
	f.createCalls++
	f.mu.Unlock()
	return f.createFn(req)
}

func (f *fakeGatewayClient) GetPayment(_ context.Context, paymentID string) (*gateway.PaymentDetail, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	return f.getFn(paymentID)
}
