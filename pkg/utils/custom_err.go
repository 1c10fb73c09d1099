package utils

import "errors"

var (
	ErrInvalidAmount        = errors.New("amount is not an offered price point")
	ErrPaymentGateway       = errors.New("payment gateway error")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponExhausted      = errors.New("coupon usage limit reached")
	ErrCouponAlreadyUsed    = errors.New("coupon already used by this account")
	ErrAccountNotFound      = errors.New("account not found")
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrDJNameAlreadyExists  = errors.New("dj name already taken")
	ErrAccountAlreadyExists = errors.New("account already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotSubscribed        = errors.New("account has no subscription")
	ErrSubscriptionExpired  = errors.New("subscription expired")
	ErrStoreConflict        = errors.New("concurrent update conflict")
	ErrDatabaseError        = errors.New("database error")
)
