package db_models

import "github.com/google/uuid"

type Coupon struct {
	BaseModel
	Code       string `gorm:"uniqueIndex;size:50;not null"` // stored upper-case
	GrantDays  int    `gorm:"not null"`
	Active     bool   `gorm:"default:true"`
	UsageLimit int    `gorm:"default:0"` // 0 = unlimited
	UsageCount int    `gorm:"default:0"` // monotonic, incremented only inside a successful redemption
}

// CouponRedemption records that an account used a code. The (account, code)
// pair is unique: a given account may redeem a given code at most once.
type CouponRedemption struct {
	BaseModel
	AccountID  uuid.UUID `gorm:"uniqueIndex:idx_redemption_account_code;not null"`
	CouponCode string    `gorm:"uniqueIndex:idx_redemption_account_code;size:50;not null"`
	RedeemedAt int64     `gorm:"not null"`

	Account Account `gorm:"foreignKey:AccountID"`
}
