package db_models

type Account struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	DJName       string `gorm:"column:dj_name;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Commercial state. Credits is a legacy balance carried over from the
	// first revision of the product; entitlement is decided only by the
	// subscriber fields below.
	Credits               float64 `gorm:"default:0"`
	IsSubscriber          bool    `gorm:"default:false"`
	SubscriptionExpiresAt *int64  // unix seconds, nil = never subscribed or legacy unlimited

	// Referral system. ReferralCode is generated once at registration and
	// never changes. ReferredBy is free text typed by the user and is not
	// validated against existing codes.
	ReferralCode string  `gorm:"uniqueIndex"`
	ReferredBy   *string `gorm:"size:50"`

	PaymentIntents []PaymentIntent `gorm:"foreignKey:AccountID"`
	DownloadJobs   []DownloadJob   `gorm:"foreignKey:AccountID"`
}
