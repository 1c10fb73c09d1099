package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether s is a final state. A PaymentIntent never
// transitions out of a terminal state.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected || s == PaymentStatusCancelled
}

type PaymentIntent struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index;not null"`

	// ExternalReference is the idempotency key for webhook processing:
	// "VIBE-{accountID}-{random8hex}", unique across all intents.
	ExternalReference string  `gorm:"uniqueIndex;size:100;not null"`
	GatewayPaymentID  *string `gorm:"uniqueIndex;size:100"`
	PreferenceID      *string `gorm:"size:100"`

	AmountCentavos int64         `gorm:"not null"`
	Status         PaymentStatus `gorm:"size:50;index;default:pending"`
	Method         string        `gorm:"size:50;default:pix"`

	// PIX payload, nil until the gateway responds.
	PixQRCodeBase64 *string `gorm:"type:text"`
	PixCopyPaste    *string `gorm:"type:text"`

	// Raw gateway responses kept for audit.
	GatewayPayload datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	ApprovedAt *int64
	ExpiresAt  *int64

	Account Account `gorm:"foreignKey:AccountID"`
}
