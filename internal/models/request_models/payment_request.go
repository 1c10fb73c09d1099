package request_models

type CreatePixPaymentRequest struct {
	AmountCentavos int64 `json:"amount_centavos" binding:"required,gt=0"`
}
