package response_models

type PixPaymentResponse struct {
	ExternalReference string `json:"external_reference"`
	AmountCentavos    int64  `json:"amount_centavos"`
	QRCodeBase64      string `json:"qr_code_base64,omitempty"`
	PixCopyPaste      string `json:"pix_copy_paste,omitempty"`
	Status            string `json:"status"`
}

type PaymentStatusResponse struct {
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status"`
	Approved          bool   `json:"approved"`
}
