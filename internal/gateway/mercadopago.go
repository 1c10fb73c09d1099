package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vibedl/pkg/utils"
)

// Client is the payment gateway seen by the rest of the system: create a PIX
// charge, fetch the current state of a payment. The concrete implementation
// talks to Mercado Pago's REST API.
type Client interface {
	CreatePixPayment(ctx context.Context, req CreatePixRequest) (*PixCharge, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentDetail, error)
}

type CreatePixRequest struct {
	AmountCentavos    int64
	Description       string
	PayerEmail        string
	ExternalReference string
	NotificationURL   string
	ExpiresAt         time.Time
}

type PixCharge struct {
	GatewayPaymentID string
	Status           string
	QRCodeBase64     string
	QRText           string
	Raw              json.RawMessage
}

type PaymentDetail struct {
	GatewayPaymentID  string
	Status            string
	ExternalReference string
	Raw               json.RawMessage
}

// Notification is the webhook body Mercado Pago posts: the payload only
// carries the payment id; the full detail is fetched with a second call.
type Notification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

type mercadoPagoClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      zerolog.Logger
}

func NewMercadoPagoClient(baseURL, accessToken string, logger zerolog.Logger) Client {
	return &mercadoPagoClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger.With().Str("component", "mercadopago").Logger(),
	}
}

type mpCreatePaymentRequest struct {
	TransactionAmount float64 `json:"transaction_amount"`
	Description       string  `json:"description"`
	PaymentMethodID   string  `json:"payment_method_id"`
	Payer             mpPayer `json:"payer"`
	ExternalReference string  `json:"external_reference"`
	NotificationURL   string  `json:"notification_url,omitempty"`
	DateOfExpiration  string  `json:"date_of_expiration,omitempty"`
}

type mpPayer struct {
	Email string `json:"email"`
}

type mpPaymentResponse struct {
	ID                 json.Number `json:"id"`
	Status             string      `json:"status"`
	ExternalReference  string      `json:"external_reference"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (m *mercadoPagoClient) CreatePixPayment(ctx context.Context, req CreatePixRequest) (*PixCharge, error) {
	body := mpCreatePaymentRequest{
		TransactionAmount: float64(req.AmountCentavos) / 100,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		Payer:             mpPayer{Email: req.PayerEmail},
		ExternalReference: req.ExternalReference,
		NotificationURL:   req.NotificationURL,
	}
	if !req.ExpiresAt.IsZero() {
		body.DateOfExpiration = req.ExpiresAt.Format("2006-01-02T15:04:05.000-07:00")
	}

	raw, err := m.do(ctx, http.MethodPost, "/v1/payments", body, req.ExternalReference)
	if err != nil {
		return nil, err
	}

	var resp mpPaymentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode create payment response: %v", utils.ErrPaymentGateway, err)
	}

	return &PixCharge{
		GatewayPaymentID: resp.ID.String(),
		Status:           resp.Status,
		QRCodeBase64:     resp.PointOfInteraction.TransactionData.QRCodeBase64,
		QRText:           resp.PointOfInteraction.TransactionData.QRCode,
		Raw:              raw,
	}, nil
}

func (m *mercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*PaymentDetail, error) {
	raw, err := m.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, "")
	if err != nil {
		return nil, err
	}

	var resp mpPaymentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode payment detail: %v", utils.ErrPaymentGateway, err)
	}

	return &PaymentDetail{
		GatewayPaymentID:  resp.ID.String(),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
		Raw:               raw,
	}, nil
}

func (m *mercadoPagoClient) do(ctx context.Context, method, path string, body interface{}, idempotencyKey string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+m.accessToken)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}
	req.Header.Set("X-Idempotency-Key", idempotencyKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.Warn().Err(err).Str("path", path).Msg("gateway request failed")
		return nil, fmt.Errorf("%w: %v", utils.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", utils.ErrPaymentGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.logger.Warn().Int("status", resp.StatusCode).Str("path", path).
			Str("body", string(raw)).Msg("gateway returned non-success status")
		return nil, fmt.Errorf("%w: status %d", utils.ErrPaymentGateway, resp.StatusCode)
	}

	return raw, nil
}
