package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vibedl/internal/gateway"
	"vibedl/internal/models/request_models"
	"vibedl/internal/services"
	"vibedl/pkg/middleware"
	"vibedl/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
	logger         zerolog.Logger
}

func NewPaymentController(paymentService services.PaymentServiceInterface, logger zerolog.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         logger.With().Str("component", "payment_controller").Logger(),
	}
}

// CreatePixPayment godoc
// @Summary Create a PIX charge for a subscription period
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePixPaymentRequest true "Charge request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/pix [post]
func (p *PaymentController) CreatePixPayment(c *gin.Context) {
	var req request_models.CreatePixPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authorization required")
		return
	}

	resp, err := p.paymentService.CreatePixPayment(c.Request.Context(), accountID, req.AmountCentavos)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "PIX charge created")
}

// HandleWebhook receives asynchronous payment notifications from the gateway.
// A processing failure returns non-200 so the gateway redelivers; processing
// itself is idempotent, so redelivery is safe.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	var notification gateway.Notification
	if err := c.ShouldBindJSON(&notification); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if err := p.paymentService.ProcessNotification(c.Request.Context(), notification); err != nil {
		p.logger.Error().Err(err).Str("payment_id", notification.Data.ID.String()).
			Msg("webhook processing failed")
		utils.RespondError(c, http.StatusInternalServerError, "Failed to process notification")
		return
	}

	c.Status(http.StatusOK)
}

// CheckStatus godoc
// @Summary Poll the status of a PIX charge
// @Tags Payments
// @Produce json
// @Param reference path string true "External reference"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/status/{reference} [get]
func (p *PaymentController) CheckStatus(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authorization required")
		return
	}

	resp, err := p.paymentService.CheckStatus(c.Request.Context(), accountID, c.Param("reference"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Payment status")
}
