package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError is the single place service errors become HTTP responses.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		RespondError(c, http.StatusBadRequest, "Amount is not one of the offered price points")
	case errors.Is(err, ErrPaymentGateway):
		RespondError(c, http.StatusBadGateway, "Payment provider is unavailable, try again shortly")
	case errors.Is(err, ErrPaymentNotFound):
		RespondError(c, http.StatusNotFound, "Payment not found")
	case errors.Is(err, ErrCouponNotFound):
		RespondError(c, http.StatusNotFound, "Coupon not found or inactive")
	case errors.Is(err, ErrCouponExhausted):
		RespondError(c, http.StatusConflict, "Coupon usage limit reached")
	case errors.Is(err, ErrCouponAlreadyUsed):
		RespondError(c, http.StatusConflict, "You already used this coupon")
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrDJNameAlreadyExists):
		RespondError(c, http.StatusConflict, "DJ name already taken")
	case errors.Is(err, ErrAccountAlreadyExists):
		RespondError(c, http.StatusConflict, "Account already registered")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrNotSubscribed):
		RespondError(c, http.StatusPaymentRequired, "A subscription is required")
	case errors.Is(err, ErrSubscriptionExpired):
		RespondError(c, http.StatusPaymentRequired, "Your subscription has expired")
	case errors.Is(err, ErrStoreConflict):
		RespondError(c, http.StatusConflict, "Please retry, a concurrent update occurred")
	case errors.Is(err, ErrDatabaseError):
		log.Error().Str("trace_id", c.GetString("trace_id")).Err(err).Msg("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error().Str("trace_id", c.GetString("trace_id")).Err(err).Msg("unhandled service error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
