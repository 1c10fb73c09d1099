package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibedl/internal/models/request_models"
	"vibedl/internal/models/response_models"
	"vibedl/internal/services"
	"vibedl/pkg/utils"
)

type AdminController struct {
	entitlementService services.EntitlementServiceInterface
}

func NewAdminController(entitlementService services.EntitlementServiceInterface) *AdminController {
	return &AdminController{
		entitlementService: entitlementService,
	}
}

// Grant extends a target account's subscription. Gated by the dedicated
// admin credential in the X-Admin-Key header, not by the session mechanism.
func (a *AdminController) Grant(c *gin.Context) {
	var req request_models.AdminGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	newExpiry, err := a.entitlementService.AdminGrant(c.Request.Context(), c.GetHeader("X-Admin-Key"), req.Email, req.Days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.AdminGrantResponse{
		Email:     req.Email,
		ExpiresAt: utils.FormatRFC3339UTC(newExpiry),
	}, "Subscription extended")
}
