package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibedl/internal/models/request_models"
	"vibedl/internal/services"
	"vibedl/pkg/middleware"
	"vibedl/pkg/utils"
)

type CouponController struct {
	couponService services.CouponServiceInterface
}

func NewCouponController(couponService services.CouponServiceInterface) *CouponController {
	return &CouponController{
		couponService: couponService,
	}
}

// Redeem godoc
// @Summary Redeem a promotional code
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body request_models.RedeemCouponRequest true "Coupon code"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /coupons/redeem [post]
func (co *CouponController) Redeem(c *gin.Context) {
	var req request_models.RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authorization required")
		return
	}

	resp, err := co.couponService.Redeem(c.Request.Context(), accountID, req.Code)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Coupon redeemed")
}
