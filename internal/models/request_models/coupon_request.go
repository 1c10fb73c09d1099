package request_models

type RedeemCouponRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
}
