package response_models

type CouponRedeemResponse struct {
	Code        string `json:"code"`
	GrantedDays int    `json:"granted_days"`
	ExpiresAt   string `json:"subscription_expires_at"`
}
