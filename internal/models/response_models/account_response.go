package response_models

type LoginResponse struct {
	Token        string `json:"token"`
	IsSubscriber bool   `json:"is_subscriber"`
	ExpiresAt    string `json:"subscription_expires_at,omitempty"`
}

type RegisterResponse struct {
	ReferralCode string `json:"referral_code"`
}
