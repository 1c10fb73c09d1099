package response_models

type AdminGrantResponse struct {
	Email     string `json:"email"`
	ExpiresAt string `json:"subscription_expires_at"`
}
