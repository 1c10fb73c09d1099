package request_models

type AdminGrantRequest struct {
	Email string `json:"email" binding:"required,email"`
	Days  int    `json:"days" binding:"required,gt=0"`
}
