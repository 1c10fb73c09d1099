package request_models

type SignUpRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	DJName     string  `json:"dj_name" binding:"required,min=2,max=150"`
	Password   string  `json:"password" binding:"required,min=6"`
	ReferredBy *string `json:"referred_by"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
