package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SignupRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Login    string `json:"login"    validate:"required,min=1,max=150"`
	Password string `json:"password" validate:"required,min=1"`
}

type SigninRequest struct {
	Login    string `json:"login"    validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Login     string `json:"login"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type SignupResponse struct {
	Message string `json:"message"`
}
