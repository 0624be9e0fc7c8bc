package dto

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenRequest carries a refresh token for /token and /logout.
type TokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RegisterResponse struct {
	UserID uint `json:"userId"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
