package handlers

import (
	"errors"
	"net/http"

	"github.com/hugh/go-tracker/internal/api/dto"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/auth"
)

type AuthHandler struct {
	authService auth.Authenticator
	resp        *Responder
}

func NewAuthHandler(authService auth.Authenticator, resp *Responder) *AuthHandler {
	return &AuthHandler{authService: authService, resp: resp}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			h.resp.Fail(w, http.StatusConflict, "User already exists", nil)
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusCreated, "User registered", dto.RegisterResponse{UserID: user.ID})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	pair, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.resp.Fail(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, "Logged in", dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Token exchanges a refresh token for a new access token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			h.resp.Fail(w, http.StatusForbidden, "Invalid refresh token", nil)
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, "", dto.TokenResponse{AccessToken: accessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if !h.resp.decode(w, r, &req) {
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, "Logged out", dto.SuccessResponse{Success: true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			h.resp.Fail(w, http.StatusNotFound, "User not found", nil)
			return
		}
		h.resp.Error(w, r, err)
		return
	}

	h.resp.JSON(w, http.StatusOK, "", user)
}
