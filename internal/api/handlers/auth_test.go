package handlers_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/go-tracker/internal/api/dto"
	"github.com/hugh/go-tracker/internal/api/handlers"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	authService := auth.NewService(tc.DB, tc.AccessJWT, tc.RefreshJWT, auth.NewDBTokenStore(tc.DB))
	handler := handlers.NewAuthHandler(authService, handlers.NewResponder(testutil.TestLogger(), false))

	r := chi.NewRouter()
	r.Post("/api/register", handler.Register)
	r.Post("/api/login", handler.Login)
	r.Post("/api/token", handler.Token)
	r.Post("/api/logout", handler.Logout)
	r.With(middleware.Auth(tc.AccessJWT)).Get("/api/me", handler.Me)

	return r, tc
}

func TestAuthHandler_Register(t *testing.T) {
	router, _ := setupAuthTestRouter(t)

	t.Run("successful registration", func(t *testing.T) {
		body := map[string]string{"name": "Alice", "email": "a@x.com", "password": "pw"}
		rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/register", body))

		testutil.AssertStatus(t, rr, http.StatusCreated)
		var data dto.RegisterResponse
		env := decodeEnvelope(t, rr, &data)
		assert.Equal(t, dto.StatusSuccess, env.Status)
		assert.NotZero(t, data.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := map[string]string{"name": "Other", "email": "a@x.com", "password": "pw2"}
		rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/register", body))

		testutil.AssertStatus(t, rr, http.StatusConflict)
		env := decodeEnvelope(t, rr, nil)
		assert.Equal(t, dto.StatusError, env.Status)
	})

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"missing name", map[string]string{"email": "b@x.com", "password": "pw"}, "name"},
		{"missing email", map[string]string{"name": "B", "password": "pw"}, "email"},
		{"invalid email", map[string]string{"name": "B", "email": "nope", "password": "pw"}, "email"},
		{"missing password", map[string]string{"name": "B", "email": "b@x.com"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/register", tt.body))

			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			env := decodeEnvelope(t, rr, nil)
			assert.Contains(t, env.Details, tt.field)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/register", nil)
		rr := serve(router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestAuthHandler_LoginRefreshLogout(t *testing.T) {
	router, tc := setupAuthTestRouter(t)

	t.Run("wrong password", func(t *testing.T) {
		body := map[string]string{"email": tc.User.Email, "password": "wrong"}
		rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/login", body))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	body := map[string]string{"email": tc.User.Email, "password": testutil.TestPassword}
	rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/login", body))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var tokens dto.LoginResponse
	decodeEnvelope(t, rr, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	t.Run("access token opens /me", func(t *testing.T) {
		rr := serve(router, testutil.AuthenticatedRequest(t, "GET", "/api/me", nil, tokens.AccessToken))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var user struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		}
		decodeEnvelope(t, rr, &user)
		assert.Equal(t, tc.User.ID, user.ID)
		assert.Equal(t, tc.User.Email, user.Email)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("refresh token yields access token", func(t *testing.T) {
		rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/token",
			map[string]string{"refreshToken": tokens.RefreshToken}))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var data dto.TokenResponse
		decodeEnvelope(t, rr, &data)
		assert.NotEmpty(t, data.AccessToken)
	})

	t.Run("unknown refresh token is forbidden", func(t *testing.T) {
		rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/token",
			map[string]string{"refreshToken": tokens.AccessToken}))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("logout revokes", func(t *testing.T) {
		rr := serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/logout",
			map[string]string{"refreshToken": tokens.RefreshToken}))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var data dto.SuccessResponse
		decodeEnvelope(t, rr, &data)
		assert.True(t, data.Success)

		rr = serve(router, testutil.UnauthenticatedRequest(t, "POST", "/api/token",
			map[string]string{"refreshToken": tokens.RefreshToken}))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}
