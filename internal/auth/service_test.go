package auth_test

import (
	"testing"
	"time"

	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*auth.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	access, refresh := testutil.CreateTestJWTServices()
	return auth.NewService(db, access, refresh, auth.NewDBTokenStore(db)), db
}

func TestService_Register(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := testutil.TestContext(t)

	user, err := svc.Register(ctx, auth.RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "pw"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "pw", user.PasswordHash)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterInput{Name: "Other", Email: "alice@example.com", Password: "x"})
		assert.ErrorIs(t, err, auth.ErrUserExists)
	})
}

func TestService_Login(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := testutil.TestContext(t)

	_, err := svc.Register(ctx, auth.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "bob@example.com", "pw", nil},
		{"email is case insensitive", "BOB@example.com", "pw", nil},
		{"wrong password", "bob@example.com", "nope", auth.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "pw", auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.Login(ctx, auth.LoginInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)

			var count int64
			require.NoError(t, db.Model(&models.RefreshToken{}).Where("token = ?", pair.RefreshToken).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestService_RefreshAndLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := testutil.TestContext(t)

	user, err := svc.Register(ctx, auth.RegisterInput{Name: "Carol", Email: "carol@example.com", Password: "pw"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, auth.LoginInput{Email: "carol@example.com", Password: "pw"})
	require.NoError(t, err)

	access, _ := testutil.CreateTestJWTServices()

	t.Run("refresh issues a new access token", func(t *testing.T) {
		token, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := access.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "")
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

		_, err := svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)

		assert.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	})
}

func TestService_GetUserByID(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := testutil.TestContext(t)
	user := testutil.CreateTestUser(t, db, "dave")

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUserByID(ctx, user.ID+100)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestDBTokenStore_PurgeExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := auth.NewDBTokenStore(db)
	ctx := testutil.TestContext(t)
	user := testutil.CreateTestUser(t, db, "erin")

	now := time.Now()
	require.NoError(t, store.Save(ctx, "expired", user.ID, now.Add(-time.Hour)))
	require.NoError(t, store.Save(ctx, "live", user.ID, now.Add(time.Hour)))

	ok, err := store.Exists(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, ok)

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	ok, err = store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)
}
