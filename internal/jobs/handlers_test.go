package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	auth.TokenStore
}

func (failingStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, errors.New("store down")
}

func TestNewPurgeRefreshTokensTask(t *testing.T) {
	task, err := NewPurgeRefreshTokensTask(PurgeRefreshTokensPayload{})
	require.NoError(t, err)
	assert.Equal(t, TypePurgeRefreshTokens, task.Type())
}

func TestHandlePurgeRefreshTokens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := auth.NewDBTokenStore(db)
	user := testutil.CreateTestUser(t, db, "alice")

	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.RefreshToken{Token: "old", UserID: user.ID, ExpiresAt: fixed.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.RefreshToken{Token: "new", UserID: user.ID, ExpiresAt: fixed.Add(time.Hour)}).Error)

	handler := NewHandler(store, testutil.TestLogger())
	handler.now = func() time.Time { return fixed }

	t.Run("empty payload purges up to now", func(t *testing.T) {
		require.NoError(t, handler.HandlePurgeRefreshTokens(ctx, asynq.NewTask(TypePurgeRefreshTokens, nil)))

		var tokens []models.RefreshToken
		require.NoError(t, db.Find(&tokens).Error)
		require.Len(t, tokens, 1)
		assert.Equal(t, "new", tokens[0].Token)
	})

	t.Run("explicit cutoff", func(t *testing.T) {
		task, err := NewPurgeRefreshTokensTask(PurgeRefreshTokensPayload{Before: fixed.Add(2 * time.Hour)})
		require.NoError(t, err)
		require.NoError(t, handler.HandlePurgeRefreshTokens(ctx, task))

		var count int64
		require.NoError(t, db.Model(&models.RefreshToken{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("invalid payload", func(t *testing.T) {
		err := handler.HandlePurgeRefreshTokens(ctx, asynq.NewTask(TypePurgeRefreshTokens, []byte("invalid json")))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal payload")
	})

	t.Run("store failure is returned for retry", func(t *testing.T) {
		failing := NewHandler(failingStore{}, testutil.TestLogger())
		_, err := failing.Purge(ctx, time.Time{})
		assert.Error(t, err)
	})
}

func TestRegisterHandlers(t *testing.T) {
	mux := asynq.NewServeMux()
	NewHandler(failingStore{}, testutil.TestLogger()).RegisterHandlers(mux)

	h, pattern := mux.Handler(asynq.NewTask(TypePurgeRefreshTokens, nil))
	assert.NotNil(t, h)
	assert.Equal(t, TypePurgeRefreshTokens, pattern)
}
