package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-tracker/internal/auth"
)

type Handler struct {
	tokens auth.TokenStore
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(tokens auth.TokenStore, logger *slog.Logger) *Handler {
	return &Handler{tokens: tokens, logger: logger, now: time.Now}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePurgeRefreshTokens, h.HandlePurgeRefreshTokens)
}

func (h *Handler) HandlePurgeRefreshTokens(ctx context.Context, t *asynq.Task) error {
	var payload PurgeRefreshTokensPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	_, err := h.Purge(ctx, payload.Before)
	return err
}

// Purge deletes refresh tokens that expired before the cutoff. A zero cutoff
// means now.
func (h *Handler) Purge(ctx context.Context, before time.Time) (int64, error) {
	if before.IsZero() {
		before = h.now()
	}

	purged, err := h.tokens.PurgeExpired(ctx, before)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to purge refresh tokens", "error", err)
		return 0, err
	}

	h.logger.InfoContext(ctx, "purged refresh tokens", "count", purged, "before", before.Format(time.RFC3339))
	return purged, nil
}
