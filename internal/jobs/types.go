package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypePurgeRefreshTokens = "auth:purge_refresh_tokens"
)

// PurgeRefreshTokensPayload optionally pins the cutoff; a zero Before means
// "now" at processing time.
type PurgeRefreshTokensPayload struct {
	Before time.Time `json:"before"`
}

func NewPurgeRefreshTokensTask(payload PurgeRefreshTokensPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePurgeRefreshTokens, data, asynq.MaxRetry(3), asynq.Queue("low")), nil
}
