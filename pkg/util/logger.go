package util

import (
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/m-mizutani/masq"
)

var jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)

func NewLogger(env string) *slog.Logger {
	return NewLoggerTo(os.Stdout, env)
}

// NewLoggerTo builds the service logger on top of w. Credentials and tokens
// are masked before they reach the handler.
func NewLoggerTo(w io.Writer, env string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: masq.New(
			masq.WithFieldName("password"),
			masq.WithFieldName("token"),
			masq.WithFieldName("accessToken"),
			masq.WithFieldName("refreshToken"),
			masq.WithFieldName("authorization"),
			masq.WithRegex(jwtPattern),
		),
	}

	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}
