// Package cli implements trackerctl, the operator command line for the
// tracker database: schema migration, demo data and refresh token cleanup.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/database"
	"github.com/hugh/go-tracker/pkg/config"
	"github.com/hugh/go-tracker/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// App is what every command needs once configuration has been resolved.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *slog.Logger
}

// Opener builds an App. The returned func releases its connections.
type Opener func(ctx context.Context) (*App, func(), error)

// DefaultOpener loads configuration from the environment and connects to
// Postgres, plus Redis when it backs the token store.
func DefaultOpener(ctx context.Context) (*App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	app := &App{Config: cfg, DB: db, Logger: logger}
	if cfg.TokenStore == config.TokenStoreRedis {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
		})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			app.Redis.Close()
			database.Close(db)
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
	}

	closer := func() {
		if app.Redis != nil {
			app.Redis.Close()
		}
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
	return app, closer, nil
}

// TokenStore returns the refresh token store selected by TOKEN_STORE.
func (a *App) TokenStore() auth.TokenStore {
	if a.Config.TokenStore == config.TokenStoreRedis && a.Redis != nil {
		return auth.NewRedisTokenStore(a.Redis)
	}
	return auth.NewDBTokenStore(a.DB)
}

// NewRootCmd wires the trackerctl command tree around open.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Operator tools for the tracker database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd(open))
	root.AddCommand(seedCmd(open))
	root.AddCommand(purgeTokensCmd(open))

	return root
}

// withApp runs fn against a freshly opened App and always releases it.
func withApp(cmd *cobra.Command, open Opener, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, closeApp, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	return fn(ctx, app)
}

var (
	okLabel   = color.New(color.FgGreen).SprintFunc()
	skipLabel = color.New(color.FgYellow).SprintFunc()
)

func printStep(w io.Writer, label, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", label, fmt.Sprintf(format, args...))
}
