package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/database"
	"github.com/hugh/go-tracker/internal/jobs"
	"github.com/hugh/go-tracker/pkg/config"
	"github.com/hugh/go-tracker/pkg/queue"
	"github.com/hugh/go-tracker/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting tracker worker", "purge_cron", cfg.Jobs.PurgeCron)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	var tokens auth.TokenStore = auth.NewDBTokenStore(db)
	if cfg.TokenStore == config.TokenStoreRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
		})
		defer redisClient.Close()
		tokens = auth.NewRedisTokenStore(redisClient)
	}

	srv := queue.NewServer(&cfg.Redis, cfg.Jobs.Concurrency)
	scheduler := queue.NewScheduler(&cfg.Redis)

	purgeTask, err := jobs.NewPurgeRefreshTokensTask(jobs.PurgeRefreshTokensPayload{})
	if err != nil {
		logger.Error("failed to build purge task", "error", err)
		os.Exit(1)
	}
	entryID, err := scheduler.Register(cfg.Jobs.PurgeCron, purgeTask)
	if err != nil {
		logger.Error("failed to schedule purge task", "error", err)
		os.Exit(1)
	}
	logger.Info("scheduled refresh token purge", "entry_id", entryID, "next_run", nextRun(cfg.Jobs.PurgeCron))

	mux := asynq.NewServeMux()
	jobs.NewHandler(tokens, logger).RegisterHandlers(mux)

	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(mux); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	logger.Info("worker started, waiting for tasks...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...")
	scheduler.Shutdown()
	srv.Shutdown()

	logger.Info("worker stopped")
}

func nextRun(expr string) string {
	next, err := util.NextCronTime(expr, time.Now())
	if err != nil {
		return ""
	}
	return next.Format("2006-01-02 15:04:05")
}
