package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/go-tracker/internal/api"
	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/database"
	"github.com/hugh/go-tracker/internal/tracker"
	"github.com/hugh/go-tracker/pkg/config"
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

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting tracker server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
		"token_store", cfg.TokenStore,
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Server.IsDevelopment() {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// Redis is required for the redis token store. Otherwise a reachable
	// instance is only reported by /health.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		if cfg.TokenStore == config.TokenStoreRedis {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to connect to Redis", "error", err)
		redisClient.Close()
		redisClient = nil
	}

	var tokens auth.TokenStore = auth.NewDBTokenStore(db)
	if cfg.TokenStore == config.TokenStoreRedis {
		tokens = auth.NewRedisTokenStore(redisClient)
	}

	// Initialize services
	accessJWT := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry())
	refreshJWT := auth.NewJWTService(cfg.JWT.RefreshSecret, cfg.JWT.RefreshExpiry())
	authService := auth.NewService(db, accessJWT, refreshJWT, tokens)
	trackerService := tracker.NewService(db, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		JWTService:     accessJWT,
		AuthService:    authService,
		Tracker:        trackerService,
		Debug:          cfg.Server.IsDevelopment(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	router.Close()

	if redisClient != nil {
		redisClient.Close()
	}

	if err := database.Close(db); err != nil {
		logger.Error("failed to close database", "error", err)
	}

	logger.Info("server stopped")
}
