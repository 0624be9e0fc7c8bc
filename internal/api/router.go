package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/go-tracker/internal/api/handlers"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/tracker"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
	limiters []*middleware.RateLimiter
}

// Close stops the background work started by NewRouter.
func (rt *Router) Close() {
	for _, l := range rt.limiters {
		l.Stop()
	}
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client // optional, only pinged by /health
	Logger         *slog.Logger
	JWTService     auth.TokenService
	AuthService    auth.Authenticator
	Tracker        *tracker.Service
	Debug          bool     // expose store error text in responses
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
	TrustProxy     bool     // take the client IP from X-Forwarded-For / X-Real-IP
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()
	rt := &Router{Router: r}

	// Global middleware
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	resp := handlers.NewResponder(cfg.Logger, cfg.Debug)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, resp)
	projectHandler := handlers.NewProjectHandler(cfg.Tracker.Projects, cfg.Tracker.Tasks, cfg.Tracker.Workflows, resp)
	workflowHandler := handlers.NewWorkflowHandler(cfg.Tracker.Workflows, resp)
	taskHandler := handlers.NewTaskHandler(cfg.Tracker.Tasks, resp)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints, limited per client IP
		r.Group(func(r chi.Router) {
			if cfg.RateLimitReqs > 0 {
				limiter := middleware.NewRateLimiter(cfg.RateLimitReqs, cfg.RateLimitSecs)
				rt.limiters = append(rt.limiters, limiter)
				r.Use(middleware.RateLimit(limiter))
			}
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/token", authHandler.Token)
			r.Post("/logout", authHandler.Logout)
		})

		// Protected routes, limited per user
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))
			if cfg.RateLimitReqs > 0 {
				limiter := middleware.NewRateLimiter(cfg.RateLimitReqs, cfg.RateLimitSecs)
				rt.limiters = append(rt.limiters, limiter)
				r.Use(middleware.RateLimitByUser(limiter))
			}

			r.Get("/me", authHandler.Me)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)
				r.Get("/{id}", projectHandler.Get)
				r.Put("/{id}", projectHandler.Update)
				r.Patch("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
				r.Post("/{id}/invite", projectHandler.Invite)
				r.Get("/{id}/members", projectHandler.Members)
				r.Get("/{id}/workflow-stages", projectHandler.Stages)
				r.Get("/{id}/tasks", projectHandler.Tasks)
				r.Post("/{id}/tasks", projectHandler.CreateTask)
				r.Patch("/{id}/tasks/{taskId}/move", projectHandler.MoveTask)
			})

			r.Route("/workflow", func(r chi.Router) {
				r.Get("/project/{id}", workflowHandler.ListByProject)
				r.Post("/", workflowHandler.Create)
				r.Patch("/stages/{stageId}", workflowHandler.UpdateStage)
				r.Delete("/stages/{stageId}", workflowHandler.DeleteStage)
				r.Patch("/{workflowId}", workflowHandler.Update)
				r.Delete("/{workflowId}", workflowHandler.Delete)
				r.Post("/{workflowId}/stages", workflowHandler.CreateStage)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/gettasks", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
			})
		})
	})

	return rt
}
