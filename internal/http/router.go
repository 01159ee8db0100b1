package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/taskboard/internal/auth"
	"github.com/redmonkez12/taskboard/internal/config"
	"github.com/redmonkez12/taskboard/internal/httputil"
	"github.com/redmonkez12/taskboard/internal/logging"
	"github.com/redmonkez12/taskboard/internal/task"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, authHandler *auth.Handler, taskHandler *task.Handler, guard *auth.Guard, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.TrustedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth(cfg.Storage.Driver))

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes receive the caller's id from the guard
		r.Get("/profile", guard.Protect(authHandler.Profile))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", guard.Protect(taskHandler.List))
			r.Post("/", guard.Protect(taskHandler.Create))
			r.Put("/{id}", guard.Protect(taskHandler.Update))
			r.Delete("/{id}", guard.Protect(taskHandler.Delete))
		})
	})

	if ui, ok := newStaticHandler(cfg.Server.StaticDir); ok {
		logger.Info("serving web UI", "dir", cfg.Server.StaticDir)
		r.NotFound(ui.ServeHTTP)
	} else {
		r.NotFound(handleNotFound)
	}

	return r
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running and which storage backend it uses
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func handleHealth(storage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, HealthResponse{Status: "ok", Storage: storage}, http.StatusOK)
	}
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w, "not found", httputil.CodeNotFound, http.StatusNotFound)
}
