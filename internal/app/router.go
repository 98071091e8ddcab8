package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vidyavipul/Mini-User-Management-System/internal/accounts"
	"github.com/vidyavipul/Mini-User-Management-System/internal/observability"
	"github.com/vidyavipul/Mini-User-Management-System/internal/platform/httpx"
	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AccountsHandler *accounts.Handler
	Metrics         *observability.Metrics
	// RequestLog toggles chi's request logger.
	RequestLog bool
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	if params.RequestLog {
		r.Use(chimw.Logger)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, shared.NewError(shared.ErrNotFound, "Route not found"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusOK, "Backend is running")
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", params.AccountsHandler.MountAuthRoutes)
	r.Route("/api/users", params.AccountsHandler.MountUserRoutes)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
