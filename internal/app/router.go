package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/safetyid/safetyid-console/internal/auth"
	"github.com/safetyid/safetyid-console/internal/companies"
	"github.com/safetyid/safetyid-console/internal/editions"
	"github.com/safetyid/safetyid-console/internal/observability"
	"github.com/safetyid/safetyid-console/internal/safetyids"
	"github.com/safetyid/safetyid-console/internal/users"
	"github.com/safetyid/safetyid-console/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Guard            auth.Guard
	AuthHandler      *auth.Handler
	EditionsHandler  *editions.Handler
	CompaniesHandler *companies.Handler
	UsersHandler     *users.Handler
	SafetyIDHandler  *safetyids.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router. /auth, /healthz and /metrics are open;
// every other route group sits behind the bearer token guard.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.Guard.Authenticator)
		if params.EditionsHandler != nil {
			r.Route("/editions", params.EditionsHandler.MountRoutes)
		}
		if params.CompaniesHandler != nil {
			r.Route("/companies", params.CompaniesHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.SafetyIDHandler != nil {
			r.Route("/safety-ids", params.SafetyIDHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
