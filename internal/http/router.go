// Package httpapi assembles the public HTTP surface: middleware, the
// versioned API routes, and the operational endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	enrollmenthandler "sppg/internal/enrollment/handler"
	programhandler "sppg/internal/program/handler"
	"sppg/pkg/platform/httputil"
	"sppg/pkg/platform/middleware/auth"
	"sppg/pkg/platform/middleware/metadata"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger      *slog.Logger
	Auth        *auth.Validator
	Programs    *programhandler.Handler
	Enrollments *enrollmenthandler.Handler

	// Health reports readiness of the backing stores. nil means
	// always healthy.
	Health func(ctx context.Context) error
}

// NewRouter wires all endpoints. Every /api/v1 route runs behind request
// metadata capture and tenant authentication; /healthz and /metrics stay
// open for the platform.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.RequestMetadata)

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(auth.RequireTenant(deps.Auth, deps.Logger))
		deps.Programs.Register(api)
		deps.Enrollments.Register(api)
	})

	return r
}

func handleHealth(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable,
					map[string]string{"status": "unhealthy"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
