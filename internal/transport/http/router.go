// Package httptransport is the thin HTTP layer over the privacy-scope core.
// It serves operational endpoints (health, metrics) and debug endpoints for
// inspecting scope resolution; the auction-facing surfaces live elsewhere.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bidscope/internal/platform/health"
	"bidscope/internal/platform/middleware"
	"bidscope/internal/privacy/service"
)

// Handler delegates to the scope-resolution service without embedding
// business logic so transport concerns remain isolated.
type Handler struct {
	scope  *service.Service
	logger *slog.Logger
}

func NewHandler(scope *service.Service, logger *slog.Logger) *Handler {
	return &Handler{
		scope:  scope,
		logger: logger,
	}
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	// Debug endpoints for the privacy-scope pipeline
	r.Post("/privacy/scope", h.handleResolveScope)
	r.Post("/privacy/consent/validate", h.handleValidateConsent)

	return r
}
