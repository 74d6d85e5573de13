// Package web provides the JSON HTTP API for the custodian integration
// service: schema storage and versioning, comparison, import/export,
// document ingestion, and bearer-token auth.
package web

import (
	"net/http"

	"github.com/codybmenefee/custodian-integration-tool/adapters/auth"
	"github.com/codybmenefee/custodian-integration-tool/adapters/metrics"
	"github.com/codybmenefee/custodian-integration-tool/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handler provides the HTTP API endpoints.
type Handler struct {
	auth      *app.AuthService
	schemas   *app.SchemaService
	documents *app.DocumentService
	tokens    *auth.TokenService
	metrics   *metrics.Collector
	gatherer  prometheus.Gatherer
	logger    zerolog.Logger

	// maxUploadBytes bounds document upload size. Zero means the default.
	maxUploadBytes int64
}

// Deps contains dependencies for the API handler.
type Deps struct {
	Auth           *app.AuthService
	Schemas        *app.SchemaService
	Documents      *app.DocumentService
	Tokens         *auth.TokenService
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

const defaultMaxUploadBytes = 16 << 20 // 16 MiB

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	max := deps.MaxUploadBytes
	if max <= 0 {
		max = defaultMaxUploadBytes
	}
	return &Handler{
		auth:           deps.Auth,
		schemas:        deps.Schemas,
		documents:      deps.Documents,
		tokens:         deps.Tokens,
		metrics:        deps.Metrics,
		gatherer:       deps.Gatherer,
		logger:         deps.Logger,
		maxUploadBytes: max,
	}
}

// Router returns the API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.loggingMiddleware)
	if h.metrics != nil {
		r.Use(h.metricsMiddleware)
	}

	r.Get("/healthz", h.Health)
	if h.gatherer != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Everything below requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)

			r.Get("/auth/me", h.Me)

			r.Route("/schemas", func(r chi.Router) {
				r.Get("/", h.ListSchemas)
				r.Post("/", h.CreateSchema)
				r.Get("/compare", h.CompareSchemas)
				r.Post("/import", h.ImportSchema)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetSchema)
					r.Put("/", h.UpdateSchema)
					r.Delete("/", h.DeleteSchema)
					r.Get("/export", h.ExportSchema)
					r.Get("/versions", h.ListSchemaVersions)
					r.Post("/versions", h.CreateSchemaVersion)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.ListDocuments)
				r.Post("/", h.UploadDocument)
				r.Get("/{id}", h.GetDocument)
				r.Delete("/{id}", h.DeleteDocument)
			})
		})
	})

	return r
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
