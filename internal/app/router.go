// Package app wires configuration, adapters, and routes into a runnable server.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/jobautofill/backend/internal/adapter/httpserver"
	"github.com/jobautofill/backend/internal/adapter/observability"
	"github.com/jobautofill/backend/internal/config"
)

// ParseOrigins splits a comma-separated origin list, trimming spaces. An empty
// input means "*".
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middleware and routes.
// Extraction and autofill can block on a model call, so the request timeout
// follows the write timeout rather than a short API budget.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(cfg.HTTPWriteTimeout))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limit the endpoints that mutate state or spend model time.
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RatePerMinute, 1*time.Minute))
		wr.Post("/v1/resume/upload", srv.UploadResumeHandler())
		wr.Delete("/v1/resume/current", srv.DeleteResumeHandler())
		wr.Post("/v1/extract", srv.ExtractHandler())
		wr.Post("/v1/autofill", srv.AutofillHandler())
		wr.Post("/v1/autofill/batch", srv.AutofillBatchHandler())
		wr.Post("/v1/models/active", srv.SetModelHandler())
	})

	// Read-only endpoints.
	r.Get("/v1/resume/current", srv.CurrentResumeHandler())
	r.Get("/v1/extract/current", srv.CurrentExtractionHandler())
	r.Get("/v1/models", srv.ListModelsHandler())
	r.Get("/v1/models/active", srv.ActiveModelHandler())

	// Health and metrics.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", srv.ReadyzHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/openapi.yaml", srv.OpenAPIServe())

	return httpserver.SecurityHeaders(r)
}
