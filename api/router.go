// Package api exposes the gateway over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the API. metricsHandler may be nil to leave /metrics
// unrouted.
func NewRouter(gateway Gateway, providers []string, observer RequestObserver, metricsHandler http.Handler) *chi.Mux {
	h := &handlers{gateway: gateway, providers: providers}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(observer))
	r.Use(recoverer)

	r.Get("/health", h.health)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/media/resolve", h.resolveMedia)
		r.Post("/profile/resolve", h.resolveProfile)
	})

	return r
}
