// Package httpapi assembles the HTTP router: shared middleware, the metrics
// endpoint and the module handlers.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"qrbill/internal/platform/metrics"
	"qrbill/pkg/platform/middleware/requestid"
	"qrbill/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires middleware and mounts every registrar. m may be nil, in
// which case neither request metrics nor /metrics are served.
func NewRouter(m *metrics.Metrics, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	for _, reg := range registrars {
		reg.Register(r)
	}
	return r
}
