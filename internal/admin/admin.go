// Package admin implements the daemon's admin HTTP surface: a small
// chi router exposing /healthz and /metrics. It is explicitly separate
// from, and non-authoritative over, the TCP control plane in internal
// /session — a tool that can't reach the MPD-family port can still probe
// liveness and scrape metrics here.
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc reports whether the daemon considers itself healthy. Used
// so /healthz can reflect e.g. "playlist directory unwritable" without
// the admin package importing the daemon's internals.
type HealthFunc func() error

// NewRouter builds the admin HTTP router. healthy may be nil, in which
// case /healthz always reports ok.
func NewRouter(healthy HealthFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if healthy != nil {
			if err := healthy(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
