package offline

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxPushPayload = 4 << 10

type statusResponse struct {
	State        string   `json:"state"`
	Version      string   `json:"version"`
	PeriodicSync bool     `json:"periodicSync"`
	Caches       []string `json:"caches"`
}

// NewHandler serves the worker's control endpoints under /__worker and
// proxies everything else to the origin through the worker's caches.
func NewHandler(w *Worker) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(w.origin)
	proxy.Transport = w
	proxy.ErrorHandler = func(rw http.ResponseWriter, r *http.Request, err error) {
		w.log.WithError(err).WithField("path", r.URL.Path).Warn("origin unreachable")
		http.Error(rw, "origin unreachable", http.StatusBadGateway)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/__worker", func(r chi.Router) {
		r.Get("/status", func(rw http.ResponseWriter, r *http.Request) {
			names, err := w.caches.Keys(r.Context())
			if err != nil {
				http.Error(rw, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(rw, http.StatusOK, statusResponse{
				State:        w.State().String(),
				Version:      w.cfg.Version,
				PeriodicSync: w.PeriodicSyncRegistered(),
				Caches:       names,
			})
		})
		r.Post("/sync", func(rw http.ResponseWriter, r *http.Request) {
			tag := r.URL.Query().Get("tag")
			if tag == "" {
				tag = w.cfg.SyncTag
			}
			writeJSON(rw, http.StatusOK, map[string]bool{"synced": w.Sync(r.Context(), tag)})
		})
		r.Post("/push", func(rw http.ResponseWriter, r *http.Request) {
			payload, err := io.ReadAll(io.LimitReader(r.Body, maxPushPayload))
			if err != nil {
				http.Error(rw, err.Error(), http.StatusBadRequest)
				return
			}
			if err := w.Push(r.Context(), payload); err != nil {
				http.Error(rw, err.Error(), http.StatusBadGateway)
				return
			}
			rw.WriteHeader(http.StatusAccepted)
		})
	})
	r.Handle("/*", proxy)
	return r
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
