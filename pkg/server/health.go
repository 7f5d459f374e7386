package server

import (
	"encoding/json"
	"net/http"

	"github.com/gitlumen/gitlumen/pkg/plugin"
	"github.com/gitlumen/gitlumen/pkg/provider"
)

type healthResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Providers []string `json:"providers"`
	Plugins   []string `json:"plugins"`
}

// healthHandler reports liveness plus the provider and plugin types this
// process was built with, so a probe can tell a misconfigured binary
// from a healthy one.
func healthHandler(providers *provider.Registry, plugins *plugin.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:    "ok",
			Service:   "gitlumen",
			Providers: providers.Types(),
			Plugins:   plugins.Types(),
		})
	})
}
