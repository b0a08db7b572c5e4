package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
)

// AuthenticatorsResponse represents the response from /authenticators
type AuthenticatorsResponse struct {
	Installed  []string `json:"installed"`
	Enabled    []string `json:"enabled"`
	EntryPoint string   `json:"entry_point,omitempty"`
}

// RegisterAuthenticatorsEndpoint registers the strategy listing endpoint
// (no auth required)
func RegisterAuthenticatorsEndpoint(s *server.Server) {
	s.Router.HandleFunc("/authenticators", handleAuthenticators(s.Registry)).Methods("GET")
}

func handleAuthenticators(registry *authenticator.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := AuthenticatorsResponse{
			Installed: registry.Installed(),
			Enabled:   registry.Enabled(),
		}
		if ep, ok := registry.EntryPoint(); ok {
			resp.EntryPoint = ep.Name()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
