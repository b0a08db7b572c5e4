package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gatehouse-sec/gatehouse/pkg/identity"
	"github.com/gatehouse-sec/gatehouse/pkg/pipeline"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	Login    string   `json:"login"`
	Roles    []string `json:"roles"`
	Strategy string   `json:"strategy"`
	ClientIP string   `json:"client_ip,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint behind the
// authentication pipeline
func RegisterWhoamiEndpoint(s *server.Server, p *pipeline.Pipeline) {
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(p.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok || id.Principal == nil {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		resp := WhoamiResponse{
			Login:    id.Principal.Login,
			Roles:    id.Principal.Roles,
			Strategy: id.Strategy,
		}
		if id.RemoteIP != nil {
			resp.ClientIP = id.RemoteIP.String()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
