package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gatehouse-sec/gatehouse/pkg/identity"
	"github.com/gatehouse-sec/gatehouse/pkg/pipeline"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
)

// RegisterAPIEndpoints registers the protected application routes behind the
// authentication pipeline.
func RegisterAPIEndpoints(s *server.Server, p *pipeline.Pipeline) {
	apiRouter := s.Router.PathPrefix("/api").Subrouter()
	apiRouter.Use(p.Middleware)

	apiRouter.HandleFunc("/ping", handlePing()).Methods("GET")
}

func handlePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		greeting := "Hello"
		if id, ok := identity.Get(r.Context()); ok {
			greeting = "Hello " + id.Login()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": greeting})
	}
}
