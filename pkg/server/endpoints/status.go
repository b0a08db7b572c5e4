package endpoints

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gatehouse-sec/gatehouse/pkg/directory"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
)

// StatusResponse represents the response from the /status endpoint
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// RegisterStatusEndpoints registers the status endpoints (no auth required)
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s.Directory)).Methods("GET")
	s.Router.HandleFunc("/status", handleStatus(s.Directory)).Methods("GET")
}

func handleStatus(dir directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("GATEHOUSE_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		status := "ok"
		code := http.StatusOK
		if hc, ok := dir.(directory.HealthChecker); ok {
			if err := hc.CheckConnectivity(); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(StatusResponse{Status: status, Version: version})
	}
}
