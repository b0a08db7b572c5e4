package endpoints

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gatehouse-sec/gatehouse/pkg/pipeline"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
)

// RegisterAll registers every Gatehouse endpoint on the server's router.
// Routes under the pipeline middleware require authentication; the rest are
// open.
func RegisterAll(s *server.Server, p *pipeline.Pipeline) {
	RegisterStatusEndpoints(s)
	RegisterAuthenticatorsEndpoint(s)
	RegisterWhoamiEndpoint(s, p)
	RegisterAPIEndpoints(s, p)

	s.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
