// Package server provides the Gatehouse HTTP server.
//
// The server fronts an application with the authentication pipeline. It uses
// gorilla/mux for routing and gorilla/handlers for request logging.
//
// # Server Setup
//
//	srv := server.NewServer(dir, registry, cfg, db)
//	endpoints.RegisterAll(srv, pipe)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// Endpoints are registered via the endpoints subpackage:
//
//   - / and /status - health and version, no authentication
//   - /authenticators - installed/enabled strategies, no authentication
//   - /metrics - Prometheus metrics, no authentication
//   - /whoami - authenticated identity echo, behind the pipeline
//   - /api/... - protected application routes, behind the pipeline
package server
