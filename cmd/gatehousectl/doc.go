// Package main provides gatehousectl, the Gatehouse authentication gateway CLI.
//
// Gatehouse fronts an application with a pluggable authentication pipeline:
// inbound requests are claimed by one of the enabled strategies (header
// token, HTTP Basic, JWT), resolved against a principal directory, and
// either continue downstream with an identity attached or are answered with
// a structured JSON failure.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: endpoint handlers
//   - pkg/pipeline: the security pipeline driving strategies per request
//   - pkg/authenticator: strategy contract, registry, and failure taxonomy
//   - pkg/directory: principal directory implementations
//   - pkg/identity: request-scoped authenticated identity
//   - pkg/audit: RFC5424 audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	gatehousectl db migrate
//
//	# Provision a principal (prints its generated API key)
//	gatehousectl user create alice --roles admin
//
//	# Start the server
//	gatehousectl server
//
//	# Probe it
//	curl -H "X-AUTH-TOKEN: <api key>" localhost:8000/whoami
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string (omit to use the in-memory
//     directory provisioned from the config file)
//   - GATEHOUSE_STRATEGIES: comma-separated list of enabled strategies
//   - GATEHOUSE_ENTRY_POINT: strategy producing the challenge response
//   - GATEHOUSE_CONFIG_PATH: directory containing gatehouse.yml
//   - GATEHOUSE_LOG_LEVEL: log level (debug enables SQL logging)
//   - GATEHOUSE_PORT: server port (default: 8000)
package main
