// Package config provides configuration management for Gatehouse.
//
// Configuration is merged from three sources, later ones winning:
//
//   - built-in defaults
//   - the configuration file (gatehouse.yml under GATEHOUSE_CONFIG_PATH,
//     default /etc/gatehouse/config)
//   - GATEHOUSE_* environment variables
//
// Each attribute remembers which source supplied it; the CLI's
// "configuration show" command surfaces that.
//
// # Key Configuration Options
//
//   - GATEHOUSE_STRATEGIES: enabled authentication strategies
//   - GATEHOUSE_ENTRY_POINT: strategy producing the challenge response
//   - GATEHOUSE_TOKEN_HEADER: header carrying API tokens
//   - GATEHOUSE_JWT_SIGNING_KEY: HMAC key for the jwt strategy
//   - DATABASE_URL: principal database connection
//   - GATEHOUSE_PORT: server listen port
package config
