// Package authenticator defines the contract for Gatehouse authentication
// strategies.
//
// Gatehouse supports multiple authentication schemes. This package provides
// the Strategy interface all schemes implement, the tagged Error type for
// authentication failures, and the Registry that tracks installed and
// enabled strategies.
//
// # Strategy Interface
//
// The pipeline drives each strategy's methods in a fixed order per request:
//
//	Supports -> Credentials -> Principal -> Verify -> OnSuccess / OnFailure
//
// Every stage failure is translated into a JSON response with a message
// field; a custom message attached to an Error takes precedence over the
// generic message for its kind.
//
// # Built-in Strategies
//
// The following strategies are available in subpackages:
//
//   - token: header API-token authentication - see [github.com/gatehouse-sec/gatehouse/pkg/authenticator/token]
//   - apikey: HTTP Basic login/password authentication - see [github.com/gatehouse-sec/gatehouse/pkg/authenticator/apikey]
//   - jwtauth: Bearer JWT authentication - see [github.com/gatehouse-sec/gatehouse/pkg/authenticator/jwtauth]
//
// # Selection and the Entry Point
//
// When several enabled strategies claim a request, the first registered
// wins. Exactly one strategy may be designated as the entry point: it
// produces the challenge response (HTTP 401) for requests no strategy
// claims. Strategies implementing Challenger customize that response;
// WriteChallenge is the fallback.
//
// # Configuration
//
// Enabled strategies are configured via the config file or the
// GATEHOUSE_STRATEGIES environment variable as a comma-separated list:
//
//	GATEHOUSE_STRATEGIES=token,apikey
package authenticator
