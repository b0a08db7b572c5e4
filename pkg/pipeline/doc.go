// Package pipeline implements the security pipeline that invokes
// authentication strategies in a fixed order per request.
//
// # Control Flow
//
// For every inbound request the pipeline:
//
//  1. Walks enabled strategies in registration order and picks the first
//     whose Supports returns true. When several strategies claim a request,
//     first registered wins.
//  2. If no strategy claims the request, the entry point strategy writes the
//     challenge response (HTTP 401) and the request ends.
//  3. Otherwise drives Credentials -> Principal -> Verify. Any failure is
//     answered by the strategy's OnFailure (HTTP 403) and the request ends.
//  4. On success, stores the identity in the request context and hands off
//     to the next handler, unless the strategy's OnSuccess short-circuits.
//
// # State Machine
//
// Each request walks a private state machine:
//
//	NotAttempted -> CredentialsExtracted -> PrincipalResolved -> Verified -> Success
//
// with Failed reachable from the three middle states. Success and Failed are
// terminal. An absent or empty credential takes the challenge path from
// NotAttempted rather than failing. States are never persisted and carry no
// meaning across requests; extracted credentials feed exactly one lookup and
// one verification and are never cached.
//
// Every terminal transition emits an audit event and updates the Prometheus
// counters in pkg/metrics.
package pipeline
