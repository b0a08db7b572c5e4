// Package identity provides authenticated identity management for Gatehouse
// requests.
//
// This package separates the authenticated identity from credential
// handling. An Identity combines the resolved principal with
// request-specific context (authenticating strategy, remote IP, attempt
// time) and travels through the request context.
//
// # Basic Usage
//
//	// Create identity for a resolved principal
//	id := identity.FromPrincipal(principal, strategy.Name())
//
//	// Add request context
//	id.WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//
// Handlers behind the authentication pipeline read the identity from the
// request context; handlers in front of it see no identity at all.
package identity
