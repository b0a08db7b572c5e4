package identity

import (
	"context"
	"net"
	"time"

	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request. It combines
// the resolved principal with request-specific context.
type Identity struct {
	// Principal is the directory record the request authenticated as.
	Principal *directory.Principal

	// Strategy is the name of the strategy that authenticated the request.
	Strategy string

	// AuthenticatedAt is when the attempt completed.
	AuthenticatedAt time.Time

	// RemoteIP is the client IP address, when known.
	RemoteIP net.IP
}

// FromPrincipal creates an Identity for a resolved principal.
func FromPrincipal(p *directory.Principal, strategy string) *Identity {
	return &Identity{
		Principal:       p,
		Strategy:        strategy,
		AuthenticatedAt: time.Now(),
	}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Login returns the authenticated principal's login, or "" when anonymous.
func (i *Identity) Login() string {
	if i == nil || i.Principal == nil {
		return ""
	}
	return i.Principal.Login
}

// HasRole reports whether the authenticated principal holds the named role.
func (i *Identity) HasRole(role string) bool {
	if i == nil || i.Principal == nil {
		return false
	}
	return i.Principal.HasRole(role)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
