package directory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// Principal is a user or service account record owned by a directory.
// Authentication strategies only ever read principals; provisioning happens
// through the CLI or whatever system backs the directory.
type Principal struct {
	// Login is the unique human-facing identifier (e.g., "alice").
	Login string

	// APIKey is the opaque token that identifies the principal in
	// header-token authentication. Empty when the principal only
	// authenticates with a password.
	APIKey string

	// Roles is the ordered set of granted role names.
	Roles []string

	// SecretHash is optional verification material (a bcrypt hash of the
	// principal's password). Unused by token-based strategies.
	SecretHash []byte
}

// Directory resolves a credential key to a Principal. The key may be a login
// name or an API key; implementations index both. Lookup returns (nil, nil)
// when no principal matches, which is a normal outcome and not an error.
// Lookup must be safe to call once per request and must not itself
// authenticate, only retrieve.
type Directory interface {
	Lookup(ctx context.Context, key string) (*Principal, error)
}

// HealthChecker is implemented by directories with a backing store that can
// be probed for connectivity.
type HealthChecker interface {
	CheckConnectivity() error
}

// GenerateAPIKey returns a new random API key for a principal.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HasRole reports whether the principal was granted the named role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
