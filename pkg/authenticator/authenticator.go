package authenticator

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

// Credentials is the ephemeral proof material extracted from one request.
// It lives for exactly one lookup and one verification within that request
// and is never cached or reused across requests.
type Credentials struct {
	// Login is the claimed identity, when the scheme carries one
	// (e.g., HTTP Basic). Empty for pure token schemes.
	Login string

	// Secret is the opaque proof: an API token, a password, a bearer token.
	Secret string
}

// Empty reports whether no credential material was extracted.
func (c Credentials) Empty() bool {
	return c.Login == "" && c.Secret == ""
}

// Key returns the directory lookup key for the credentials: the login when
// present, otherwise the secret itself (token schemes identify by token).
func (c Credentials) Key() string {
	if c.Login != "" {
		return c.Login
	}
	return c.Secret
}

// Strategy is the contract implemented by every authentication scheme. The
// pipeline drives the calls in a fixed order per request:
//
//	Supports -> Credentials -> Principal -> Verify -> OnSuccess / OnFailure
//
// Strategies hold no per-request state; every method is safe for concurrent
// use across requests.
type Strategy interface {
	// Name returns the strategy name used for registration and audit
	// (e.g., "token", "apikey", "jwt").
	Name() string

	// Supports decides whether this strategy should handle the request.
	// It must not mutate state or perform I/O.
	Supports(r *http.Request) bool

	// Credentials extracts raw credential material from the request. An
	// absent credential yields ErrMissingCredentials; unparseable material
	// yields ErrMalformedCredentials, optionally with a custom message that
	// reaches the failure response verbatim.
	Credentials(r *http.Request) (Credentials, error)

	// Principal resolves the extracted credentials against the supplied
	// directory. (nil, nil) means no matching principal, a normal outcome.
	Principal(ctx context.Context, creds Credentials, dir directory.Directory) (*directory.Principal, error)

	// Verify decides whether the credentials prove the principal's
	// identity. It is pure and deterministic: the same pair always yields
	// the same outcome.
	Verify(creds Credentials, principal *directory.Principal) bool

	// OnSuccess runs after verification. Returning false continues request
	// processing; returning true means the strategy wrote a response and
	// the request is complete.
	OnSuccess(w http.ResponseWriter, r *http.Request, principal *directory.Principal) bool

	// OnFailure writes the failure response. It must not fail.
	OnFailure(w http.ResponseWriter, r *http.Request, err error)

	// SupportsSession reports whether successful authentications by this
	// strategy may be persisted into a session by the caller.
	SupportsSession() bool
}

// Challenger is optionally implemented by strategies that produce their own
// challenge response when no authentication attempt was made. The registry's
// entry point strategy is consulted first; WriteChallenge is the fallback.
type Challenger interface {
	Start(w http.ResponseWriter, r *http.Request)
}

// Registry holds registered strategies in registration order. When several
// enabled strategies claim Supports(r), the first registered wins.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	order      []string
	enabled    map[string]bool
	entryPoint string
}

// NewRegistry creates a new strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
		enabled:    make(map[string]bool),
	}
}

// Register adds a strategy to the registry. Re-registering a name replaces
// the strategy but keeps its original position in the order.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[s.Name()]; !ok {
		r.order = append(r.order, s.Name())
	}
	r.strategies[s.Name()] = s
}

// Enable enables a strategy by name.
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[name]; !ok {
		return fmt.Errorf("strategy %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables a strategy by name.
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Get returns a strategy by name.
func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// IsEnabled checks if a strategy is enabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Installed returns all registered strategy names in registration order.
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Enabled returns enabled strategy names in registration order.
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enabled))
	for _, name := range r.order {
		if r.enabled[name] {
			names = append(names, name)
		}
	}
	return names
}

// SetEntryPoint designates the strategy that produces the challenge response
// when no strategy supports a request. Exactly one entry point is active at
// a time.
func (r *Registry) SetEntryPoint(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[name]; !ok {
		return fmt.Errorf("strategy %q not found", name)
	}
	r.entryPoint = name
	return nil
}

// EntryPoint returns the designated entry point strategy, if any.
func (r *Registry) EntryPoint() (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entryPoint == "" {
		return nil, false
	}
	s, ok := r.strategies[r.entryPoint]
	return s, ok
}

// DefaultRegistry is the global strategy registry.
var DefaultRegistry = NewRegistry()
