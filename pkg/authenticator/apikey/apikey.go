package apikey

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

const basicPrefix = "Basic "

// Ensure Strategy implements the full contract
var _ authenticator.Strategy = (*Strategy)(nil)
var _ authenticator.Challenger = (*Strategy)(nil)

// Strategy authenticates login/password pairs carried as HTTP Basic
// credentials. The login is the directory lookup key; the password is
// checked against the principal's stored secret hash.
type Strategy struct {
	authenticator.Base

	// Realm is advertised in the WWW-Authenticate challenge.
	Realm string
}

// New creates a Basic-auth strategy for the given realm.
func New(realm string) *Strategy {
	if realm == "" {
		realm = "Gatehouse"
	}
	return &Strategy{Realm: realm}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return "apikey"
}

// Supports reports whether a Basic Authorization header is present.
func (s *Strategy) Supports(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Authorization"), basicPrefix)
}

// Credentials extracts the login and password from the Basic header.
func (s *Strategy) Credentials(r *http.Request) (authenticator.Credentials, error) {
	if r.Header.Get("Authorization") == "" {
		return authenticator.Credentials{}, authenticator.ErrMissingCredentials()
	}
	login, password, ok := r.BasicAuth()
	if !ok {
		return authenticator.Credentials{}, authenticator.ErrMalformedCredentials("Malformed Basic authorization header")
	}
	if login == "" {
		return authenticator.Credentials{}, authenticator.ErrMissingCredentials()
	}
	return authenticator.Credentials{Login: login, Secret: password}, nil
}

// Principal resolves the login against the directory.
func (s *Strategy) Principal(ctx context.Context, creds authenticator.Credentials, dir directory.Directory) (*directory.Principal, error) {
	return dir.Lookup(ctx, creds.Login)
}

// Verify compares the password against the principal's stored secret hash.
// Hashes are bcrypt; anything that doesn't parse as bcrypt falls back to a
// constant-time byte comparison so plaintext fixtures keep working.
func (s *Strategy) Verify(creds authenticator.Credentials, principal *directory.Principal) bool {
	if len(principal.SecretHash) == 0 {
		return false
	}
	err := bcrypt.CompareHashAndPassword(principal.SecretHash, []byte(creds.Secret))
	if err == nil {
		return true
	}
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false
	}
	return subtle.ConstantTimeCompare(principal.SecretHash, []byte(creds.Secret)) == 1
}

// SupportsSession reports that Basic logins may be persisted into a session.
func (s *Strategy) SupportsSession() bool {
	return true
}

// Start writes the challenge response with a WWW-Authenticate header when
// the strategy is the entry point.
func (s *Strategy) Start(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+s.Realm+`"`)
	authenticator.WriteChallenge(w)
}
