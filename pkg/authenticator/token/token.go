package token

import (
	"context"
	"net/http"

	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

// DefaultHeader is the request header carrying the API token.
const DefaultHeader = "X-AUTH-TOKEN"

// Ensure Strategy implements the full contract
var _ authenticator.Strategy = (*Strategy)(nil)
var _ authenticator.Challenger = (*Strategy)(nil)

// Strategy authenticates by an opaque API token carried in a request header.
// The token itself is the directory lookup key, so verification is trivially
// true: a successful lookup already proves the identity.
type Strategy struct {
	authenticator.Base

	// Header is the header read from the request. Defaults to DefaultHeader.
	Header string

	// Validate optionally rejects a token at extraction time. A returned
	// error becomes a malformed-credentials failure whose message reaches
	// the caller verbatim.
	Validate func(token string) error
}

// New creates a token strategy reading the given header. An empty header
// selects DefaultHeader.
func New(header string) *Strategy {
	if header == "" {
		header = DefaultHeader
	}
	return &Strategy{Header: header}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return "token"
}

// Supports reports whether the token header is present.
func (s *Strategy) Supports(r *http.Request) bool {
	return r.Header.Get(s.Header) != ""
}

// Credentials extracts the token from the request header.
func (s *Strategy) Credentials(r *http.Request) (authenticator.Credentials, error) {
	tok := r.Header.Get(s.Header)
	if tok == "" {
		return authenticator.Credentials{}, authenticator.ErrMissingCredentials()
	}
	if s.Validate != nil {
		if err := s.Validate(tok); err != nil {
			return authenticator.Credentials{}, authenticator.ErrMalformedCredentials(err.Error())
		}
	}
	return authenticator.Credentials{Secret: tok}, nil
}

// Principal resolves the token against the directory.
func (s *Strategy) Principal(ctx context.Context, creds authenticator.Credentials, dir directory.Directory) (*directory.Principal, error) {
	return dir.Lookup(ctx, creds.Secret)
}

// Verify is trivially true for token authentication.
func (s *Strategy) Verify(creds authenticator.Credentials, principal *directory.Principal) bool {
	return authenticator.DefaultVerify(creds, principal)
}

// Start writes the challenge response when the strategy is the entry point.
func (s *Strategy) Start(w http.ResponseWriter, _ *http.Request) {
	authenticator.WriteChallenge(w)
}
