package jwtauth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

const bearerPrefix = "Bearer "

// Config holds JWT strategy configuration.
type Config struct {
	// SigningKey is the HMAC key tokens must be signed with.
	SigningKey []byte

	// Issuer is the expected issuer claim value (optional).
	Issuer string

	// Audience is the expected audience claim (optional).
	Audience string
}

// Ensure Strategy implements the full contract
var _ authenticator.Strategy = (*Strategy)(nil)

// Strategy authenticates Bearer JWTs. The token's subject claim is the
// directory lookup key; signature validation happens during extraction, so
// Verify is trivially true.
type Strategy struct {
	authenticator.Base

	config Config
}

// New creates a JWT strategy with the given configuration.
func New(config Config) *Strategy {
	return &Strategy{config: config}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return "jwt"
}

// Supports reports whether a Bearer Authorization header is present.
func (s *Strategy) Supports(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Authorization"), bearerPrefix)
}

// Credentials extracts the raw token, validates its signature and standard
// claims, and carries the subject as the login. Validation failures surface
// as malformed-credentials errors with specific messages.
func (s *Strategy) Credentials(r *http.Request) (authenticator.Credentials, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return authenticator.Credentials{}, authenticator.ErrMissingCredentials()
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return authenticator.Credentials{}, authenticator.ErrMissingCredentials()
	}

	subject, err := s.parseSubject(raw)
	if err != nil {
		return authenticator.Credentials{}, err
	}
	return authenticator.Credentials{Login: subject, Secret: raw}, nil
}

// Principal resolves the token subject against the directory.
func (s *Strategy) Principal(ctx context.Context, creds authenticator.Credentials, dir directory.Directory) (*directory.Principal, error) {
	return dir.Lookup(ctx, creds.Login)
}

// Verify is trivially true: signature validation already happened during
// extraction.
func (s *Strategy) Verify(creds authenticator.Credentials, principal *directory.Principal) bool {
	return authenticator.DefaultVerify(creds, principal)
}

func (s *Strategy) parseSubject(raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	if s.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.config.Audience))
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.config.SigningKey, nil
	}, opts...)
	if err != nil {
		return "", authenticator.ErrMalformedCredentials(tokenErrorMessage(err))
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", authenticator.ErrMalformedCredentials("Token is missing a subject claim")
	}
	return subject, nil
}

// tokenErrorMessage maps jwt validation errors to user-facing messages.
func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token is not valid yet"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "Token signature is invalid"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "Token issuer is not accepted"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "Token audience is not accepted"
	default:
		return "Malformed authorization token"
	}
}
