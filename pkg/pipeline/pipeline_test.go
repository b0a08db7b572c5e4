package pipeline

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-sec/gatehouse/pkg/audit"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/apikey"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/token"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
	"github.com/gatehouse-sec/gatehouse/pkg/directory/memory"
	"github.com/gatehouse-sec/gatehouse/pkg/identity"
)

// downstream records whether the protected handler ran and what identity it
// saw.
type downstream struct {
	called bool
	id     *identity.Identity
}

func (d *downstream) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.called = true
		d.id, _ = identity.Get(r.Context())
		fmt.Fprint(w, "ok")
	})
}

func newTokenPipeline(t *testing.T) (*Pipeline, *memory.Directory) {
	t.Helper()
	dir := memory.New()
	dir.Add(directory.Principal{Login: "brian", APIKey: "REAL", Roles: []string{"admin"}})

	registry := authenticator.NewRegistry()
	registry.Register(token.New(""))
	require.NoError(t, registry.Enable("token"))
	require.NoError(t, registry.SetEntryPoint("token"))

	p := New(registry, dir)
	p.AuditFunc = func(audit.Event) {}
	return p, dir
}

func TestMiddleware_ValidToken(t *testing.T) {
	p, _ := newTokenPipeline(t)
	next := &downstream{}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.Header.Set("X-AUTH-TOKEN", "REAL")
	rec := httptest.NewRecorder()

	p.Middleware(next.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, next.called)
	require.NotNil(t, next.id)
	assert.Equal(t, "brian", next.id.Login())
	assert.Equal(t, "token", next.id.Strategy)
	assert.True(t, next.id.HasRole("admin"))
}

func TestMiddleware_UnknownToken(t *testing.T) {
	p, _ := newTokenPipeline(t)
	next := &downstream{}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.Header.Set("X-AUTH-TOKEN", "FAKE")
	rec := httptest.NewRecorder()

	p.Middleware(next.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message": "Username could not be found."}`, rec.Body.String())
	assert.False(t, next.called)
}

func TestMiddleware_NoToken_Challenge(t *testing.T) {
	p, _ := newTokenPipeline(t)
	next := &downstream{}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	rec := httptest.NewRecorder()

	p.Middleware(next.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message": "Authentication Required"}`, rec.Body.String())
	assert.False(t, next.called)
}

func TestMiddleware_CustomFailureMessage(t *testing.T) {
	p, _ := newTokenPipeline(t)
	tok, _ := p.registry.Get("token")
	tok.(*token.Strategy).Validate = func(tkn string) error {
		if tkn == "ILuvAPIs" {
			return errors.New("ILuvAPIs is not a real API key: it's just a silly phrase")
		}
		return nil
	}
	next := &downstream{}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.Header.Set("X-AUTH-TOKEN", "ILuvAPIs")
	rec := httptest.NewRecorder()

	p.Middleware(next.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message": "ILuvAPIs is not a real API key: it's just a silly phrase"}`, rec.Body.String())
	assert.False(t, next.called)
}

func TestMiddleware_Deterministic(t *testing.T) {
	p, _ := newTokenPipeline(t)

	for i := 0; i < 3; i++ {
		next := &downstream{}
		r := httptest.NewRequest(http.MethodGet, "/api", nil)
		r.Header.Set("X-AUTH-TOKEN", "REAL")
		rec := httptest.NewRecorder()

		p.Middleware(next.handler()).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
	}
}

func TestMiddleware_FirstRegisteredWins(t *testing.T) {
	dir := memory.New()
	dir.Add(directory.Principal{Login: "brian", APIKey: "REAL"})

	// Both strategies claim a request carrying both headers; registration
	// order breaks the tie.
	registry := authenticator.NewRegistry()
	registry.Register(token.New(""))
	registry.Register(apikey.New(""))
	require.NoError(t, registry.Enable("token"))
	require.NoError(t, registry.Enable("apikey"))

	p := New(registry, dir)
	p.AuditFunc = func(audit.Event) {}
	next := &downstream{}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.Header.Set("X-AUTH-TOKEN", "REAL")
	r.SetBasicAuth("brian", "wrong-password")
	rec := httptest.NewRecorder()

	p.Middleware(next.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, next.id)
	assert.Equal(t, "token", next.id.Strategy)
}

func TestMiddleware_DisabledStrategyIgnored(t *testing.T) {
	dir := memory.New()
	dir.Add(directory.Principal{Login: "brian", APIKey: "REAL"})

	registry := authenticator.NewRegistry()
	registry.Register(token.New(""))

	p := New(registry, dir)
	p.AuditFunc = func(audit.Event) {}
	next := &downstream{}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.Header.Set("X-AUTH-TOKEN", "REAL")
	rec := httptest.NewRecorder()

	p.Middleware(next.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
}

func TestMiddleware_VerificationFailure(t *testing.T) {
	dir := memory.New()
	dir.Add(directory.Principal{Login: "brian", SecretHash: []byte("right-password")})

	registry := authenticator.NewRegistry()
	registry.Register(apikey.New(""))
	require.NoError(t, registry.Enable("apikey"))

	p := New(registry, dir)
	p.AuditFunc = func(audit.Event) {}
	next := &downstream{}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.SetBasicAuth("brian", "wrong-password")
	rec := httptest.NewRecorder()

	p.Middleware(next.handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message": "Invalid credentials"}`, rec.Body.String())
	assert.False(t, next.called)
}

func TestMiddleware_ChallengeFromEntryPoint(t *testing.T) {
	dir := memory.New()

	registry := authenticator.NewRegistry()
	registry.Register(apikey.New("Gatehouse"))
	require.NoError(t, registry.Enable("apikey"))
	require.NoError(t, registry.SetEntryPoint("apikey"))

	p := New(registry, dir)
	p.AuditFunc = func(audit.Event) {}

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	rec := httptest.NewRecorder()

	p.Middleware((&downstream{}).handler()).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Gatehouse"`, rec.Header().Get("WWW-Authenticate"))
}

func TestMiddleware_AuditEvents(t *testing.T) {
	p, _ := newTokenPipeline(t)
	var events []audit.Event
	p.AuditFunc = func(e audit.Event) { events = append(events, e) }

	ok := httptest.NewRequest(http.MethodGet, "/api", nil)
	ok.Header.Set("X-AUTH-TOKEN", "REAL")
	p.Middleware((&downstream{}).handler()).ServeHTTP(httptest.NewRecorder(), ok)

	bad := httptest.NewRequest(http.MethodGet, "/api", nil)
	bad.Header.Set("X-AUTH-TOKEN", "FAKE")
	p.Middleware((&downstream{}).handler()).ServeHTTP(httptest.NewRecorder(), bad)

	none := httptest.NewRequest(http.MethodGet, "/api", nil)
	p.Middleware((&downstream{}).handler()).ServeHTTP(httptest.NewRecorder(), none)

	require.Len(t, events, 3)

	success, ok1 := events[0].(audit.AuthnEvent)
	require.True(t, ok1)
	assert.True(t, success.Success)
	assert.Equal(t, "brian", success.Key)
	assert.Equal(t, "token", success.Strategy)

	failure, ok2 := events[1].(audit.AuthnEvent)
	require.True(t, ok2)
	assert.False(t, failure.Success)
	assert.Equal(t, "Username could not be found.", failure.ErrorMessage)

	challenge, ok3 := events[2].(audit.ChallengeEvent)
	require.True(t, ok3)
	assert.Equal(t, "/api", challenge.Path)
}

func TestClientIP_Direct(t *testing.T) {
	p, _ := newTokenPipeline(t)

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.RemoteAddr = "203.0.113.9:4321"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")

	// Untrusted peer: the forwarded header is ignored.
	assert.Equal(t, "203.0.113.9", p.clientIP(r))
}

func TestClientIP_TrustedProxy(t *testing.T) {
	p, _ := newTokenPipeline(t)
	p.TrustedProxy = func(ip string) bool { return ip == "10.0.0.1" }

	r := httptest.NewRequest(http.MethodGet, "/api", nil)
	r.RemoteAddr = "10.0.0.1:4321"
	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	assert.Equal(t, "198.51.100.1", p.clientIP(r))
}
