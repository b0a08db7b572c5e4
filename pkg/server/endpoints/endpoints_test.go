package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-sec/gatehouse/pkg/audit"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/token"
	"github.com/gatehouse-sec/gatehouse/pkg/config"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
	"github.com/gatehouse-sec/gatehouse/pkg/directory/memory"
	"github.com/gatehouse-sec/gatehouse/pkg/pipeline"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
)

// brokenDirectory reports a failed connectivity check.
type brokenDirectory struct {
	*memory.Directory
}

func (brokenDirectory) CheckConnectivity() error {
	return errors.New("connection refused")
}

func newTestServer(t *testing.T, dir directory.Directory) *server.Server {
	t.Helper()
	t.Setenv("GATEHOUSE_CONFIG_PATH", t.TempDir())

	registry := authenticator.NewRegistry()
	registry.Register(token.New(""))
	require.NoError(t, registry.Enable("token"))
	require.NoError(t, registry.SetEntryPoint("token"))

	cfg, err := config.Load()
	require.NoError(t, err)

	s := server.NewServer(dir, registry, cfg, nil)
	p := pipeline.New(registry, dir)
	p.AuditFunc = func(audit.Event) {}
	RegisterAll(s, p)
	return s
}

func serve(s *server.Server, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, r)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t, memory.New())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Version)
}

func TestStatusEndpoint_Root(t *testing.T) {
	s := newTestServer(t, memory.New())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusEndpoint_Degraded(t *testing.T) {
	s := newTestServer(t, brokenDirectory{memory.New()})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Status)
}

func TestStatusEndpoint_VersionOverride(t *testing.T) {
	t.Setenv("GATEHOUSE_VERSION_DISPLAY", "9.9.9-test")
	s := newTestServer(t, memory.New())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "9.9.9-test", resp.Version)
}

func TestAuthenticatorsEndpoint(t *testing.T) {
	s := newTestServer(t, memory.New())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/authenticators", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp AuthenticatorsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"token"}, resp.Installed)
	assert.Equal(t, []string{"token"}, resp.Enabled)
	assert.Equal(t, "token", resp.EntryPoint)
}

func TestWhoamiEndpoint(t *testing.T) {
	dir := memory.New()
	dir.Add(directory.Principal{Login: "brian", APIKey: "REAL", Roles: []string{"admin"}})
	s := newTestServer(t, dir)

	r := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.Header.Set("X-AUTH-TOKEN", "REAL")
	rec := serve(s, r)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp WhoamiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "brian", resp.Login)
	assert.Equal(t, []string{"admin"}, resp.Roles)
	assert.Equal(t, "token", resp.Strategy)
}

func TestWhoamiEndpoint_Unauthenticated(t *testing.T) {
	s := newTestServer(t, memory.New())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message": "Authentication Required"}`, rec.Body.String())
}

func TestPingEndpoint(t *testing.T) {
	dir := memory.New()
	dir.Add(directory.Principal{Login: "brian", APIKey: "REAL"})
	s := newTestServer(t, dir)

	r := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	r.Header.Set("X-AUTH-TOKEN", "REAL")
	rec := serve(s, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Hello brian"}`, rec.Body.String())
}

func TestPingEndpoint_UnknownToken(t *testing.T) {
	s := newTestServer(t, memory.New())

	r := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	r.Header.Set("X-AUTH-TOKEN", "FAKE")
	rec := serve(s, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message": "Username could not be found."}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, memory.New())

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
