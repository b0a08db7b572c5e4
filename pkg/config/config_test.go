package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))
	t.Setenv("GATEHOUSE_CONFIG_PATH", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GATEHOUSE_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "X-AUTH-TOKEN", cfg.TokenHeader)
	assert.Equal(t, []string{"token"}, cfg.Strategies)
	assert.Equal(t, "token", cfg.EntryPoint)
	assert.Equal(t, "default", cfg.Source("port"))
}

func TestLoad_FromFile(t *testing.T) {
	writeConfigFile(t, `
port: 9000
token_header: X-API-KEY
strategies:
  - token
  - apikey
users:
  - login: brian
    api_key: REAL
    roles: [admin]
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "X-API-KEY", cfg.TokenHeader)
	assert.Equal(t, []string{"token", "apikey"}, cfg.Strategies)
	require.Len(t, cfg.Users, 1)
	assert.Equal(t, "brian", cfg.Users[0].Login)
	assert.Equal(t, "REAL", cfg.Users[0].APIKey)
	assert.Equal(t, "file", cfg.Source("port"))
	assert.Equal(t, "default", cfg.Source("bind_address"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	writeConfigFile(t, "port: 9000\n")
	t.Setenv("GATEHOUSE_PORT", "9500")
	t.Setenv("GATEHOUSE_STRATEGIES", "token, jwt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9500, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, []string{"token", "jwt"}, cfg.Strategies)
}

func TestLoad_MalformedFile(t *testing.T) {
	writeConfigFile(t, "port: [not an int\n")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownStrategy(t *testing.T) {
	cfg := newDefault()
	cfg.Strategies = []string{"token", "carrier-pigeon"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestValidate_BadEntryPoint(t *testing.T) {
	cfg := newDefault()
	cfg.EntryPoint = "carrier-pigeon"

	assert.Error(t, cfg.Validate())
}

func TestValidate_JWTRequiresSigningKey(t *testing.T) {
	cfg := newDefault()
	cfg.Strategies = []string{"jwt"}
	cfg.EntryPoint = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_signing_key")

	cfg.JWTSigningKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"not-a-cidr"}

	assert.Error(t, cfg.Validate())
}

func TestValidate_UserNeedsLogin(t *testing.T) {
	cfg := newDefault()
	cfg.Users = []StaticUser{{APIKey: "REAL"}}

	assert.Error(t, cfg.Validate())
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.7"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.0.2.7"))
	assert.False(t, cfg.IsTrustedProxy("203.0.113.9"))
	assert.False(t, cfg.IsTrustedProxy("not-an-ip"))
}

func TestIsTrustedProxy_NoneConfigured(t *testing.T) {
	cfg := newDefault()
	assert.False(t, cfg.IsTrustedProxy("10.1.2.3"))
}

func TestIsStrategyEnabled(t *testing.T) {
	cfg := newDefault()
	cfg.Strategies = []string{"token", "jwt"}

	assert.True(t, cfg.IsStrategyEnabled("token"))
	assert.True(t, cfg.IsStrategyEnabled("jwt"))
	assert.False(t, cfg.IsStrategyEnabled("apikey"))
}

func TestAttributes_MasksSigningKey(t *testing.T) {
	cfg := newDefault()
	cfg.JWTSigningKey = "super-secret"

	for _, attr := range cfg.Attributes() {
		if attr.Name == "jwt_signing_key" {
			assert.Equal(t, "********", attr.Value)
			return
		}
	}
	t.Fatal("jwt_signing_key attribute not found")
}

func TestFormatText(t *testing.T) {
	t.Setenv("GATEHOUSE_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	out := cfg.FormatText()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "bind_address")
	assert.Contains(t, out, "(not set)")
}

func TestFormatJSON(t *testing.T) {
	t.Setenv("GATEHOUSE_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"attributes"`)
	assert.Contains(t, out, `"bind_address"`)
}
