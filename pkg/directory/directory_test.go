package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.Len(t, key, 48)

	other, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestPrincipal_HasRole(t *testing.T) {
	p := &Principal{Login: "alice", Roles: []string{"admin", "operator"}}

	assert.True(t, p.HasRole("admin"))
	assert.True(t, p.HasRole("operator"))
	assert.False(t, p.HasRole("auditor"))
}

func TestPrincipal_HasRole_NoRoles(t *testing.T) {
	p := &Principal{Login: "alice"}

	assert.False(t, p.HasRole("admin"))
}
