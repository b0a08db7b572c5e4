package identity

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

func TestFromPrincipal(t *testing.T) {
	p := &directory.Principal{Login: "alice", Roles: []string{"admin"}}

	id := FromPrincipal(p, "token")

	assert.Equal(t, "alice", id.Login())
	assert.Equal(t, "token", id.Strategy)
	assert.False(t, id.AuthenticatedAt.IsZero())
}

func TestIdentity_WithRemoteIP(t *testing.T) {
	id := FromPrincipal(&directory.Principal{Login: "alice"}, "token")

	id.WithRemoteIP(net.ParseIP("203.0.113.9"))

	assert.Equal(t, "203.0.113.9", id.RemoteIP.String())
}

func TestIdentity_Login_Nil(t *testing.T) {
	var id *Identity
	assert.Equal(t, "", id.Login())
	assert.Equal(t, "", (&Identity{}).Login())
}

func TestIdentity_HasRole(t *testing.T) {
	id := FromPrincipal(&directory.Principal{Login: "alice", Roles: []string{"admin"}}, "token")

	assert.True(t, id.HasRole("admin"))
	assert.False(t, id.HasRole("auditor"))

	var nilID *Identity
	assert.False(t, nilID.HasRole("admin"))
}

func TestContext_SetGet(t *testing.T) {
	id := FromPrincipal(&directory.Principal{Login: "alice"}, "token")

	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Login())
}

func TestContext_Get_Missing(t *testing.T) {
	_, ok := Get(context.Background())
	assert.False(t, ok)
}
