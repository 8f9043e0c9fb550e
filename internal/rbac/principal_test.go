package rbac

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_HasRequiredRole(t *testing.T) {
	super := NewPrincipal("root", "super_admin")
	admin := NewPrincipal("alice", "system_admin")
	engineer := NewPrincipal("daan", "Service_Engineer")

	assert.True(t, super.HasRequiredRole(ServiceEngineer))
	assert.True(t, super.HasRequiredRole(SuperAdmin))

	assert.True(t, admin.HasRequiredRole(ServiceEngineer))
	assert.True(t, admin.HasRequiredRole(SystemAdmin))
	assert.False(t, admin.HasRequiredRole(SuperAdmin))

	assert.True(t, engineer.HasRequiredRole(ServiceEngineer))
	assert.False(t, engineer.HasRequiredRole(SystemAdmin))
}

func TestPrincipal_ZeroValueDeniesEverything(t *testing.T) {
	var nobody Principal
	assert.False(t, nobody.Authenticated())
	for _, r := range []Role{ServiceEngineer, SystemAdmin, SuperAdmin} {
		assert.False(t, nobody.HasRequiredRole(r))
	}

	// a forged value with a role but no authentication is still denied
	forged := Principal{Username: "mallory", Role: SuperAdmin}
	assert.False(t, forged.HasRequiredRole(ServiceEngineer))
	assert.False(t, forged.CanManage(ServiceEngineer))
}

func TestPrincipal_UnknownRoleStaysUndefined(t *testing.T) {
	p := NewPrincipal("eve", "janitor")

	assert.True(t, p.Authenticated())
	assert.Equal(t, RoleUnknown, p.Role)
	for _, r := range []Role{ServiceEngineer, SystemAdmin, SuperAdmin} {
		assert.False(t, p.HasRequiredRole(r), "unknown role must not default to any privilege")
	}
}

func TestPrincipal_SessionIDs(t *testing.T) {
	a := NewPrincipal("alice", "system_admin")
	b := NewPrincipal("alice", "system_admin")
	assert.NotEmpty(t, a.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestPrincipal_CanManage(t *testing.T) {
	super := NewPrincipal("root", "super_admin")
	admin := NewPrincipal("alice", "system_admin")
	engineer := NewPrincipal("daan", "service_engineer")

	assert.True(t, super.CanManage(SystemAdmin))
	assert.True(t, super.CanManage(ServiceEngineer))
	assert.False(t, super.CanManage(SuperAdmin))

	assert.True(t, admin.CanManage(ServiceEngineer))
	assert.False(t, admin.CanManage(SystemAdmin))

	assert.False(t, engineer.CanManage(ServiceEngineer))
	assert.False(t, super.CanManage(RoleUnknown))
}

func TestSession_SetOnce(t *testing.T) {
	var s Session
	assert.False(t, s.HasRequiredRole(ServiceEngineer))

	alice := NewPrincipal("alice", "system_admin")
	require.NoError(t, s.Set(alice))
	assert.Equal(t, alice, s.Principal())
	assert.True(t, s.HasRequiredRole(ServiceEngineer))
	assert.False(t, s.HasRequiredRole(SuperAdmin))

	err := s.Set(NewPrincipal("root", "super_admin"))
	require.ErrorIs(t, err, common.ErrPrincipalAlreadySet)
	assert.Equal(t, "alice", s.Principal().Username)

	var fresh Session
	require.ErrorIs(t, fresh.Set(Principal{}), common.ErrInvalidInput)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, PrincipalFrom(ctx).HasRequiredRole(ServiceEngineer))

	p := NewPrincipal("alice", "system_admin")
	ctx = WithPrincipal(ctx, p)
	assert.Equal(t, p, PrincipalFrom(ctx))
}
