package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsForRole(t *testing.T) {
	assert.Equal(t, AllPermissions, RolePermissions[RoleAdmin])
	assert.Contains(t, PermissionsForRole(RoleManager), PermLeaveApprove)
	assert.NotContains(t, PermissionsForRole(RoleAgent), PermLeaveApprove)
	assert.Nil(t, PermissionsForRole("visitor"))
}

func TestPermissionsForRoleReturnsCopy(t *testing.T) {
	perms := PermissionsForRole(RoleAgent)
	perms[0] = "tampered"
	assert.NotEqual(t, "tampered", RolePermissions[RoleAgent][0])
}

func TestUserContextHasPermission(t *testing.T) {
	user := UserContext{Permissions: []string{PermLeaveRead, PermLeaveWrite}}
	assert.True(t, user.HasPermission(PermLeaveRead))
	assert.False(t, user.HasPermission(PermLeaveApprove))
}
