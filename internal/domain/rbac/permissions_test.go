package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleMunicipalOfficer, PermProjectsApprove))
	assert.True(t, HasPermission(RoleMunicipalOfficer, PermRulesManage))
	assert.False(t, HasPermission(RoleMunicipalOfficer, PermProjectsCreate))

	assert.True(t, HasPermission(RoleArchitect, PermProjectsSubmit))
	assert.False(t, HasPermission(RoleArchitect, PermProjectsApprove))
	assert.False(t, HasPermission(RoleArchitect, PermRulesManage))

	assert.False(t, HasPermission(RoleDeveloper, PermProjectsDelete))
	assert.True(t, HasPermission(RoleAuditor, PermAuditRead))
	assert.False(t, HasPermission(RoleAuditor, PermProjectsSubmit))

	// unknown role has no capabilities
	assert.False(t, HasPermission(Role("ghost"), PermProjectsRead))
}

func TestSuperAdminHasEverything(t *testing.T) {
	for _, p := range []Permission{
		PermProjectsCreate, PermProjectsRead, PermProjectsUpdate, PermProjectsDelete,
		PermProjectsApprove, PermProjectsSubmit,
		PermRulesRead, PermRulesManage,
		PermReportsGenerate, PermReportsDownload,
		PermAuditRead,
		PermSystemConfigure, PermSystemMonitor,
	} {
		assert.True(t, HasPermission(RoleSuperAdmin, p), "super_admin should have %s", p)
	}
}

func TestHasAnyAndHasAll(t *testing.T) {
	assert.True(t, HasAny(RoleAuditor, PermProjectsApprove, PermAuditRead))
	assert.False(t, HasAny(RoleAuditor, PermProjectsApprove, PermRulesManage))

	assert.True(t, HasAll(RoleMunicipalOfficer, PermProjectsRead, PermProjectsApprove))
	assert.False(t, HasAll(RoleMunicipalOfficer, PermProjectsRead, PermProjectsCreate))
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleMunicipalOfficer, RoleArchitect, RoleDeveloper, RoleAuditor} {
		assert.True(t, ValidRole(r))
	}
	assert.False(t, ValidRole(Role("admin")))
	assert.False(t, ValidRole(Role("")))
}

func TestPermissionsOfReturnsCopy(t *testing.T) {
	perms := PermissionsOf(RoleAuditor)
	assert.Len(t, perms, 3)

	perms[0] = Permission("tampered")
	assert.True(t, HasPermission(RoleAuditor, PermProjectsRead))
}
