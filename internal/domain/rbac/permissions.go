package rbac

// Role enum
type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleMunicipalOfficer Role = "municipal_officer"
	RoleArchitect        Role = "architect"
	RoleDeveloper        Role = "developer"
	RoleAuditor          Role = "auditor"
)

// Permission enum (closed set)
type Permission string

const (
	PermProjectsCreate  Permission = "projects.create"
	PermProjectsRead    Permission = "projects.read"
	PermProjectsUpdate  Permission = "projects.update"
	PermProjectsDelete  Permission = "projects.delete"
	PermProjectsApprove Permission = "projects.approve"
	PermProjectsSubmit  Permission = "projects.submit"

	PermRulesRead   Permission = "rules.read"
	PermRulesManage Permission = "rules.manage"

	PermReportsGenerate Permission = "reports.generate"
	PermReportsDownload Permission = "reports.download"

	PermAuditRead Permission = "audit.read"

	PermSystemConfigure Permission = "system.configure"
	PermSystemMonitor   Permission = "system.monitor"
)

// rolePermissions is the whole capability model: plain data, checked by
// pure functions, not methods on a persisted role document.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermProjectsCreate, PermProjectsRead, PermProjectsUpdate, PermProjectsDelete,
		PermProjectsApprove, PermProjectsSubmit,
		PermRulesRead, PermRulesManage,
		PermReportsGenerate, PermReportsDownload,
		PermAuditRead,
		PermSystemConfigure, PermSystemMonitor,
	},
	RoleMunicipalOfficer: {
		PermProjectsRead, PermProjectsApprove,
		PermRulesRead, PermRulesManage,
		PermReportsGenerate, PermReportsDownload,
		PermAuditRead,
	},
	RoleArchitect: {
		PermProjectsCreate, PermProjectsRead, PermProjectsUpdate, PermProjectsDelete,
		PermProjectsSubmit,
		PermRulesRead,
		PermReportsGenerate, PermReportsDownload,
	},
	RoleDeveloper: {
		PermProjectsCreate, PermProjectsRead, PermProjectsUpdate,
		PermProjectsSubmit,
		PermRulesRead,
		PermReportsGenerate,
	},
	RoleAuditor: {
		PermProjectsRead,
		PermRulesRead,
		PermAuditRead,
	},
}

// ValidRole reports whether the role is part of the closed set.
func ValidRole(r Role) bool {
	_, ok := rolePermissions[r]
	return ok
}

// HasPermission reports whether the role carries the permission.
func HasPermission(r Role, p Permission) bool {
	for _, have := range rolePermissions[r] {
		if have == p {
			return true
		}
	}
	return false
}

// HasAny reports whether the role carries at least one of the permissions.
func HasAny(r Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(r, p) {
			return true
		}
	}
	return false
}

// HasAll reports whether the role carries every permission given.
func HasAll(r Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(r, p) {
			return false
		}
	}
	return true
}

// PermissionsOf returns a copy of the role's permission set.
func PermissionsOf(r Role) []Permission {
	src := rolePermissions[r]
	out := make([]Permission, len(src))
	copy(out, src)
	return out
}
