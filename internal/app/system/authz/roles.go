// internal/app/system/authz/roles.go
package authz

import "strings"

// Role is the canonical, normalized role every raw role string resolves to.
// Raw strings from the database or session are never compared directly;
// they go through ResolveRole first.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleKAM       Role = "kam" // key account manager
	RoleLeader    Role = "leader" // project leader
	RoleDeveloper Role = "developer"
	RoleCustomer  Role = "customer"
)

// AllRoles lists the canonical roles in precedence order, most privileged first.
var AllRoles = []Role{RoleAdmin, RoleKAM, RoleLeader, RoleDeveloper, RoleCustomer}

// roleAliases maps accepted spellings to canonical roles. Historical data
// carries a few variants ("key_account_manager", "project_leader") that
// must keep resolving.
var roleAliases = map[string]Role{
	"admin":               RoleAdmin,
	"administrator":       RoleAdmin,
	"kam":                 RoleKAM,
	"key_account_manager": RoleKAM,
	"key-account-manager": RoleKAM,
	"leader":              RoleLeader,
	"project_leader":      RoleLeader,
	"project-leader":      RoleLeader,
	"developer":           RoleDeveloper,
	"dev":                 RoleDeveloper,
	"customer":            RoleCustomer,
	"client":              RoleCustomer,
}

// ResolveRole normalizes a raw role string to a canonical Role.
//
// Resolution is total and fails closed: an empty, missing, or unrecognized
// value resolves to RoleCustomer (the least privileged role), never to an
// elevated one. Callers can rely on the result always being one of AllRoles.
func ResolveRole(raw string) Role {
	key := strings.ToLower(strings.TrimSpace(raw))
	if role, ok := roleAliases[key]; ok {
		return role
	}
	return RoleCustomer
}

// IsStaff reports whether the role belongs to company staff rather than a
// customer contact.
func (r Role) IsStaff() bool {
	return r != RoleCustomer
}

// Label returns a human-readable name for the role, for display in views.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleKAM:
		return "Key Account Manager"
	case RoleLeader:
		return "Project Leader"
	case RoleDeveloper:
		return "Developer"
	default:
		return "Customer"
	}
}
