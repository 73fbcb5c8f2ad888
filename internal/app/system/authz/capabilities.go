// internal/app/system/authz/capabilities.go
package authz

// Capability names a single permitted action. Handlers check capabilities via
// HasCapability rather than comparing roles, so adding a role or moving a
// permission is a one-line table change instead of a handler audit.
type Capability string

const (
	CapCreateProject      Capability = "create-project"
	CapManageProjects     Capability = "manage-projects"
	CapManageTickets      Capability = "manage-tickets"
	CapLogTime            Capability = "log-time"
	CapManageTeam         Capability = "manage-team"
	CapManageCompanies    Capability = "manage-companies"
	CapManageAPIKeys      Capability = "manage-api-keys"
	CapViewAuditLog       Capability = "view-audit-log"
	CapManageIntegrations Capability = "manage-integrations"
	CapManageSettings     Capability = "manage-settings"
	CapViewAnalytics      Capability = "view-analytics"
	CapViewAllCompanies   Capability = "view-all-companies"
)

// capabilityTable is the single source of truth for role permissions.
// Customers intentionally have no entry: an empty set is the fail-closed
// default for them and for any unrecognized role.
var capabilityTable = map[Role]map[Capability]struct{}{
	RoleAdmin: caps(
		CapCreateProject, CapManageProjects, CapManageTickets, CapLogTime,
		CapManageTeam, CapManageCompanies, CapManageAPIKeys, CapViewAuditLog,
		CapManageIntegrations, CapManageSettings, CapViewAnalytics,
		CapViewAllCompanies,
	),
	RoleKAM: caps(
		CapCreateProject, CapManageProjects, CapManageTickets,
		CapManageCompanies, CapViewAuditLog, CapViewAnalytics,
		CapViewAllCompanies,
	),
	RoleLeader: caps(
		CapCreateProject, CapManageProjects, CapManageTickets, CapLogTime,
		CapViewAnalytics,
	),
	RoleDeveloper: caps(
		CapManageTickets, CapLogTime,
	),
}

func caps(cs ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(cs))
	for _, c := range cs {
		set[c] = struct{}{}
	}
	return set
}

// HasCapability reports whether the role is allowed the given capability.
// Unknown roles and unknown capabilities both report false.
func HasCapability(role Role, cap Capability) bool {
	set, ok := capabilityTable[role]
	if !ok {
		return false
	}
	_, ok = set[cap]
	return ok
}

// Capabilities returns the full capability set for a role. The returned map
// is shared; callers must not mutate it.
func Capabilities(role Role) map[Capability]struct{} {
	return capabilityTable[role]
}
