// internal/app/features/dashboard/view.go
package dashboard

import "github.com/dalemusser/opshub/internal/app/system/authz"

// PageID names a recognized dashboard page. The set is closed; anything else
// resolves to the signed-in role's overview.
type PageID string

const (
	PageOverview     PageID = "overview"
	PageProjects     PageID = "projects"
	PageTickets      PageID = "tickets"
	PageTimeEntries  PageID = "time-entries"
	PageDocuments    PageID = "documents"
	PageTeam         PageID = "team"
	PageCompanies    PageID = "companies"
	PageSettings     PageID = "settings"
	PageIntegrations PageID = "integrations"
	PageAPIPortal    PageID = "api-portal"
	PageAuditLog     PageID = "audit-log"
	PageAnalytics    PageID = "analytics"
)

// View describes what to render for a (role, page) pair. Exactly one of the
// two shapes is populated: an overview template name, or a redirect path to
// the page's own feature.
type View struct {
	// Template is the overview template to render; empty for page views.
	Template string

	// Path is the mount point of the page's feature; empty for overviews.
	Path string
}

// overviewTemplates maps each canonical role to its overview variant.
var overviewTemplates = map[authz.Role]string{
	authz.RoleAdmin:     "admin_dashboard",
	authz.RoleKAM:       "kam_dashboard",
	authz.RoleLeader:    "leader_dashboard",
	authz.RoleDeveloper: "developer_dashboard",
	authz.RoleCustomer:  "customer_dashboard",
}

// pagePaths maps every non-overview page to where its feature is mounted.
var pagePaths = map[PageID]string{
	PageProjects:     "/projects",
	PageTickets:      "/tickets",
	PageTimeEntries:  "/time",
	PageDocuments:    "/documents",
	PageTeam:         "/team",
	PageCompanies:    "/companies",
	PageSettings:     "/settings",
	PageIntegrations: "/integrations",
	PageAPIPortal:    "/api-portal",
	PageAuditLog:     "/audit-log",
	PageAnalytics:    "/analytics",
}

// SelectView resolves a (role, page) pair to a view. Total: the overview page
// (and any unrecognized page) yields the role's overview variant, every other
// recognized page yields its fixed feature path regardless of role. Field
// level capability checks happen inside the page features themselves.
func SelectView(role authz.Role, page PageID) View {
	if path, ok := pagePaths[page]; ok && page != PageOverview {
		return View{Path: path}
	}

	tmpl, ok := overviewTemplates[role]
	if !ok {
		// Unknown role resolves to the least-privileged overview.
		tmpl = overviewTemplates[authz.RoleCustomer]
	}
	return View{Template: tmpl}
}
