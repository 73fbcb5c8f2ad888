// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/opshub/internal/app/store/audit"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID         string
	Timestamp  time.Time
	Category   string
	EventType  string
	ActorName  string // resolved from ActorID
	TargetName string // resolved from UserID
	IP         string
	Success    bool
	Details    map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	Shown      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

// allCategories returns the available categories for filtering.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
		{Value: audit.CategorySecurity, Label: "Security"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLoginGoogleSuccess,
		audit.EventLoginGoogleRejected,
		audit.EventLogout,
		audit.EventPasswordChanged,
	}

	adminEvents := []string{
		audit.EventUserCreated,
		audit.EventUserUpdated,
		audit.EventUserDisabled,
		audit.EventUserEnabled,
		audit.EventUserDeleted,
		audit.EventCompanyCreated,
		audit.EventCompanyUpdated,
		audit.EventCompanyDeleted,
		audit.EventProjectCreated,
		audit.EventProjectUpdated,
		audit.EventProjectStateChanged,
		audit.EventProjectDeleted,
		audit.EventTicketCreated,
		audit.EventTicketUpdated,
		audit.EventTicketStateChanged,
		audit.EventTicketDeleted,
		audit.EventTimeEntryCreated,
		audit.EventTimeEntryUpdated,
		audit.EventTimeEntryDeleted,
		audit.EventDocumentUploaded,
		audit.EventDocumentUpdated,
		audit.EventDocumentDeleted,
		audit.EventIntegrationCreated,
		audit.EventIntegrationUpdated,
		audit.EventIntegrationStatusChanged,
		audit.EventIntegrationDeleted,
		audit.EventSettingsUpdated,
	}

	securityEvents := []string{
		audit.EventAPIKeyCreated,
		audit.EventAPIKeyRevoked,
		audit.EventAPIKeyDenied,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case audit.CategorySecurity:
		return securityEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(securityEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		all = append(all, securityEvents...)
		return all
	default:
		return nil
	}
}
