// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	auditstore "github.com/dalemusser/opshub/internal/app/store/audit"
	metricsstore "github.com/dalemusser/opshub/internal/app/store/metrics"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// auditRow is one line of the recent-activity tail on the admin overview.
type auditRow struct {
	Timestamp time.Time
	Category  string
	EventType string
	Success   bool
}

type adminData struct {
	dashboardWithCounts
	RecentEvents []auditRow
}

func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, h.DB, nil)

	data := adminData{
		dashboardWithCounts: dashboardWithCounts{
			baseDashboardData: baseDashboardData{
				BaseVM: viewdata.NewBaseVM(r, h.DB, "Admin Dashboard", "/"),
			},
			CompaniesCount:      counts.Companies,
			ProjectsCount:       counts.Projects,
			ActiveProjectsCount: counts.ActiveProjects,
			OpenTicketsCount:    counts.OpenTickets,
			StaffCount:          counts.Staff,
			CustomersCount:      counts.Customers,
			UnreadMessages:      counts.UnreadMessages,
		},
	}

	// Recent audit tail is informational; skip it on error.
	if events, err := auditstore.New(h.DB).GetRecent(ctx, 10); err == nil {
		for _, ev := range events {
			data.RecentEvents = append(data.RecentEvents, auditRow{
				Timestamp: ev.Timestamp,
				Category:  ev.Category,
				EventType: ev.EventType,
				Success:   ev.Success,
			})
		}
	} else {
		h.Log.Warn("admin dashboard: load recent audit events", zap.Error(err))
	}

	h.Log.Debug("admin dashboard served", zap.String("user", data.UserName))

	templates.Render(w, r, "admin_dashboard", data)
}
