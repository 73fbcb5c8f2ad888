// internal/app/features/dashboard/common.go
package dashboard

import (
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
)

// baseDashboardData contains fields common to all dashboard views.
type baseDashboardData struct {
	viewdata.BaseVM
}

// dashboardWithCounts extends baseDashboardData with entity counts for the
// staff dashboards.
type dashboardWithCounts struct {
	baseDashboardData
	CompaniesCount      int64
	ProjectsCount       int64
	ActiveProjectsCount int64
	OpenTicketsCount    int64
	StaffCount          int64
	CustomersCount      int64
	UnreadMessages      int64
}
