// internal/app/features/dashboard/kam.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	companystore "github.com/dalemusser/opshub/internal/app/store/companies"
	metricsstore "github.com/dalemusser/opshub/internal/app/store/metrics"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// companyRow summarizes one client company for the account-manager overview.
type companyRow struct {
	ID             string
	Name           string
	ActiveProjects int
	TotalProjects  int
}

type kamData struct {
	dashboardWithCounts
	Companies []companyRow

	// SLAPercent covers tickets resolved in the last 30 days, site-wide.
	SLAPercent    int
	ResolvedCount int
}

func (h *Handler) ServeKAM(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, h.DB, nil)

	data := kamData{
		dashboardWithCounts: dashboardWithCounts{
			baseDashboardData: baseDashboardData{
				BaseVM: viewdata.NewBaseVM(r, h.DB, "Account Dashboard", "/"),
			},
			CompaniesCount:      counts.Companies,
			ProjectsCount:       counts.Projects,
			ActiveProjectsCount: counts.ActiveProjects,
			OpenTicketsCount:    counts.OpenTickets,
		},
	}

	// Per-company project rollup. Tolerant: a failed lookup leaves the row out.
	companies, err := h.companyRows(ctx)
	if err != nil {
		h.Log.Warn("kam dashboard: load companies", zap.Error(err))
	}
	data.Companies = companies

	since := time.Now().UTC().AddDate(0, 0, -30)
	if resolved, err := ticketstore.New(h.DB).ResolvedSince(ctx, since, nil); err == nil {
		data.ResolvedCount = len(resolved)
		data.SLAPercent = aggregate.TicketSLACompliance(resolved)
	} else {
		h.Log.Warn("kam dashboard: load resolved tickets", zap.Error(err))
	}

	h.Log.Debug("kam dashboard served", zap.String("user", data.UserName))

	templates.Render(w, r, "kam_dashboard", data)
}

func (h *Handler) companyRows(ctx context.Context) ([]companyRow, error) {
	cos, err := companystore.New(h.DB).Find(ctx, bson.M{"status": bson.M{"$ne": "inactive"}})
	if err != nil {
		return nil, err
	}

	projects := projectstore.New(h.DB)
	rows := make([]companyRow, 0, len(cos))
	for _, co := range cos {
		byState, err := projects.CountByState(ctx, &co.ID)
		if err != nil {
			h.Log.Warn("kam dashboard: count projects",
				zap.String("company", co.Name), zap.Error(err))
			continue
		}
		total := 0
		for _, n := range byState {
			total += int(n)
		}
		rows = append(rows, companyRow{
			ID:             co.ID.Hex(),
			Name:           co.Name,
			ActiveProjects: int(byState[models.ProjectInProgress]),
			TotalProjects:  total,
		})
	}
	return rows, nil
}
