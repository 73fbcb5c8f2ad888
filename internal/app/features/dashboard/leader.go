// internal/app/features/dashboard/leader.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	timeentrystore "github.com/dalemusser/opshub/internal/app/store/timeentries"
	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// projectRow summarizes one led project for the leader overview.
type projectRow struct {
	ID              string
	Name            string
	State           string
	ProgressPercent int
	OpenTickets     int
	WeekHours       float64
}

type leaderData struct {
	baseDashboardData
	Projects       []projectRow
	TotalWeekHours float64
}

func (h *Handler) ServeLeader(w http.ResponseWriter, r *http.Request) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := leaderData{
		baseDashboardData: baseDashboardData{
			BaseVM: viewdata.NewBaseVM(r, h.DB, "Project Dashboard", "/"),
		},
	}

	projects, err := projectstore.New(h.DB).Find(ctx,
		projectstore.ListFilter{LeaderID: &userID}, 0, 0)
	if err != nil {
		h.Log.Warn("leader dashboard: load projects", zap.Error(err))
	}

	tickets := ticketstore.New(h.DB)
	entries := timeentrystore.New(h.DB)
	weekStart := datewindow.WeekStart(time.Now().UTC())

	for _, p := range projects {
		row := projectRow{
			ID:    p.ID.Hex(),
			Name:  p.Name,
			State: p.State,
		}

		if ts, err := tickets.Find(ctx, ticketstore.ListFilter{ProjectID: &p.ID}, 0, 0); err == nil {
			row.ProgressPercent = aggregate.TicketProgress(ts)
			row.OpenTickets = aggregate.CountBy(ts, func(t models.Ticket) bool { return !t.IsDone() })
		} else {
			h.Log.Warn("leader dashboard: load tickets",
				zap.String("project", p.Name), zap.Error(err))
		}

		if es, err := entries.Find(ctx, timeentrystore.ListFilter{
			ProjectID: &p.ID,
			From:      weekStart,
		}, 0, 0); err == nil {
			row.WeekHours = aggregate.SumBy(es, func(e models.TimeEntry) float64 { return e.Hours })
		} else {
			h.Log.Warn("leader dashboard: load time entries",
				zap.String("project", p.Name), zap.Error(err))
		}

		data.TotalWeekHours += row.WeekHours
		data.Projects = append(data.Projects, row)
	}

	h.Log.Debug("leader dashboard served", zap.String("user", data.UserName))

	templates.Render(w, r, "leader_dashboard", data)
}
