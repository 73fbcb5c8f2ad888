// internal/app/features/dashboard/developer.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	timeentrystore "github.com/dalemusser/opshub/internal/app/store/timeentries"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ticketRow is one assigned ticket on the developer overview.
type ticketRow struct {
	ID       string
	Title    string
	State    string
	Priority string
	Overdue  bool
}

type developerData struct {
	baseDashboardData
	HoursToday     float64
	HoursWeek      float64
	ActiveProjects int

	GoalHours     float64
	GoalPercent   int
	Overtime      bool
	OvertimeHours float64

	AssignedTickets []ticketRow
}

func (h *Handler) ServeDeveloper(w http.ResponseWriter, r *http.Request) {
	_, _, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := developerData{
		baseDashboardData: baseDashboardData{
			BaseVM: viewdata.NewBaseVM(r, h.DB, "My Dashboard", "/"),
		},
	}

	now := time.Now().UTC()
	weekStart := datewindow.WeekStart(now)

	if entries, err := timeentrystore.New(h.DB).ForUserSince(ctx, userID, weekStart); err == nil {
		data.HoursToday, data.HoursWeek, data.ActiveProjects = weekStats(entries, now)
	} else {
		h.Log.Warn("developer dashboard: load time entries", zap.Error(err))
	}

	data.GoalHours = h.weeklyGoal(ctx, userID)
	goal := aggregate.WeeklyGoal(data.HoursWeek, data.GoalHours)
	data.GoalPercent = goal.Percent
	data.Overtime = goal.Overtime
	data.OvertimeHours = goal.OvertimeHours

	if tickets, err := ticketstore.New(h.DB).Find(ctx,
		ticketstore.ListFilter{AssigneeID: &userID}, 0, 0); err == nil {
		for _, t := range tickets {
			if t.IsDone() {
				continue
			}
			data.AssignedTickets = append(data.AssignedTickets, ticketRow{
				ID:       t.ID.Hex(),
				Title:    t.Title,
				State:    t.State,
				Priority: t.Priority,
				Overdue:  t.SLADue != nil && t.SLADue.Before(now),
			})
		}
	} else {
		h.Log.Warn("developer dashboard: load assigned tickets", zap.Error(err))
	}

	h.Log.Debug("developer dashboard served", zap.String("user", data.UserName))

	templates.Render(w, r, "developer_dashboard", data)
}

// weekStats reduces a developer's current-week entries to the overview
// numbers: hours today, hours this week, distinct projects touched this week.
func weekStats(entries []models.TimeEntry, now time.Time) (hoursToday, hoursWeek float64, activeProjects int) {
	hoursToday = aggregate.HoursRollup(entries, datewindow.Today.Predicate(now))
	hoursWeek = aggregate.HoursRollup(entries, datewindow.Week.Predicate(now))
	activeProjects = aggregate.ActiveProjectCount(entries, datewindow.Week.Predicate(now))
	return hoursToday, hoursWeek, activeProjects
}

// weeklyGoal resolves the developer's weekly hours target: their own setting
// when present, otherwise the site-wide one.
func (h *Handler) weeklyGoal(ctx context.Context, userID primitive.ObjectID) float64 {
	if u, err := userstore.New(h.DB).GetByID(ctx, userID); err == nil && u.WeeklyHoursGoal > 0 {
		return u.WeeklyHoursGoal
	}
	settings := viewdata.GetSettings(ctx, h.DB)
	if settings.WeeklyHoursGoal > 0 {
		return settings.WeeklyHoursGoal
	}
	return models.DefaultWeeklyHoursGoal
}
