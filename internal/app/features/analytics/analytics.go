// internal/app/features/analytics/analytics.go
package analytics

import (
	"context"
	"math"
	"net/http"
	"sort"
	"time"

	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	timeentrystore "github.com/dalemusser/opshub/internal/app/store/timeentries"
	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// barRow is one bar in a horizontal breakdown chart.
type barRow struct {
	Name    string
	Hours   float64
	Percent int // share of the largest bar, for widths
}

type stateRow struct {
	State string
	Count int
}

type analyticsData struct {
	viewdata.BaseVM

	Window string

	TotalHours     float64
	ActiveProjects int
	TicketsCreated int
	Progress       int // share of created tickets now done
	SLAPercent     int

	HoursByProject []barRow
	HoursByUser    []barRow
	TicketsByState []stateRow
}

// ServeAnalytics handles GET /analytics (with optional ?window=).
// Authorization: RequireCapability(CapViewAnalytics) middleware in routes.go.
func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	windowName := query.Get(r, "window")
	if windowName == "" {
		windowName = datewindow.Month.String()
	}
	now := time.Now().UTC()
	start := windowStart(windowName, now)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	entries, err := h.Time.Find(ctx, timeentrystore.ListFilter{From: start}, 0, 0)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load time entries failed", err, "Unable to load analytics.", "/dashboard")
		return
	}

	tickets, err := h.Tickets.Find(ctx, ticketstore.ListFilter{CreatedFrom: &start}, 0, 0)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load tickets failed", err, "Unable to load analytics.", "/dashboard")
		return
	}

	data := analyticsData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Analytics", "/dashboard"),
		Window: windowName,

		TotalHours: aggregate.SumBy(entries, func(e models.TimeEntry) float64 { return e.Hours }),
		ActiveProjects: aggregate.DistinctCount(entries, func(e models.TimeEntry) primitive.ObjectID {
			return e.ProjectID
		}),
		TicketsCreated: len(tickets),
		Progress:       aggregate.TicketProgress(tickets),

		HoursByProject: h.hoursByProject(ctx, entries),
		HoursByUser:    h.hoursByUser(ctx, entries),
		TicketsByState: ticketsByState(tickets),
	}

	resolved, err := h.Tickets.ResolvedSince(ctx, start, nil)
	if err != nil {
		h.Log.Warn("resolved ticket stats unavailable", zap.Error(err))
	} else {
		data.SLAPercent = aggregate.TicketSLACompliance(resolved)
	}

	templates.Render(w, r, "analytics", data)
}

// windowStart maps a window name to its UTC lower bound. The "all" window
// gets a fixed epoch far enough back to cover any realistic record.
func windowStart(name string, now time.Time) time.Time {
	switch datewindow.ParseWindow(name) {
	case datewindow.Today:
		return datewindow.Day(now)
	case datewindow.Week:
		return datewindow.WeekStart(now)
	case datewindow.Month:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

func (h *Handler) hoursByProject(ctx context.Context, entries []models.TimeEntry) []barRow {
	grouped := aggregate.GroupBy(entries, func(e models.TimeEntry) primitive.ObjectID { return e.ProjectID })

	names := make(map[primitive.ObjectID]string, grouped.Len())
	if projects, err := h.Projects.GetByIDs(ctx, grouped.Keys); err == nil {
		for _, p := range projects {
			names[p.ID] = p.Name
		}
	}

	rows := make([]barRow, 0, grouped.Len())
	for _, id := range grouped.Keys {
		name := names[id]
		if name == "" {
			name = id.Hex()
		}
		rows = append(rows, barRow{
			Name:  name,
			Hours: aggregate.SumBy(grouped.Group(id), func(e models.TimeEntry) float64 { return e.Hours }),
		})
	}
	return scaleBars(rows)
}

func (h *Handler) hoursByUser(ctx context.Context, entries []models.TimeEntry) []barRow {
	grouped := aggregate.GroupBy(entries, func(e models.TimeEntry) primitive.ObjectID { return e.UserID })

	names := make(map[primitive.ObjectID]string, grouped.Len())
	if users, err := h.Users.GetByIDs(ctx, grouped.Keys); err == nil {
		for _, u := range users {
			names[u.ID] = u.FullName
		}
	}

	rows := make([]barRow, 0, grouped.Len())
	for _, id := range grouped.Keys {
		name := names[id]
		if name == "" {
			name = id.Hex()
		}
		rows = append(rows, barRow{
			Name:  name,
			Hours: aggregate.SumBy(grouped.Group(id), func(e models.TimeEntry) float64 { return e.Hours }),
		})
	}
	return scaleBars(rows)
}

// scaleBars sorts rows by hours descending and sets each bar's width as a
// share of the largest.
func scaleBars(rows []barRow) []barRow {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Hours > rows[j].Hours })
	if len(rows) == 0 || rows[0].Hours <= 0 {
		return rows
	}
	max := rows[0].Hours
	for i := range rows {
		rows[i].Percent = int(math.Round(rows[i].Hours / max * 100))
	}
	return rows
}

func ticketsByState(tickets []models.Ticket) []stateRow {
	rows := make([]stateRow, 0, len(models.TicketStates))
	for _, state := range models.TicketStates {
		n := aggregate.CountBy(tickets, func(t models.Ticket) bool { return t.State == state })
		rows = append(rows, stateRow{State: state, Count: n})
	}
	return rows
}
