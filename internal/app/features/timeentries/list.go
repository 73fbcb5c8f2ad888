// internal/app/features/timeentries/list.go
package timeentries

import (
	"context"
	"net/http"
	"time"

	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	timeentrystore "github.com/dalemusser/opshub/internal/app/store/timeentries"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/opshub/internal/app/system/filterset"
	"github.com/dalemusser/opshub/internal/app/system/gates"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listPageSize bounds the entries table; time entries are small and the page
// is anchored to a window, so there is no pager.
const listPageSize = 200

// ServeList handles GET /time (with optional ?window=, ?project=, ?user=).
// Staff see their own entries by default; anyone with manage-projects may
// view another user's. Customer contacts have no time page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireStaff(w, r, "Time tracking is only available to staff.", "/dashboard")
	if !gate.OK {
		return
	}
	actorID := gate.UserID

	window := query.Get(r, "window")
	if window == "" {
		window = "week"
	}
	q := query.Search(r, "q")
	projectHex := query.Get(r, "project")
	userHex := query.Get(r, "user")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	viewedID := actorID
	if userHex != "" && authz.Can(r, authz.CapManageProjects) {
		if oid, err := primitive.ObjectIDFromHex(userHex); err == nil {
			viewedID = oid
		}
	}

	filter := timeentrystore.ListFilter{UserID: &viewedID}
	if projectHex != "" && projectHex != "all" {
		if oid, err := primitive.ObjectIDFromHex(projectHex); err == nil {
			filter.ProjectID = &oid
		}
	}

	now := time.Now().UTC()
	switch datewindow.ParseWindow(window) {
	case datewindow.Today:
		filter.From = datewindow.Day(now)
	case datewindow.Week:
		filter.From = datewindow.WeekStart(now)
	case datewindow.Month:
		filter.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	rows, err := h.Entries.Find(ctx, filter, 0, listPageSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find time entries failed", err, "Unable to load time entries.", "")
		return
	}

	projectNames := h.projectNames(ctx, rows)

	// Descriptions have no folded index, so free-text search narrows the
	// already-loaded window in memory.
	rows = narrowEntries(rows, q, projectNames, now)

	items := make([]listItem, 0, len(rows))
	for _, e := range rows {
		items = append(items, listItem{
			ID:          e.ID,
			Date:        e.Date.Format("2006-01-02"),
			ProjectName: projectNames[e.ProjectID],
			Hours:       e.Hours,
			Description: e.Description,
			Mine:        e.UserID == actorID,
		})
	}

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, "Time Tracking", "/dashboard"),
		Window:     window,
		Query:      q,
		Project:    projectHex,
		User:       userHex,
		Items:      items,
		Projects:   h.projectOptions(ctx),
		TotalHours: aggregate.SumBy(rows, func(e models.TimeEntry) float64 { return e.Hours }),
		CanLogTime: authz.Can(r, authz.CapLogTime),
	}

	h.fillRollups(ctx, &data, viewedID, now)

	if authz.Can(r, authz.CapManageProjects) {
		data.Users = h.staffOptions(ctx)
		if viewedID != actorID {
			if u, err := h.Users.GetByID(ctx, viewedID); err == nil {
				for i := range items {
					items[i].UserName = u.FullName
				}
			}
		}
	}

	if r.Header.Get("HX-Target") == "time-table-wrap" {
		templates.RenderSnippet(w, "time_table", data)
		return
	}
	templates.Render(w, r, "time_list", data)
}

// narrowEntries applies the free-text search over descriptions and project
// names, then re-asserts newest-first order on the survivors.
func narrowEntries(rows []models.TimeEntry, q string, projectNames map[primitive.ObjectID]string, ref time.Time) []models.TimeEntry {
	rows = filterset.Apply(rows, filterset.Filters{Search: q}, filterset.Fields[models.TimeEntry]{
		SearchText: func(e models.TimeEntry) []string {
			return []string{e.Description, projectNames[e.ProjectID]}
		},
		Date: func(e models.TimeEntry) (time.Time, bool) { return e.Date, true },
	}, ref)
	filterset.SortByDateDesc(rows, func(e models.TimeEntry) time.Time { return e.Date })
	return rows
}

// fillRollups computes the viewed user's today/week hours and weekly goal
// progress. Errors degrade to zeros so the table still renders.
func (h *Handler) fillRollups(ctx context.Context, data *listData, userID primitive.ObjectID, now time.Time) {
	weekStart := datewindow.WeekStart(now)
	entries, err := h.Entries.ForUserSince(ctx, userID, weekStart)
	if err != nil {
		return
	}

	data.HoursToday = aggregate.HoursRollup(entries, datewindow.Today.Predicate(now))
	data.HoursWeek = aggregate.HoursRollup(entries, datewindow.Week.Predicate(now))
	data.GoalHours = h.weeklyGoal(ctx, userID)

	goal := aggregate.WeeklyGoal(data.HoursWeek, data.GoalHours)
	data.GoalPercent = goal.Percent
	data.Overtime = goal.Overtime
	data.OvertimeHours = goal.OvertimeHours
}

// weeklyGoal resolves the user's weekly hours goal: per-user override first,
// then the site setting, then the built-in default.
func (h *Handler) weeklyGoal(ctx context.Context, userID primitive.ObjectID) float64 {
	if u, err := h.Users.GetByID(ctx, userID); err == nil && u.WeeklyHoursGoal > 0 {
		return u.WeeklyHoursGoal
	}
	if s := viewdata.GetSettings(ctx, h.DB); s.WeeklyHoursGoal > 0 {
		return s.WeeklyHoursGoal
	}
	return models.DefaultWeeklyHoursGoal
}

func (h *Handler) projectNames(ctx context.Context, rows []models.TimeEntry) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, e := range rows {
		if _, ok := seen[e.ProjectID]; ok {
			continue
		}
		seen[e.ProjectID] = struct{}{}
		ids = append(ids, e.ProjectID)
	}
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	projects, err := h.Projects.GetByIDs(ctx, ids)
	if err != nil {
		return names
	}
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

func (h *Handler) projectOptions(ctx context.Context) []projectOption {
	projects, err := h.Projects.Find(ctx, projectstore.ListFilter{}, 0, 0)
	if err != nil {
		return nil
	}
	out := make([]projectOption, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectOption{ID: p.ID.Hex(), Name: p.Name})
	}
	return out
}

func (h *Handler) staffOptions(ctx context.Context) []userOption {
	var out []userOption
	for _, role := range []string{"leader", "developer"} {
		users, err := h.Users.List(ctx, userstore.ListFilter{Role: role}, 0, 0)
		if err != nil {
			continue
		}
		for _, u := range users {
			out = append(out, userOption{ID: u.ID.Hex(), Name: u.FullName})
		}
	}
	return out
}
