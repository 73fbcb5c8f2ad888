// internal/app/features/tickets/list.go
package tickets

import (
	"context"
	"net/http"
	"time"

	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/opshub/internal/app/system/paging"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// slaStatsDays bounds the resolution-rate figure shown above the table.
const slaStatsDays = 30

// ServeList handles GET /tickets (with optional ?q=, ?project=, ?state=,
// ?priority=, ?window=). Supports HTMX partial refresh of the table when
// HX-Target="tickets-table-wrap". Customer contacts only see tickets on
// their own company's projects.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, _, _ := authz.UserCtx(r)

	q := query.Search(r, "q")
	projectHex := query.Get(r, "project")
	state := query.Get(r, "state")
	priority := query.Get(r, "priority")
	window := query.Get(r, "window")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := ticketstore.ListFilter{Search: q}

	if state != "" && state != "all" {
		filter.State = state
	}
	if priority != "" && priority != "all" {
		filter.Priority = priority
	}
	if from := windowFrom(window, time.Now().UTC()); from != nil {
		filter.CreatedFrom = from
	}

	// Customers are pinned to their company's projects. An empty project
	// set means an empty list, never the unscoped one.
	var visibleProjects []models.Project
	if role == authz.RoleCustomer {
		companyID := authz.UserCompanyID(r)
		if companyID.IsZero() {
			h.renderList(w, r, listData{
				BaseVM: viewdata.NewBaseVM(r, h.DB, "Tickets", "/dashboard"),
			})
			return
		}
		var err error
		visibleProjects, err = h.Projects.Find(ctx, projectstore.ListFilter{CompanyID: &companyID}, 0, 0)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "find company projects failed", err, "Unable to load tickets.", "")
			return
		}
		if len(visibleProjects) == 0 {
			h.renderList(w, r, listData{
				BaseVM: viewdata.NewBaseVM(r, h.DB, "Tickets", "/dashboard"),
			})
			return
		}
		filter.ProjectIDs = projectIDs(visibleProjects)
	} else {
		var err error
		visibleProjects, err = h.Projects.Find(ctx, projectstore.ListFilter{}, 0, 0)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "find projects failed", err, "Unable to load tickets.", "")
			return
		}
	}

	if projectHex != "" && projectHex != "all" {
		if oid, err := primitive.ObjectIDFromHex(projectHex); err == nil {
			filter.ProjectID = &oid
		}
	}

	total, err := h.Tickets.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count tickets failed", err, "Unable to load tickets.", "")
		return
	}

	rows, err := h.Tickets.Find(ctx, filter, int64(start-1), paging.PageSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find tickets failed", err, "Unable to load tickets.", "")
		return
	}

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	projectNames := make(map[primitive.ObjectID]string, len(visibleProjects))
	for _, p := range visibleProjects {
		projectNames[p.ID] = p.Name
	}
	assigneeNames := h.assigneeNames(ctx, rows)

	now := time.Now().UTC()
	items := make([]listItem, 0, len(rows))
	for _, t := range rows {
		item := listItem{
			ID:          t.ID,
			Title:       t.Title,
			ProjectName: projectNames[t.ProjectID],
			State:       t.State,
			Priority:    t.Priority,
			Created:     t.CreatedAt.Format("2006-01-02"),
			Overdue:     !t.IsDone() && t.SLADue != nil && t.SLADue.Before(now),
		}
		if t.AssigneeID != nil {
			item.AssigneeName = assigneeNames[*t.AssigneeID]
		}
		items = append(items, item)
	}

	slaPercent, resolvedCount := h.resolutionStats(ctx, filter.ProjectIDs, now)

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Tickets", "/dashboard"),
		Q:        q,
		State:    state,
		Priority: priority,
		Window:   window,
		Project:  projectHex,
		Items:    items,
		Projects: projectOptions(visibleProjects),

		States:     models.TicketStates,
		Priorities: models.TicketPriorities,

		SLAPercent:    slaPercent,
		ResolvedCount: resolvedCount,

		Shown:      shown,
		Total:      total,
		HasPrev:    start > 1,
		HasNext:    int64(start-1+shown) < total,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}

	h.renderList(w, r, data)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, data listData) {
	if r.Header.Get("HX-Target") == "tickets-table-wrap" {
		templates.RenderSnippet(w, "tickets_table", data)
		return
	}
	templates.Render(w, r, "tickets_list", data)
}

// resolutionStats returns the share of tickets resolved within their SLA over
// the stats window, and how many resolved at all. Errors degrade to zeros.
func (h *Handler) resolutionStats(ctx context.Context, projectIDs []primitive.ObjectID, now time.Time) (int, int) {
	since := now.AddDate(0, 0, -slaStatsDays)
	resolved, err := h.Tickets.ResolvedSince(ctx, since, projectIDs)
	if err != nil {
		h.Log.Warn("resolution stats unavailable", zap.Error(err))
		return 0, 0
	}
	return aggregate.TicketSLACompliance(resolved), len(resolved)
}

// windowFrom translates a window name into a created-at lower bound.
// Tickets are never created in the future, so the bound alone is enough.
func windowFrom(name string, now time.Time) *time.Time {
	switch datewindow.ParseWindow(name) {
	case datewindow.Today:
		t := datewindow.Day(now)
		return &t
	case datewindow.Week:
		t := datewindow.WeekStart(now)
		return &t
	case datewindow.Month:
		t := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &t
	default:
		return nil
	}
}

func (h *Handler) assigneeNames(ctx context.Context, rows []models.Ticket) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, t := range rows {
		if t.AssigneeID == nil {
			continue
		}
		if _, ok := seen[*t.AssigneeID]; ok {
			continue
		}
		seen[*t.AssigneeID] = struct{}{}
		ids = append(ids, *t.AssigneeID)
	}
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func projectIDs(projects []models.Project) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func projectOptions(projects []models.Project) []projectOption {
	out := make([]projectOption, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectOption{ID: p.ID.Hex(), Name: p.Name})
	}
	return out
}
