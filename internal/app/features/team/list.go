// internal/app/features/team/list.go
package team

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/paging"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// roleNames is the role filter shown in the directory.
var roleNames = []string{"admin", "kam", "leader", "developer", "customer"}

// ServeList handles GET /team (with optional ?q=, ?role=, ?status=).
// Admins and key account managers only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, _, _ := authz.UserCtx(r)
	if role != authz.RoleAdmin && role != authz.RoleKAM {
		uierrors.RenderForbidden(w, r, "The staff directory is only available to admins and account managers.", "/dashboard")
		return
	}

	q := query.Search(r, "q")
	roleFilter := query.Get(r, "role")
	status := query.Get(r, "status")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := userstore.ListFilter{Search: q}
	if roleFilter != "" && roleFilter != "all" {
		filter.Role = roleFilter
	}
	if status != "" && status != "all" {
		filter.Status = status
	}

	total, err := h.Users.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count users failed", err, "Unable to load the directory.", "")
		return
	}

	rows, err := h.Users.List(ctx, filter, int64(start-1), paging.PageSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "Unable to load the directory.", "")
		return
	}

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	companyNames := h.companyNames(ctx, rows)

	items := make([]listItem, 0, len(rows))
	for _, u := range rows {
		item := listItem{
			ID:         u.ID,
			FullName:   u.FullName,
			Email:      u.Email,
			Role:       u.Role,
			Status:     u.Status,
			AuthMethod: u.AuthMethod,
		}
		if u.CompanyID != nil {
			item.CompanyName = companyNames[*u.CompanyID]
		}
		items = append(items, item)
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Team", "/dashboard"),
		Q:      q,
		Role:   roleFilter,
		Status: status,
		Items:  items,
		Roles:  roleNames,

		Shown:      shown,
		Total:      total,
		HasPrev:    start > 1,
		HasNext:    int64(start-1+shown) < total,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}

	if r.Header.Get("HX-Target") == "team-table-wrap" {
		templates.RenderSnippet(w, "team_table", data)
		return
	}
	templates.Render(w, r, "team_list", data)
}

func (h *Handler) companyNames(ctx context.Context, rows []models.User) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, u := range rows {
		if u.CompanyID == nil {
			continue
		}
		if _, ok := seen[*u.CompanyID]; ok {
			continue
		}
		seen[*u.CompanyID] = struct{}{}
		ids = append(ids, *u.CompanyID)
	}
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	companies, err := h.Companies.GetByIDs(ctx, ids)
	if err != nil {
		return names
	}
	for _, c := range companies {
		names[c.ID] = c.Name
	}
	return names
}
