// internal/app/features/projects/list.go
package projects

import (
	"context"
	"maps"
	"net/http"

	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/paging"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList handles GET /projects (with optional ?q=, ?company=, ?state=).
// It supports HTMX partial refresh of the table when HX-Target="projects-table-wrap".
// Customer contacts only ever see their own company's projects.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, _, _ := authz.UserCtx(r)

	q := query.Search(r, "q")
	companyHex := query.Get(r, "company")
	state := query.Get(r, "state")
	after := query.Get(r, "after")
	before := query.Get(r, "before")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	base := bson.M{}

	// Company scoping: customers are pinned to their own company, everyone
	// else may filter by one.
	if role == authz.RoleCustomer {
		companyID := authz.UserCompanyID(r)
		if companyID.IsZero() {
			templates.Render(w, r, "projects_list", listData{
				BaseVM: viewdata.NewBaseVM(r, h.DB, "Projects", "/dashboard"),
			})
			return
		}
		base["company_id"] = companyID
	} else if companyHex != "" && companyHex != "all" {
		if oid, err := primitive.ObjectIDFromHex(companyHex); err == nil {
			base["company_id"] = oid
		}
	}

	if state != "" && state != "all" {
		base["state"] = state
	}

	if q != "" {
		if fq := text.Fold(q); fq != "" {
			base["name_ci"] = bson.M{"$gte": fq, "$lt": fq + "￿"}
		}
	}

	total, err := h.DB.Collection("projects").CountDocuments(ctx, base)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count projects failed", err, "Unable to load projects.", "")
		return
	}

	f := maps.Clone(base)
	find := options.Find()
	sortField := "name_ci"

	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		maps.Copy(f, ks)
	}

	cur, err := h.DB.Collection("projects").Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find projects failed", err, "Unable to load projects.", "")
		return
	}
	defer cur.Close(ctx)

	var rows []projectRow
	if err := cur.All(ctx, &rows); err != nil {
		h.ErrLog.LogServerError(w, r, "decode projects failed", err, "Unable to load projects.", "")
		return
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	page := paging.TrimPage(&rows, before, after)

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	companyNames, leaderNames := h.rowNames(ctx, rows)

	items := make([]listItem, 0, len(rows))
	for _, p := range rows {
		item := listItem{
			ID:          p.ID,
			Name:        p.Name,
			NameCI:      p.NameCI,
			State:       p.State,
			CompanyName: companyNames[p.CompanyID],
		}
		if p.LeaderID != nil {
			item.LeaderName = leaderNames[*p.LeaderID]
		}
		items = append(items, item)
	}

	prevCur, nextCur := "", ""
	if len(rows) > 0 {
		prevCur = wafflemongo.EncodeCursor(rows[0].NameCI, rows[0].ID)
		nextCur = wafflemongo.EncodeCursor(rows[len(rows)-1].NameCI, rows[len(rows)-1].ID)
	}

	data := listData{
		BaseVM:  viewdata.NewBaseVM(r, h.DB, "Projects", "/dashboard"),
		Q:       q,
		Company: companyHex,
		State:   state,
		Items:   items,

		Shown:      shown,
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCur,
		NextCursor: nextCur,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}

	// Staff get the company filter dropdown.
	if role != authz.RoleCustomer {
		data.Companies = h.companyOptions(ctx)
	}

	// HTMX partial: just the table
	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "projects-table-wrap" {
		templates.RenderSnippet(w, "projects_table", data)
		return
	}

	templates.Render(w, r, "projects_list", data)
}

// projectRow is the list projection fetched from Mongo.
type projectRow struct {
	ID        primitive.ObjectID  `bson:"_id"`
	Name      string              `bson:"name"`
	NameCI    string              `bson:"name_ci"`
	State     string              `bson:"state"`
	CompanyID primitive.ObjectID  `bson:"company_id"`
	LeaderID  *primitive.ObjectID `bson:"leader_id"`
}

// rowNames resolves company and leader display names for the visible page.
func (h *Handler) rowNames(ctx context.Context, rows []projectRow) (map[primitive.ObjectID]string, map[primitive.ObjectID]string) {
	companyIDs := make([]primitive.ObjectID, 0, len(rows))
	leaderIDs := make([]primitive.ObjectID, 0, len(rows))
	seenCo := map[primitive.ObjectID]bool{}
	seenLd := map[primitive.ObjectID]bool{}
	for _, p := range rows {
		if !seenCo[p.CompanyID] {
			seenCo[p.CompanyID] = true
			companyIDs = append(companyIDs, p.CompanyID)
		}
		if p.LeaderID != nil && !seenLd[*p.LeaderID] {
			seenLd[*p.LeaderID] = true
			leaderIDs = append(leaderIDs, *p.LeaderID)
		}
	}

	companyNames := make(map[primitive.ObjectID]string, len(companyIDs))
	if cos, err := h.Companies.GetByIDs(ctx, companyIDs); err == nil {
		for _, co := range cos {
			companyNames[co.ID] = co.Name
		}
	}

	leaderNames := make(map[primitive.ObjectID]string, len(leaderIDs))
	if us, err := h.Users.GetByIDs(ctx, leaderIDs); err == nil {
		for _, u := range us {
			leaderNames[u.ID] = u.FullName
		}
	}

	return companyNames, leaderNames
}

// companyOptions loads the company filter/select values, name order.
func (h *Handler) companyOptions(ctx context.Context) []companyOption {
	cos, err := h.Companies.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil
	}
	opts := make([]companyOption, 0, len(cos))
	for _, co := range cos {
		opts = append(opts, companyOption{ID: co.ID.Hex(), Name: co.Name})
	}
	return opts
}
