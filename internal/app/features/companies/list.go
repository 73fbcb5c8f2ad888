// internal/app/features/companies/list.go
package companies

import (
	"context"
	"net/http"

	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	"github.com/dalemusser/opshub/internal/app/system/paging"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList handles GET /companies (with optional ?q= and ?status=).
// Authorization: RequireCapability(CapViewAllCompanies) middleware in routes.go.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	status := query.Get(r, "status")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := bson.M{}
	if q != "" {
		filter["name_ci"] = bson.M{"$regex": text.Fold(q)}
	}
	if status != "" && status != "all" {
		filter["status"] = status
	}

	total, err := h.Companies.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count companies failed", err, "Unable to load companies.", "")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}}).
		SetSkip(int64(start - 1)).
		SetLimit(paging.PageSize)
	rows, err := h.Companies.Find(ctx, filter, opts)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list companies failed", err, "Unable to load companies.", "")
		return
	}

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	items := make([]listItem, 0, len(rows))
	for _, co := range rows {
		id := co.ID
		n, err := h.Projects.Count(ctx, projectstore.ListFilter{CompanyID: &id})
		if err != nil {
			n = 0
		}
		items = append(items, listItem{
			ID:           co.ID,
			Name:         co.Name,
			ContactName:  co.ContactName,
			ContactEmail: co.ContactEmail,
			Industry:     co.Industry,
			Status:       co.Status,
			ProjectCount: n,
		})
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Companies", "/dashboard"),
		Q:      q,
		Status: status,
		Items:  items,

		Shown:      shown,
		Total:      total,
		HasPrev:    start > 1,
		HasNext:    int64(start-1+shown) < total,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}

	if r.Header.Get("HX-Target") == "companies-table-wrap" {
		templates.RenderSnippet(w, "companies_table", data)
		return
	}
	templates.Render(w, r, "companies_list", data)
}
