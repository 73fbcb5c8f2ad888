// internal/app/features/documents/list.go
package documents

import (
	"context"
	"fmt"
	"net/http"

	documentstore "github.com/dalemusser/opshub/internal/app/store/documents"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/opshub/internal/app/system/paging"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /documents (with optional ?q=, ?project=,
// ?category=). Supports HTMX partial refresh of the table when
// HX-Target="documents-table-wrap". Customer contacts only see documents
// attached to their own company's projects.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, _, _ := authz.UserCtx(r)

	q := query.Search(r, "q")
	projectHex := query.Get(r, "project")
	category := query.Get(r, "category")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := documentstore.ListFilter{Search: q}
	if category != "" && category != "all" {
		filter.Category = category
	}

	var visibleProjects []models.Project
	if role == authz.RoleCustomer {
		companyID := authz.UserCompanyID(r)
		if companyID.IsZero() {
			h.renderList(w, r, listData{
				BaseVM: viewdata.NewBaseVM(r, h.DB, "Documents", "/dashboard"),
			})
			return
		}
		var err error
		visibleProjects, err = h.Projects.Find(ctx, projectstore.ListFilter{CompanyID: &companyID}, 0, 0)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "find company projects failed", err, "Unable to load documents.", "")
			return
		}
		if len(visibleProjects) == 0 {
			h.renderList(w, r, listData{
				BaseVM: viewdata.NewBaseVM(r, h.DB, "Documents", "/dashboard"),
			})
			return
		}
		for _, p := range visibleProjects {
			filter.ProjectIDs = append(filter.ProjectIDs, p.ID)
		}
	} else {
		var err error
		visibleProjects, err = h.Projects.Find(ctx, projectstore.ListFilter{}, 0, 0)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "find projects failed", err, "Unable to load documents.", "")
			return
		}
	}

	if projectHex != "" && projectHex != "all" {
		if oid, err := primitive.ObjectIDFromHex(projectHex); err == nil {
			filter.ProjectID = &oid
		}
	}

	total, err := h.Documents.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count documents failed", err, "Unable to load documents.", "")
		return
	}

	rows, err := h.Documents.Find(ctx, filter, int64(start-1), paging.PageSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find documents failed", err, "Unable to load documents.", "")
		return
	}

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	projectNames := make(map[primitive.ObjectID]string, len(visibleProjects))
	projectOpts := make([]projectOption, 0, len(visibleProjects))
	for _, p := range visibleProjects {
		projectNames[p.ID] = p.Name
		projectOpts = append(projectOpts, projectOption{ID: p.ID.Hex(), Name: p.Name})
	}

	items := make([]listItem, 0, len(rows))
	for _, d := range rows {
		items = append(items, listItem{
			ID:          d.ID,
			Name:        d.Name,
			ProjectName: projectNames[d.ProjectID],
			Category:    d.Category,
			Description: htmlsanitize.PrepareForDisplay(d.Description),
			Size:        formatSize(d.SizeBytes),
			Uploaded:    d.CreatedAt.Format("2006-01-02"),
		})
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Documents", "/dashboard"),
		Q:        q,
		Category: category,
		Project:  projectHex,

		Items:      items,
		Projects:   projectOpts,
		Categories: models.DocumentCategories,

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
	if r.Header.Get("HX-Target") == "documents-table-wrap" {
		templates.RenderSnippet(w, "documents_table", data)
		return
	}
	templates.Render(w, r, "documents_list", data)
}

func formatSize(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
