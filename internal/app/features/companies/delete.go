// internal/app/features/companies/delete.go
package companies

import (
	"context"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete removes a company. Companies that still own projects cannot
// be deleted; their projects must be closed out or reassigned first.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badCompanyID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	co, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		// Already gone; treat the delete as done.
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CompaniesBackURL), http.StatusSeeOther)
		return
	}

	n, err := h.Projects.Count(ctx, projectstore.ListFilter{CompanyID: &id})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count company projects failed", err, "Unable to delete the company.", "/companies")
		return
	}
	if n > 0 {
		uierrors.RenderBadRequest(w, r,
			fmt.Sprintf("%s still has %d project(s). Reassign or delete them first.", co.Name, n),
			"/companies")
		return
	}

	if _, err := h.Companies.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete company failed", err, "Unable to delete the company.", "/companies")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.CompanyDeleted(ctx, r, actorID, id, string(actorRole), co.Name)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CompaniesBackURL), http.StatusSeeOther)
}
