// internal/app/features/projects/delete.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// HandleDelete deletes a project and redirects back to the list.
//
// Route: POST /projects/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		badProjectID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Fetch first so the audit trail records the name.
	name := ""
	if p, err := h.Projects.GetByID(ctx, oid); err == nil {
		name = p.Name
	}

	deleted, err := h.Projects.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete project failed", zap.Error(err), zap.String("project_id", idHex))
		http.Error(w, "delete error", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		h.Log.Info("project delete: no document found (idempotent)", zap.String("project_id", idHex))
	} else {
		role, _, actorID, _ := authz.UserCtx(r)
		h.AuditLog.ProjectDeleted(ctx, r, actorID, oid, string(role), name)
	}

	ret := navigation.SafeBackURL(r, navigation.ProjectsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
