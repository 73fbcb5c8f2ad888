// internal/app/features/timeentries/edit.go
package timeentries

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func badEntryID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "That time entry link is not valid.", "/time")
}

// canTouch reports whether the signed-in user may edit or delete the entry.
// Owners always can; project managers can fix anyone's entries.
func canTouch(r *http.Request, actorID primitive.ObjectID, e models.TimeEntry) bool {
	return e.UserID == actorID || authz.Can(r, authz.CapManageProjects)
}

// ServeEdit renders the edit form for one time entry.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badEntryID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	entry, err := h.Entries.GetByID(ctx, id)
	if err != nil {
		badEntryID(w, r)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	if !canTouch(r, actorID, entry) {
		uierrors.RenderForbidden(w, r, "You can only edit your own time entries.", "/time")
		return
	}

	data := editData{
		ID:          entry.ID.Hex(),
		Date:        entry.Date.Format(dateLayout),
		Hours:       strconv.FormatFloat(entry.Hours, 'f', -1, 64),
		Description: entry.Description,
	}
	if project, err := h.Projects.GetByID(ctx, entry.ProjectID); err == nil {
		data.ProjectName = project.Name
	}
	formutil.SetBase(&data.Base, r, h.DB, "Edit Time Entry", "/time")

	templates.Render(w, r, "time_edit", data)
}

// HandleEdit processes the edit form. The entry's project and owner are
// fixed; only date, hours, and description can change.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badEntryID(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/time")
		return
	}

	dateStr := strings.TrimSpace(r.FormValue("date"))
	hoursStr := strings.TrimSpace(r.FormValue("hours"))
	description := strings.TrimSpace(r.FormValue("description"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entry, err := h.Entries.GetByID(ctx, id)
	if err != nil {
		badEntryID(w, r)
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	if !canTouch(r, actorID, entry) {
		uierrors.RenderForbidden(w, r, "You can only edit your own time entries.", "/time")
		return
	}

	renderWithError := func(msg string) {
		data := editData{
			ID:          id.Hex(),
			Date:        dateStr,
			Hours:       hoursStr,
			Description: description,
		}
		if project, err := h.Projects.GetByID(ctx, entry.ProjectID); err == nil {
			data.ProjectName = project.Name
		}
		formutil.SetBase(&data.Base, r, h.DB, "Edit Time Entry", "/time")
		data.SetError(msg)
		templates.Render(w, r, "time_edit", data)
	}

	hours, err := strconv.ParseFloat(hoursStr, 64)
	if err != nil {
		renderWithError("Hours must be a number.")
		return
	}
	if hours < 0 {
		renderWithError("Hours cannot be negative.")
		return
	}
	if hours > maxHoursPerEntry {
		renderWithError("A single entry cannot exceed 24 hours.")
		return
	}

	update := models.TimeEntry{
		Hours:       hours,
		Description: description,
	}
	if dateStr != "" {
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			renderWithError("Date must be YYYY-MM-DD.")
			return
		}
		update.Date = d
	}

	if err := h.Entries.Update(ctx, id, update); err != nil {
		h.ErrLog.LogServerError(w, r, "update time entry failed", err, "Unable to save the time entry.", "/time")
		return
	}

	h.AuditLog.TimeEntryUpdated(ctx, r, actorID, id, string(role))

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TimeEntriesBackURL), http.StatusSeeOther)
}

// HandleDelete removes a time entry. POST /time/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badEntryID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entry, err := h.Entries.GetByID(ctx, id)
	if err != nil {
		// Already gone; deleting twice is not an error.
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TimeEntriesBackURL), http.StatusSeeOther)
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	if !canTouch(r, actorID, entry) {
		uierrors.RenderForbidden(w, r, "You can only delete your own time entries.", "/time")
		return
	}

	if _, err := h.Entries.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete time entry failed", err, "Unable to delete the time entry.", "/time")
		return
	}

	h.AuditLog.TimeEntryDeleted(ctx, r, actorID, id, string(role))

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TimeEntriesBackURL), http.StatusSeeOther)
}
