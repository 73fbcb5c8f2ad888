// internal/app/features/documents/edit.go
package documents

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// editDocumentInput defines validation rules for editing document metadata.
type editDocumentInput struct {
	Name        string `validate:"required,max=200" label:"Document name"`
	Description string `validate:"max=5000" label:"Description"`
}

func badDocumentID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "That document link is not valid.", "/documents")
}

// ServeEdit renders the metadata edit form for one document.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badDocumentID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Documents.GetByID(ctx, id)
	if err != nil {
		badDocumentID(w, r)
		return
	}

	data := editData{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Category:    doc.Category,
		Description: doc.Description,
		Categories:  models.DocumentCategories,
	}
	if project, err := h.Projects.GetByID(ctx, doc.ProjectID); err == nil {
		data.ProjectName = project.Name
	}
	formutil.SetBase(&data.Base, r, h.DB, "Edit Document", "/documents")

	templates.Render(w, r, "document_edit", data)
}

// HandleEdit processes the metadata edit form. The attached project and file
// are fixed; only name, category, and description can change.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badDocumentID(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/documents")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	category := strings.TrimSpace(r.FormValue("category"))
	description := strings.TrimSpace(r.FormValue("description"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, err := h.Documents.GetByID(ctx, id)
	if err != nil {
		badDocumentID(w, r)
		return
	}

	renderWithError := func(msg string) {
		data := editData{
			ID:          id.Hex(),
			Name:        name,
			Category:    category,
			Description: description,
			Categories:  models.DocumentCategories,
		}
		if project, err := h.Projects.GetByID(ctx, doc.ProjectID); err == nil {
			data.ProjectName = project.Name
		}
		formutil.SetBase(&data.Base, r, h.DB, "Edit Document", "/documents")
		data.SetError(msg)
		templates.Render(w, r, "document_edit", data)
	}

	input := editDocumentInput{Name: name, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	update := models.Document{
		Name:        name,
		Category:    category,
		Description: htmlsanitize.Sanitize(description),
	}
	if err := h.Documents.Update(ctx, id, update); err != nil {
		renderWithError("Unable to save the document. Check the category and try again.")
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.DocumentUpdated(ctx, r, actorID, id, string(role))

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.DocumentsBackURL), http.StatusSeeOther)
}

// HandleDelete removes a document's metadata. POST /documents/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badDocumentID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, err := h.Documents.GetByID(ctx, id)
	if err != nil {
		// Already gone; deleting twice is not an error.
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.DocumentsBackURL), http.StatusSeeOther)
		return
	}

	if _, err := h.Documents.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete document failed", err, "Unable to delete the document.", "/documents")
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.DocumentDeleted(ctx, r, actorID, id, string(role), doc.Name)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.DocumentsBackURL), http.StatusSeeOther)
}
