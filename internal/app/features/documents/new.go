// internal/app/features/documents/new.go
package documents

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/limits"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// uploadDocumentInput defines validation rules for registering a document.
type uploadDocumentInput struct {
	Name        string `validate:"required,max=200" label:"Document name"`
	ProjectID   string `validate:"required,objectid" label:"Project"`
	Description string `validate:"max=5000" label:"Description"`
}

// ServeNew renders the document upload form.
// Authorization: RequireCapability(CapManageProjects) middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := newData{
		Projects:   h.projectOptions(ctx),
		Categories: models.DocumentCategories,
	}
	formutil.SetBase(&data.Base, r, h.DB, "Upload Document", "/documents")

	templates.Render(w, r, "document_new", data)
}

// HandleCreate processes the upload form. The file itself is optional; when
// present its name and size are recorded as metadata. Descriptions are
// sanitized before storage so stored HTML is always safe to render.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxDocumentUploadSize)
	if err := r.ParseMultipartForm(limits.MaxDocumentUploadSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse upload form failed", err, "The upload is too large or malformed.", "/documents")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	projectHex := strings.TrimSpace(r.FormValue("project"))
	category := strings.TrimSpace(r.FormValue("category"))
	description := strings.TrimSpace(r.FormValue("description"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renderWithError := func(msg string) {
		data := newData{
			Name:        name,
			ProjectID:   projectHex,
			Category:    category,
			Description: description,
			Projects:    h.projectOptions(ctx),
			Categories:  models.DocumentCategories,
		}
		formutil.SetBase(&data.Base, r, h.DB, "Upload Document", "/documents")
		data.SetError(msg)
		templates.Render(w, r, "document_new", data)
	}

	var fileHeader *multipart.FileHeader
	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["file"]; len(headers) > 0 {
			fileHeader = headers[0]
		}
	}
	if name == "" && fileHeader != nil {
		name = fileHeader.Filename
	}

	input := uploadDocumentInput{Name: name, ProjectID: projectHex, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	projectID, err := primitive.ObjectIDFromHex(projectHex)
	if err != nil {
		renderWithError("Please select a valid project.")
		return
	}
	if _, err := h.Projects.GetByID(ctx, projectID); err != nil {
		renderWithError("That project no longer exists.")
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)

	doc := models.Document{
		ProjectID:   projectID,
		Name:        name,
		Category:    category,
		Description: htmlsanitize.Sanitize(description),
		UploadedBy:  &actorID,
	}
	if fileHeader != nil {
		doc.Path = storedPath(fileHeader.Filename)
		doc.SizeBytes = fileHeader.Size
	}

	created, err := h.Documents.Create(ctx, doc)
	if err != nil {
		renderWithError("Unable to save the document. Check the category and try again.")
		return
	}

	h.AuditLog.DocumentUploaded(ctx, r, actorID, created.ID, projectID, string(role), name)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.DocumentsBackURL), http.StatusSeeOther)
}

// storedPath builds a unique storage path: documents/YYYY/MM/<uuid8>.<ext>.
// Using a generated name keeps uploads with the same filename from colliding.
func storedPath(filename string) string {
	now := time.Now().UTC()
	ext := filepath.Ext(filename)
	return fmt.Sprintf("documents/%04d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String()[:8], ext)
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
