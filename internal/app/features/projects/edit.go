// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// editProjectInput defines validation rules for editing a project.
type editProjectInput struct {
	Name        string `validate:"required,max=200" label:"Project name"`
	Description string `validate:"max=2000" label:"Description"`
}

// ServeEdit renders the Edit Project page.
// Authorization: RequireCapability(CapManageProjects) middleware in routes.go.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badProjectID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	project, err := h.Projects.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	data := editData{
		ID:          project.ID.Hex(),
		Name:        project.Name,
		Description: project.Description,
		CompanyID:   project.CompanyID.Hex(),
		State:       project.State,
		Leaders:     h.leaderOptions(ctx),
		States:      models.ProjectStates,
	}
	if project.LeaderID != nil {
		data.LeaderID = project.LeaderID.Hex()
	}
	if project.StartDate != nil {
		data.StartDate = project.StartDate.Format(dateLayout)
	}
	if project.EstimatedEndDate != nil {
		data.EstimatedEndDate = project.EstimatedEndDate.Format(dateLayout)
	}
	if co, err := h.Companies.GetByID(ctx, project.CompanyID); err == nil {
		data.CompanyName = co.Name
	}
	formutil.SetBase(&data.Base, r, h.DB, "Edit Project", "/projects")

	templates.Render(w, r, "project_edit", data)
}

// HandleEdit processes the Edit Project form POST. The company a project
// belongs to is fixed at creation; only the remaining fields change here.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/projects")
		return
	}

	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		badProjectID(w, r)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	leaderHex := strings.TrimSpace(r.FormValue("leader"))
	state := strings.TrimSpace(r.FormValue("state"))
	startStr := strings.TrimSpace(r.FormValue("start_date"))
	endStr := strings.TrimSpace(r.FormValue("estimated_end_date"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Projects.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	reRender := func(msg string) {
		data := editData{
			ID:               idHex,
			Name:             name,
			Description:      description,
			CompanyID:        existing.CompanyID.Hex(),
			LeaderID:         leaderHex,
			State:            state,
			StartDate:        startStr,
			EstimatedEndDate: endStr,
			Leaders:          h.leaderOptions(ctx),
			States:           models.ProjectStates,
		}
		if co, err := h.Companies.GetByID(ctx, existing.CompanyID); err == nil {
			data.CompanyName = co.Name
		}
		formutil.SetBase(&data.Base, r, h.DB, "Edit Project", "/projects")
		data.SetError(msg)
		templates.Render(w, r, "project_edit", data)
	}

	input := editProjectInput{Name: name, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}
	if !models.ValidProjectState(state) {
		reRender("Please select a valid project state.")
		return
	}

	update := models.Project{
		CompanyID:   existing.CompanyID,
		Name:        name,
		Description: description,
		State:       state,
	}

	if leaderHex != "" {
		leaderID, err := primitive.ObjectIDFromHex(leaderHex)
		if err != nil {
			reRender("Please select a valid project leader.")
			return
		}
		update.LeaderID = &leaderID
	}
	if startStr != "" {
		t, err := time.Parse(dateLayout, startStr)
		if err != nil {
			reRender("Start date must be YYYY-MM-DD.")
			return
		}
		update.StartDate = &t
	}
	if endStr != "" {
		t, err := time.Parse(dateLayout, endStr)
		if err != nil {
			reRender("Estimated end date must be YYYY-MM-DD.")
			return
		}
		if update.StartDate != nil && t.Before(*update.StartDate) {
			reRender("Estimated end date cannot be before the start date.")
			return
		}
		update.EstimatedEndDate = &t
	}

	if err := h.Projects.Update(ctx, oid, update); err != nil {
		msg := "Database error while updating project."
		if err == projectstore.ErrDuplicateProject {
			msg = "That company already has a project with this name."
		}
		reRender(msg)
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	if existing.State != state {
		h.AuditLog.ProjectStateChanged(ctx, r, actorID, oid, string(role), existing.State, state)
	} else {
		h.AuditLog.ProjectUpdated(ctx, r, actorID, oid, string(role), "details")
	}

	ret := navigation.SafeBackURL(r, navigation.ProjectsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
