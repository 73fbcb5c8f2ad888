// internal/app/features/projects/new.go
package projects

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// createProjectInput defines validation rules for creating a project.
type createProjectInput struct {
	Name        string `validate:"required,max=200" label:"Project name"`
	Description string `validate:"max=2000" label:"Description"`
	CompanyID   string `validate:"required,objectid" label:"Company"`
}

const dateLayout = "2006-01-02"

// ServeNew renders the "New Project" form.
// Authorization: RequireCapability(CapCreateProject) middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := newData{
		Companies: h.companyOptions(ctx),
		Leaders:   h.leaderOptions(ctx),
	}
	formutil.SetBase(&data.Base, r, h.DB, "New Project", "/projects")

	templates.Render(w, r, "project_new", data)
}

// HandleCreate processes the New Project form submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/projects")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	companyHex := strings.TrimSpace(r.FormValue("company"))
	leaderHex := strings.TrimSpace(r.FormValue("leader"))
	startStr := strings.TrimSpace(r.FormValue("start_date"))
	endStr := strings.TrimSpace(r.FormValue("estimated_end_date"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renderWithError := func(msg string) {
		data := newData{
			Name:             name,
			Description:      description,
			CompanyID:        companyHex,
			LeaderID:         leaderHex,
			StartDate:        startStr,
			EstimatedEndDate: endStr,
			Companies:        h.companyOptions(ctx),
			Leaders:          h.leaderOptions(ctx),
		}
		formutil.SetBase(&data.Base, r, h.DB, "New Project", "/projects")
		data.SetError(msg)
		templates.Render(w, r, "project_new", data)
	}

	input := createProjectInput{Name: name, Description: description, CompanyID: companyHex}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	companyID, err := primitive.ObjectIDFromHex(companyHex)
	if err != nil {
		renderWithError("Please select a valid company.")
		return
	}
	if _, err := h.Companies.GetByID(ctx, companyID); err != nil {
		renderWithError("That company no longer exists.")
		return
	}

	project := models.Project{
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		State:       models.ProjectPlanning,
	}

	if leaderHex != "" {
		leaderID, err := primitive.ObjectIDFromHex(leaderHex)
		if err != nil {
			renderWithError("Please select a valid project leader.")
			return
		}
		project.LeaderID = &leaderID
	}

	if startStr != "" {
		t, err := time.Parse(dateLayout, startStr)
		if err != nil {
			renderWithError("Start date must be YYYY-MM-DD.")
			return
		}
		project.StartDate = &t
	}
	if endStr != "" {
		t, err := time.Parse(dateLayout, endStr)
		if err != nil {
			renderWithError("Estimated end date must be YYYY-MM-DD.")
			return
		}
		if project.StartDate != nil && t.Before(*project.StartDate) {
			renderWithError("Estimated end date cannot be before the start date.")
			return
		}
		project.EstimatedEndDate = &t
	}

	created, err := h.Projects.Create(ctx, project)
	if err != nil {
		msg := "Database error while creating project."
		if err == projectstore.ErrDuplicateProject {
			msg = "That company already has a project with this name."
		}
		renderWithError(msg)
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.ProjectCreated(ctx, r, actorID, created.ID, companyID, string(role), name)

	ret := navigation.SafeBackURL(r, navigation.ProjectsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// leaderOptions loads the selectable project leaders (leader and kam roles).
func (h *Handler) leaderOptions(ctx context.Context) []leaderOption {
	us, err := h.Users.List(ctx, userstore.ListFilter{Role: "leader"}, 0, 0)
	if err != nil {
		return nil
	}
	opts := make([]leaderOption, 0, len(us))
	for _, u := range us {
		opts = append(opts, leaderOption{ID: u.ID.Hex(), Name: u.FullName})
	}
	return opts
}

// badProjectID renders the standard invalid-ID response.
func badProjectID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "Invalid project ID.", "/projects")
}
