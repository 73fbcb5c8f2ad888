// internal/app/features/tickets/new.go
package tickets

import (
	"context"
	"net/http"
	"strings"
	"time"

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

// createTicketInput defines validation rules for raising a ticket.
type createTicketInput struct {
	Title       string `validate:"required,max=200" label:"Title"`
	Description string `validate:"max=5000" label:"Description"`
	ProjectID   string `validate:"required,objectid" label:"Project"`
}

const dateLayout = "2006-01-02"

// ServeNew renders the "New Ticket" form.
// Authorization: RequireCapability(CapManageTickets) middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := newData{
		Priority:   models.PriorityMedium,
		Projects:   h.allProjectOptions(ctx),
		Assignees:  h.assigneeOptions(ctx),
		Priorities: models.TicketPriorities,
	}
	formutil.SetBase(&data.Base, r, h.DB, "New Ticket", "/tickets")

	templates.Render(w, r, "ticket_new", data)
}

// HandleCreate processes the New Ticket form submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/tickets")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	projectHex := strings.TrimSpace(r.FormValue("project"))
	priority := strings.TrimSpace(r.FormValue("priority"))
	assigneeHex := strings.TrimSpace(r.FormValue("assignee"))
	slaDueStr := strings.TrimSpace(r.FormValue("sla_due"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renderWithError := func(msg string) {
		data := newData{
			Title:       title,
			Description: description,
			ProjectID:   projectHex,
			Priority:    priority,
			AssigneeID:  assigneeHex,
			SLADue:      slaDueStr,
			Projects:    h.allProjectOptions(ctx),
			Assignees:   h.assigneeOptions(ctx),
			Priorities:  models.TicketPriorities,
		}
		formutil.SetBase(&data.Base, r, h.DB, "New Ticket", "/tickets")
		data.SetError(msg)
		templates.Render(w, r, "ticket_new", data)
	}

	input := createTicketInput{Title: title, Description: description, ProjectID: projectHex}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	projectID, err := primitive.ObjectIDFromHex(projectHex)
	if err != nil {
		renderWithError("Please select a valid project.")
		return
	}
	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		renderWithError("That project no longer exists.")
		return
	}

	if priority != "" && !models.ValidTicketPriority(priority) {
		renderWithError("Unknown priority.")
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)

	ticket := models.Ticket{
		ProjectID:   project.ID,
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedBy:   &actorID,
	}

	if assigneeHex != "" {
		assigneeID, err := primitive.ObjectIDFromHex(assigneeHex)
		if err != nil {
			renderWithError("Please select a valid assignee.")
			return
		}
		ticket.AssigneeID = &assigneeID
	}

	if slaDueStr != "" {
		t, err := time.Parse(dateLayout, slaDueStr)
		if err != nil {
			renderWithError("SLA due date must be YYYY-MM-DD.")
			return
		}
		ticket.SLADue = &t
	}

	created, err := h.Tickets.Create(ctx, ticket)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create ticket failed", err, "Unable to create the ticket.", "/tickets")
		return
	}

	h.AuditLog.TicketCreated(ctx, r, actorID, created.ID, project.ID, string(role), title)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TicketsBackURL), http.StatusSeeOther)
}

// allProjectOptions lists every project for the project select, sorted as the
// store returns them.
func (h *Handler) allProjectOptions(ctx context.Context) []projectOption {
	projects, err := h.Projects.Find(ctx, projectstore.ListFilter{}, 0, 0)
	if err != nil {
		return nil
	}
	return projectOptions(projects)
}

// assigneeOptions lists staff who can work tickets.
func (h *Handler) assigneeOptions(ctx context.Context) []assigneeOption {
	var out []assigneeOption
	for _, role := range []string{"leader", "developer"} {
		users, err := h.Users.List(ctx, userstore.ListFilter{Role: role}, 0, 0)
		if err != nil {
			continue
		}
		for _, u := range users {
			out = append(out, assigneeOption{ID: u.ID.Hex(), Name: u.FullName})
		}
	}
	return out
}
