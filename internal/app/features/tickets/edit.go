// internal/app/features/tickets/edit.go
package tickets

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
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

// editTicketInput defines validation rules for editing a ticket.
type editTicketInput struct {
	Title       string `validate:"required,max=200" label:"Title"`
	Description string `validate:"max=5000" label:"Description"`
}

func badTicketID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "That ticket link is not valid.", "/tickets")
}

// ServeEdit renders the edit form for one ticket.
// Authorization: RequireCapability(CapManageTickets) middleware in routes.go.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badTicketID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ticket, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		badTicketID(w, r)
		return
	}

	data := editData{
		ID:          ticket.ID.Hex(),
		Title:       ticket.Title,
		Description: ticket.Description,
		State:       ticket.State,
		Priority:    ticket.Priority,
		Assignees:   h.assigneeOptions(ctx),
		States:      models.TicketStates,
		Priorities:  models.TicketPriorities,
	}
	if ticket.AssigneeID != nil {
		data.AssigneeID = ticket.AssigneeID.Hex()
	}
	if ticket.SLADue != nil {
		data.SLADue = ticket.SLADue.Format(dateLayout)
	}
	if project, err := h.Projects.GetByID(ctx, ticket.ProjectID); err == nil {
		data.ProjectName = project.Name
	}
	formutil.SetBase(&data.Base, r, h.DB, "Edit Ticket", "/tickets")

	templates.Render(w, r, "ticket_edit", data)
}

// HandleEdit processes the edit form. State changes route through the store's
// transition logic so ResolvedAt is stamped and cleared consistently.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badTicketID(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/tickets")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	state := strings.TrimSpace(r.FormValue("state"))
	priority := strings.TrimSpace(r.FormValue("priority"))
	assigneeHex := strings.TrimSpace(r.FormValue("assignee"))
	slaDueStr := strings.TrimSpace(r.FormValue("sla_due"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		badTicketID(w, r)
		return
	}

	renderWithError := func(msg string) {
		data := editData{
			ID:          id.Hex(),
			Title:       title,
			Description: description,
			State:       state,
			Priority:    priority,
			AssigneeID:  assigneeHex,
			SLADue:      slaDueStr,
			Assignees:   h.assigneeOptions(ctx),
			States:      models.TicketStates,
			Priorities:  models.TicketPriorities,
		}
		if project, err := h.Projects.GetByID(ctx, current.ProjectID); err == nil {
			data.ProjectName = project.Name
		}
		formutil.SetBase(&data.Base, r, h.DB, "Edit Ticket", "/tickets")
		data.SetError(msg)
		templates.Render(w, r, "ticket_edit", data)
	}

	input := editTicketInput{Title: title, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}
	if state != "" && !models.ValidTicketState(state) {
		renderWithError("Unknown ticket state.")
		return
	}
	if priority != "" && !models.ValidTicketPriority(priority) {
		renderWithError("Unknown priority.")
		return
	}

	update := models.Ticket{
		Title:       title,
		Description: description,
		Priority:    priority,
	}

	if assigneeHex != "" {
		assigneeID, err := primitive.ObjectIDFromHex(assigneeHex)
		if err != nil {
			renderWithError("Please select a valid assignee.")
			return
		}
		update.AssigneeID = &assigneeID
	}
	if slaDueStr != "" {
		t, err := time.Parse(dateLayout, slaDueStr)
		if err != nil {
			renderWithError("SLA due date must be YYYY-MM-DD.")
			return
		}
		update.SLADue = &t
	}

	if err := h.Tickets.Update(ctx, id, update); err != nil {
		h.ErrLog.LogServerError(w, r, "update ticket failed", err, "Unable to save the ticket.", "/tickets")
		return
	}

	role, _, actorID, _ := authz.UserCtx(r)

	if state != "" && state != current.State {
		if err := h.Tickets.SetState(ctx, id, state); err != nil {
			h.ErrLog.LogServerError(w, r, "ticket state change failed", err, "Unable to change the ticket state.", "/tickets")
			return
		}
		h.AuditLog.TicketStateChanged(ctx, r, actorID, id, string(role), current.State, state)
	} else {
		h.AuditLog.TicketUpdated(ctx, r, actorID, id, string(role), "details")
	}

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TicketsBackURL), http.StatusSeeOther)
}
