// internal/app/features/tickets/delete.go
package tickets

import (
	"context"
	"net/http"

	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes a ticket. POST /tickets/{id}/delete.
// Authorization: RequireCapability(CapManageTickets) middleware in routes.go.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badTicketID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Tickets.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete ticket failed", err, "Unable to delete the ticket.", "/tickets")
		return
	}

	if deleted == 0 {
		// Already gone; deleting twice is not an error.
		h.Log.Info("delete of missing ticket", zap.String("ticket_id", id.Hex()))
	} else {
		role, _, actorID, _ := authz.UserCtx(r)
		h.AuditLog.TicketDeleted(ctx, r, actorID, id, string(role))
	}

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TicketsBackURL), http.StatusSeeOther)
}
