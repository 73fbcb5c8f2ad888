// internal/app/features/tickets/routes.go
package tickets

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Ticket routes under the base path (typically
// "/tickets" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LIST - every signed-in role; customers see only their own
	// company's projects' tickets.
	r.Group(func(tr chi.Router) {
		tr.Use(sm.RequireSignedIn)
		tr.Get("/", h.ServeList)
	})

	// CREATE, EDIT, STATE CHANGES, DELETE
	r.Group(func(tr chi.Router) {
		tr.Use(sm.RequireSignedIn)
		tr.Use(authz.RequireCapability(authz.CapManageTickets))

		tr.Get("/new", h.ServeNew)
		tr.Post("/", h.HandleCreate)
		tr.Get("/{id}/edit", h.ServeEdit)
		tr.Post("/{id}/edit", h.HandleEdit)
		tr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
