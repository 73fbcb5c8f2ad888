// internal/app/features/team/routes.go
package team

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all staff directory routes under the base path (typically
// "/team" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LIST - the handler admits admins and account managers.
	r.Group(func(tr chi.Router) {
		tr.Use(sm.RequireSignedIn)
		tr.Get("/", h.ServeList)
	})

	// CREATE, EDIT, STATUS
	r.Group(func(tr chi.Router) {
		tr.Use(sm.RequireSignedIn)
		tr.Use(authz.RequireCapability(authz.CapManageTeam))

		tr.Get("/new", h.ServeNew)
		tr.Post("/", h.HandleCreate)
		tr.Get("/{id}/edit", h.ServeEdit)
		tr.Post("/{id}/edit", h.HandleEdit)
		tr.Post("/{id}/status", h.HandleStatus)
	})

	return r
}
