// internal/app/features/companies/routes.go
package companies

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Company routes under the base path (typically
// "/companies" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LIST - admins and account managers.
	r.Group(func(cr chi.Router) {
		cr.Use(sm.RequireSignedIn)
		cr.Use(authz.RequireCapability(authz.CapViewAllCompanies))
		cr.Get("/", h.ServeList)
	})

	// CREATE, EDIT, DELETE
	r.Group(func(cr chi.Router) {
		cr.Use(sm.RequireSignedIn)
		cr.Use(authz.RequireCapability(authz.CapManageCompanies))

		cr.Get("/new", h.ServeNew)
		cr.Post("/", h.HandleCreate)
		cr.Get("/{id}/edit", h.ServeEdit)
		cr.Post("/{id}/edit", h.HandleEdit)
		cr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
