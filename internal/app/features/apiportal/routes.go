// internal/app/features/apiportal/routes.go
package apiportal

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the API portal routes (admin only).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(authz.RequireCapability(authz.CapManageAPIKeys))

		ar.Get("/", h.ServeList)
		ar.Post("/", h.HandleCreate)
		ar.Post("/{id}/revoke", h.HandleRevoke)
	})

	return r
}
