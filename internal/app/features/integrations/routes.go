// internal/app/features/integrations/routes.go
package integrations

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the integration management routes (admin only).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ir chi.Router) {
		ir.Use(sm.RequireSignedIn)
		ir.Use(authz.RequireCapability(authz.CapManageIntegrations))

		ir.Get("/", h.ServeList)
		ir.Get("/new", h.ServeNew)
		ir.Post("/", h.HandleCreate)
		ir.Post("/{id}/status", h.HandleStatus)
		ir.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
