// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the site settings routes (admin only).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(sr chi.Router) {
		sr.Use(sm.RequireSignedIn)
		sr.Use(authz.RequireCapability(authz.CapManageSettings))

		sr.Get("/", h.ServeSettings)
		sr.Post("/", h.HandleSettings)
	})

	return r
}
