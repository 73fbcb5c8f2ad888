// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the analytics routes.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(authz.RequireCapability(authz.CapViewAnalytics))
		ar.Get("/", h.ServeAnalytics)
	})

	return r
}
