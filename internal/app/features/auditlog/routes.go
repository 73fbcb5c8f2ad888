// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log viewer (admins and account managers).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(authz.RequireCapability(authz.CapViewAuditLog))
		ar.Get("/", h.ServeList)
	})

	return r
}
