// internal/app/features/documents/routes.go
package documents

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Document routes under the base path (typically
// "/documents" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LIST - every signed-in role; customers see only their own
	// company's projects' documents.
	r.Group(func(dr chi.Router) {
		dr.Use(sm.RequireSignedIn)
		dr.Get("/", h.ServeList)
	})

	// UPLOAD, EDIT, DELETE
	r.Group(func(dr chi.Router) {
		dr.Use(sm.RequireSignedIn)
		dr.Use(authz.RequireCapability(authz.CapManageProjects))

		dr.Get("/new", h.ServeNew)
		dr.Post("/", h.HandleCreate)
		dr.Get("/{id}/edit", h.ServeEdit)
		dr.Post("/{id}/edit", h.HandleEdit)
		dr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
