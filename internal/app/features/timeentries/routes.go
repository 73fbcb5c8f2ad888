// internal/app/features/timeentries/routes.go
package timeentries

import (
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all time tracking routes under the base path (typically
// "/time" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LIST - staff only; the handler rejects customer contacts.
	r.Group(func(tr chi.Router) {
		tr.Use(sm.RequireSignedIn)
		tr.Get("/", h.ServeList)
	})

	// LOG, EDIT, DELETE
	r.Group(func(tr chi.Router) {
		tr.Use(sm.RequireSignedIn)
		tr.Use(authz.RequireCapability(authz.CapLogTime))

		tr.Get("/new", h.ServeNew)
		tr.Post("/", h.HandleCreate)
		tr.Get("/{id}/edit", h.ServeEdit)
		tr.Post("/{id}/edit", h.HandleEdit)
		tr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
