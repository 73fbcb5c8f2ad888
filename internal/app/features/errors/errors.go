// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages. It embeds the shared BaseVM so
// the layout chrome (site name, nav, footer) renders the same as everywhere
// else, just without a DB lookup for site settings.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// errorPage builds a pageData with an explicit back URL. Error pages never
// honor a ?return= param; the caller decides where "Go back" leads.
func errorPage(r *http.Request, title, msg, backURL string) pageData {
	vm := viewdata.NewBaseVM(r, nil, title, backURL)
	vm.BackURL = backURL
	return pageData{BaseVM: vm, Message: msg}
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	data := errorPage(r, "Access denied", "You don't have permission to view this page.", "/")
	templates.Render(w, r, "error_forbidden", data)
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	data := errorPage(r, "Sign in required", "Please sign in to continue.", "/login")
	templates.Render(w, r, "error_forbidden", data)
}
