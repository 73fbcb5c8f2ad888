// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := errorPage(r, "Sign in required", "Please sign in to continue.", backURL)
	templates.Render(w, r, "error_forbidden", data)
}

// RenderBadRequest shows a friendly error page for malformed input
// (bad IDs, unparsable forms). If backURL is empty, a safe back URL is
// resolved with "/" as the fallback.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	w.WriteHeader(http.StatusBadRequest)

	data := errorPage(r, "Invalid request", msg, backURL)
	templates.Render(w, r, "error_forbidden", data)
}

// RenderNotFound shows a friendly "not found" page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	w.WriteHeader(http.StatusNotFound)

	data := errorPage(r, "Not found", msg, backURL)
	templates.Render(w, r, "error_forbidden", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	data := errorPage(r, "Access denied", msg, backURL)
	templates.Render(w, r, "error_forbidden", data)
}
