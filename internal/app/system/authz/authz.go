// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/opshub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's canonical role, name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns RoleCustomer, "", NilObjectID, false. This ensures callers can
// trust that ok=true means a valid, authenticated user with a valid ObjectID,
// and that the role is always canonical.
func UserCtx(r *http.Request) (role Role, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return RoleCustomer, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed for security.
		// This should not happen in normal operation; indicates session corruption.
		return RoleCustomer, "", primitive.NilObjectID, false
	}
	return ResolveRole(user.Role), user.Name, userID, true
}

// Can reports whether the current request's user has the given capability.
// Returns false if no user is present (i.e., not signed in).
func Can(r *http.Request, cap Capability) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	return HasCapability(ResolveRole(user.Role), cap)
}

// UserCompanyID returns the current user's company ID as an ObjectID.
// Returns NilObjectID if the user is not logged in or has no company.
func UserCompanyID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.CompanyID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.CompanyID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// RequireCapability is route middleware that admits only users whose resolved
// role carries the capability. Unauthenticated requests go to /login, signed-in
// users without the capability to /forbidden (API callers get plain 401/403).
func RequireCapability(cap Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.CurrentUser(r)
			if !ok {
				ret := url.QueryEscape(r.URL.RequestURI())
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/login?return="+ret)
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				if acceptsHTML(r) {
					http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !HasCapability(ResolveRole(user.Role), cap) {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if acceptsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
