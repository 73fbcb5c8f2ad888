// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, rendering appropriate error
// pages when checks fail.
//
// # Three-Tier Authorization Pattern
//
// OpsHub uses a three-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, authz.RequireCapability)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles the capability check, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need checks WITHOUT route-level middleware, or
//     need a different capability than the route group. Gates render error
//     pages and return user context (role, name, userID).
//
//  3. Record-Level Scoping (stores + handlers)
//     Customers and KAMs only see records for their own companies; that
//     scoping is applied when the store query filter is built.
//
// Don't use gates in handlers behind capability middleware. If routes.go has
// authz.RequireCapability(authz.CapManageTeam), handlers use authz.UserCtx(r)
// to get user context without re-checking.
package gates

import (
	"net/http"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   authz.Role
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it renders an unauthorized error and returns OK=false.
// The loginURL parameter specifies where to redirect for login.
func RequireAuth(w http.ResponseWriter, r *http.Request, loginURL string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, loginURL)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireCapability ensures the user is authenticated and their resolved role
// carries the capability. If not authenticated, renders unauthorized error.
// If authenticated but lacking the capability, renders forbidden error with
// the provided message and fallback URL.
func RequireCapability(w http.ResponseWriter, r *http.Request, cap authz.Capability, forbiddenMsg, fallbackURL string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if !authz.HasCapability(role, cap) {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireStaff ensures the user is authenticated and holds any staff role.
// Customer contacts are turned away with the forbidden page.
func RequireStaff(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if !role.IsStaff() {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}
