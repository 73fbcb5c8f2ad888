// internal/app/features/team/edit.go
package team

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/status"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// editUserInput defines validation rules for editing an account.
type editUserInput struct {
	FullName string `validate:"required,max=200" label:"Full name"`
	Email    string `validate:"required,email,max=320" label:"Email"`
}

func badUserID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "That account link is not valid.", "/team")
}

// ServeEdit renders the edit form for one account.
// Authorization: RequireCapability(CapManageTeam) middleware in routes.go.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badUserID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		badUserID(w, r)
		return
	}

	data := editData{
		ID:        user.ID.Hex(),
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		Roles:     roleNames,
		Companies: h.companyOptions(ctx),
	}
	if user.CompanyID != nil {
		data.CompanyID = user.CompanyID.Hex()
	}
	if user.WeeklyHoursGoal > 0 {
		data.WeeklyHoursGoal = strconv.FormatFloat(user.WeeklyHoursGoal, 'f', -1, 64)
	}
	formutil.SetBase(&data.Base, r, h.DB, "Edit Account", "/team")

	templates.Render(w, r, "team_edit", data)
}

// HandleEdit processes the edit form. Role changes are audited separately
// from other profile edits.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badUserID(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/team")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	roleVal := strings.TrimSpace(r.FormValue("role"))
	companyHex := strings.TrimSpace(r.FormValue("company"))
	goalStr := strings.TrimSpace(r.FormValue("weekly_hours_goal"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Users.GetByID(ctx, id)
	if err != nil {
		badUserID(w, r)
		return
	}

	renderWithError := func(msg string) {
		data := editData{
			ID:              id.Hex(),
			FullName:        fullName,
			Email:           email,
			Role:            roleVal,
			Status:          current.Status,
			CompanyID:       companyHex,
			WeeklyHoursGoal: goalStr,
			Roles:           roleNames,
			Companies:       h.companyOptions(ctx),
		}
		formutil.SetBase(&data.Base, r, h.DB, "Edit Account", "/team")
		data.SetError(msg)
		templates.Render(w, r, "team_edit", data)
	}

	input := editUserInput{FullName: fullName, Email: email}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	upd := userstore.Update{
		FullName: &fullName,
		Email:    &email,
	}

	roleChanged := roleVal != "" && roleVal != current.Role
	if roleChanged {
		upd.Role = &roleVal
	}

	if authz.ResolveRole(roleVal) == authz.RoleCustomer {
		if companyHex == "" {
			renderWithError("Customer contacts must belong to a company.")
			return
		}
		companyID, err := primitive.ObjectIDFromHex(companyHex)
		if err != nil {
			renderWithError("Please select a valid company.")
			return
		}
		cp := &companyID
		upd.CompanyID = &cp
	}

	if goalStr != "" {
		goal, err := strconv.ParseFloat(goalStr, 64)
		if err != nil || goal < 0 {
			renderWithError("Weekly hours goal must be a non-negative number.")
			return
		}
		upd.WeeklyHoursGoal = &goal
	}

	if err := h.Users.Update(ctx, id, upd); err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			renderWithError("An account with this email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "update user failed", err, "Unable to save the account.", "/team")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	if roleChanged {
		h.AuditLog.UserUpdated(ctx, r, actorID, id, string(actorRole), "role:"+current.Role+">"+roleVal)
	} else {
		h.AuditLog.UserUpdated(ctx, r, actorID, id, string(actorRole), "profile")
	}

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TeamBackURL), http.StatusSeeOther)
}

// HandleStatus flips an account between active and disabled.
// POST /team/{id}/status with status=active|disabled.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badUserID(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/team")
		return
	}
	next := strings.TrimSpace(r.FormValue("status"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actorRole, _, actorID, _ := authz.UserCtx(r)

	// Admins cannot lock themselves out.
	if id.Hex() == actorID.Hex() && next == status.Disabled {
		uierrors.RenderBadRequest(w, r, "You cannot disable your own account.", "/team")
		return
	}

	if err := h.Users.SetStatus(ctx, id, next); err != nil {
		h.ErrLog.LogServerError(w, r, "set user status failed", err, "Unable to change the account status.", "/team")
		return
	}

	if next == status.Disabled {
		h.AuditLog.UserDisabled(ctx, r, actorID, id, string(actorRole))
	} else {
		h.AuditLog.UserEnabled(ctx, r, actorID, id, string(actorRole))
	}

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TeamBackURL), http.StatusSeeOther)
}
