// internal/app/features/team/new.go
package team

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// createUserInput defines validation rules for creating an account.
type createUserInput struct {
	FullName   string `validate:"required,max=200" label:"Full name"`
	Email      string `validate:"required,email,max=320" label:"Email"`
	AuthMethod string `validate:"required,authmethod" label:"Sign-in method"`
}

// minPasswordLength matches the login form's requirement.
const minPasswordLength = 8

// ServeNew renders the "New Account" form.
// Authorization: RequireCapability(CapManageTeam) middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := newData{
		AuthMethod: "password",
		Roles:      roleNames,
		Companies:  h.companyOptions(ctx),
	}
	formutil.SetBase(&data.Base, r, h.DB, "New Account", "/team")

	templates.Render(w, r, "team_new", data)
}

// HandleCreate processes the New Account form submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/team")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	roleVal := strings.TrimSpace(r.FormValue("role"))
	authMethod := strings.TrimSpace(r.FormValue("auth_method"))
	companyHex := strings.TrimSpace(r.FormValue("company"))
	password := r.FormValue("password")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renderWithError := func(msg string) {
		data := newData{
			FullName:   fullName,
			Email:      email,
			Role:       roleVal,
			AuthMethod: authMethod,
			CompanyID:  companyHex,
			Roles:      roleNames,
			Companies:  h.companyOptions(ctx),
		}
		formutil.SetBase(&data.Base, r, h.DB, "New Account", "/team")
		data.SetError(msg)
		templates.Render(w, r, "team_new", data)
	}

	input := createUserInput{FullName: fullName, Email: email, AuthMethod: authMethod}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	user := models.User{
		FullName:   fullName,
		Email:      email,
		Role:       roleVal,
		AuthMethod: authMethod,
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
		if _, err := h.Companies.GetByID(ctx, companyID); err != nil {
			renderWithError("That company no longer exists.")
			return
		}
		user.CompanyID = &companyID
	}

	if authMethod == "password" && len(password) < minPasswordLength {
		renderWithError("Password must be at least 8 characters.")
		return
	}

	created, err := h.Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			renderWithError("An account with this email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Unable to create the account.", "/team")
		return
	}

	if authMethod == "password" {
		if err := h.Users.SetPassword(ctx, created.ID, password); err != nil {
			h.ErrLog.LogServerError(w, r, "set password failed", err, "The account was created but the password could not be set.", "/team")
			return
		}
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.UserCreated(ctx, r, actorID, created.ID, string(actorRole), created.Role)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.TeamBackURL), http.StatusSeeOther)
}

func (h *Handler) companyOptions(ctx context.Context) []companyOption {
	companies, err := h.Companies.Find(ctx, bson.M{})
	if err != nil {
		return nil
	}
	out := make([]companyOption, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyOption{ID: c.ID.Hex(), Name: c.Name})
	}
	return out
}
