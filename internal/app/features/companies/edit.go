// internal/app/features/companies/edit.go
package companies

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	companystore "github.com/dalemusser/opshub/internal/app/store/companies"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/status"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func badCompanyID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "That company link is not valid.", "/companies")
}

// ServeEdit renders the edit form for one company.
// Authorization: RequireCapability(CapManageCompanies) middleware in routes.go.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badCompanyID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	co, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		badCompanyID(w, r)
		return
	}

	data := editData{
		ID:           co.ID.Hex(),
		Name:         co.Name,
		ContactName:  co.ContactName,
		ContactEmail: co.ContactEmail,
		Industry:     co.Industry,
		Status:       co.Status,
	}
	formutil.SetBase(&data.Base, r, h.DB, "Edit Company", "/companies")

	templates.Render(w, r, "company_edit", data)
}

// HandleEdit processes the edit form.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badCompanyID(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/companies")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	contactName := strings.TrimSpace(r.FormValue("contact_name"))
	contactEmail := strings.TrimSpace(r.FormValue("contact_email"))
	industry := strings.TrimSpace(r.FormValue("industry"))
	statusVal := strings.TrimSpace(r.FormValue("status"))

	renderWithError := func(msg string) {
		data := editData{
			ID:           id.Hex(),
			Name:         name,
			ContactName:  contactName,
			ContactEmail: contactEmail,
			Industry:     industry,
			Status:       statusVal,
		}
		formutil.SetBase(&data.Base, r, h.DB, "Edit Company", "/companies")
		data.SetError(msg)
		templates.Render(w, r, "company_edit", data)
	}

	input := createCompanyInput{
		Name:         name,
		ContactName:  contactName,
		ContactEmail: contactEmail,
		Industry:     industry,
	}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}
	if statusVal != "" && !status.IsValid(statusVal) {
		renderWithError("Please pick a valid status.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Companies.Update(ctx, id, models.Company{
		Name:         name,
		ContactName:  contactName,
		ContactEmail: contactEmail,
		Industry:     industry,
		Status:       statusVal,
	})
	if err != nil {
		if errors.Is(err, companystore.ErrDuplicateCompany) {
			renderWithError("A company with this name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "update company failed", err, "Unable to save the company.", "/companies")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.CompanyUpdated(ctx, r, actorID, id, string(actorRole), "profile")

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CompaniesBackURL), http.StatusSeeOther)
}
