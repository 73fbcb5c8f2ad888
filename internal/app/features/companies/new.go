// internal/app/features/companies/new.go
package companies

import (
	"context"
	"errors"
	"net/http"
	"strings"

	companystore "github.com/dalemusser/opshub/internal/app/store/companies"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// createCompanyInput defines validation rules for registering a company.
type createCompanyInput struct {
	Name         string `validate:"required,max=200" label:"Company name"`
	ContactName  string `validate:"max=200" label:"Contact name"`
	ContactEmail string `validate:"email,max=320" label:"Contact email"`
	Industry     string `validate:"max=100" label:"Industry"`
}

// ServeNew renders the "New Company" form.
// Authorization: RequireCapability(CapManageCompanies) middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newData{}
	formutil.SetBase(&data.Base, r, h.DB, "New Company", "/companies")

	templates.Render(w, r, "company_new", data)
}

// HandleCreate processes the New Company form submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/companies")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	contactName := strings.TrimSpace(r.FormValue("contact_name"))
	contactEmail := strings.TrimSpace(r.FormValue("contact_email"))
	industry := strings.TrimSpace(r.FormValue("industry"))

	renderWithError := func(msg string) {
		data := newData{
			Name:         name,
			ContactName:  contactName,
			ContactEmail: contactEmail,
			Industry:     industry,
		}
		formutil.SetBase(&data.Base, r, h.DB, "New Company", "/companies")
		data.SetError(msg)
		templates.Render(w, r, "company_new", data)
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Companies.Create(ctx, models.Company{
		Name:         name,
		ContactName:  contactName,
		ContactEmail: contactEmail,
		Industry:     industry,
	})
	if err != nil {
		if errors.Is(err, companystore.ErrDuplicateCompany) {
			renderWithError("A company with this name already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create company failed", err, "Unable to register the company.", "/companies")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.CompanyCreated(ctx, r, actorID, created.ID, string(actorRole), created.Name)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CompaniesBackURL), http.StatusSeeOther)
}
