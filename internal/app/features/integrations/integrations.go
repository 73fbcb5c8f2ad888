// internal/app/features/integrations/integrations.go
package integrations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	integrationstore "github.com/dalemusser/opshub/internal/app/store/integrations"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/navigation"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const lastSyncLayout = "2006-01-02 15:04 MST"

// createIntegrationInput defines validation rules for adding an integration.
type createIntegrationInput struct {
	Name       string `validate:"required,max=100" label:"Name"`
	WebhookURL string `validate:"httpurl,max=500" label:"Webhook URL"`
}

func badIntegrationID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "That integration link is not valid.", "/integrations")
}

// ServeList handles GET /integrations.
// Authorization: RequireCapability(CapManageIntegrations) middleware in routes.go.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Integrations.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list integrations failed", err, "Unable to load integrations.", "")
		return
	}

	items := make([]listItem, 0, len(rows))
	for _, in := range rows {
		item := listItem{
			ID:     in.ID,
			Name:   in.Name,
			Kind:   in.Kind,
			Status: in.Status,
		}
		if in.LastSyncAt != nil {
			item.LastSync = in.LastSyncAt.UTC().Format(lastSyncLayout)
		}
		items = append(items, item)
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Integrations", "/dashboard"),
		Items:  items,
	}

	templates.Render(w, r, "integrations_list", data)
}

// ServeNew renders the "Add Integration" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newData{
		Kind:  models.IntegrationWebhook,
		Kinds: models.IntegrationKinds,
	}
	formutil.SetBase(&data.Base, r, h.DB, "Add Integration", "/integrations")

	templates.Render(w, r, "integration_new", data)
}

// HandleCreate processes the Add Integration form submission. New
// integrations start out disconnected until their first sync.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/integrations")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	kind := strings.TrimSpace(r.FormValue("kind"))
	webhookURL := strings.TrimSpace(r.FormValue("webhook_url"))

	renderWithError := func(msg string) {
		data := newData{
			Name:       name,
			Kind:       kind,
			WebhookURL: webhookURL,
			Kinds:      models.IntegrationKinds,
		}
		formutil.SetBase(&data.Base, r, h.DB, "Add Integration", "/integrations")
		data.SetError(msg)
		templates.Render(w, r, "integration_new", data)
	}

	input := createIntegrationInput{Name: name, WebhookURL: webhookURL}
	if result := inputval.Validate(input); result.HasErrors() {
		renderWithError(result.First())
		return
	}

	in := models.Integration{Name: name, Kind: kind}
	if webhookURL != "" {
		in.Config = map[string]string{"webhook_url": webhookURL}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Integrations.Create(ctx, in)
	if err != nil {
		if errors.Is(err, integrationstore.ErrDuplicateIntegration) {
			renderWithError("An integration with this name already exists.")
			return
		}
		renderWithError("Check the integration kind and try again.")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.IntegrationCreated(ctx, r, actorID, created.ID, string(actorRole), created.Kind, created.Name)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.IntegrationsBackURL), http.StatusSeeOther)
}

// HandleStatus flips an integration between connected and disconnected.
// POST /integrations/{id}/status with status=connected|disconnected.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badIntegrationID(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/integrations")
		return
	}
	next := strings.TrimSpace(r.FormValue("status"))
	if next != models.IntegrationConnected && next != models.IntegrationDisconnected {
		uierrors.RenderBadRequest(w, r, "That is not a valid connection state.", "/integrations")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Integrations.GetByID(ctx, id)
	if err != nil {
		badIntegrationID(w, r)
		return
	}

	if err := h.Integrations.SetStatus(ctx, id, next); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			badIntegrationID(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "set integration status failed", err, "Unable to change the connection state.", "/integrations")
		return
	}

	if next != current.Status {
		actorRole, _, actorID, _ := authz.UserCtx(r)
		h.AuditLog.IntegrationStatusChanged(ctx, r, actorID, id, string(actorRole), current.Status, next)
	}

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.IntegrationsBackURL), http.StatusSeeOther)
}

// HandleDelete removes an integration.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badIntegrationID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Integrations.GetByID(ctx, id)
	if err != nil {
		// Already gone; treat the delete as done.
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.IntegrationsBackURL), http.StatusSeeOther)
		return
	}

	if _, err := h.Integrations.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete integration failed", err, "Unable to remove the integration.", "/integrations")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.IntegrationDeleted(ctx, r, actorID, id, string(actorRole), current.Name)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.IntegrationsBackURL), http.StatusSeeOther)
}
