// internal/app/features/apiportal/keys.go
package apiportal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/inputval"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const keyTimeLayout = "2006-01-02 15:04 MST"

// apiScopes lists the grants a key can carry, in display order.
var apiScopes = []string{
	"projects:read",
	"tickets:read",
	"tickets:write",
	"documents:read",
}

type keyItem struct {
	ID       primitive.ObjectID
	Name     string
	Prefix   string
	Scopes   string
	Created  string
	LastUsed string
	Revoked  bool
}

type listData struct {
	viewdata.BaseVM

	Items  []keyItem
	Scopes []string
	Error  string
}

// createdData is rendered exactly once, right after key generation. It is
// the only place the full secret ever appears.
type createdData struct {
	viewdata.BaseVM

	Name   string
	Secret string
}

type createKeyInput struct {
	Name string `validate:"required,max=100" label:"Key name"`
}

func badKeyID(w http.ResponseWriter, r *http.Request) {
	uierrors.RenderBadRequest(w, r, "That key link is not valid.", "/api-portal")
}

// ServeList handles GET /api-portal.
// Authorization: RequireCapability(CapManageAPIKeys) middleware in routes.go.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	h.renderList(w, r, ctx, "")
}

// HandleCreate generates a new key and renders the one-time secret page.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/api-portal")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	scopes := validScopes(r.Form["scopes"])

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	input := createKeyInput{Name: name}
	if result := inputval.Validate(input); result.HasErrors() {
		h.renderList(w, r, ctx, result.First())
		return
	}
	if len(scopes) == 0 {
		h.renderList(w, r, ctx, "Pick at least one scope for the key.")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)

	key, secret, err := h.Keys.Generate(ctx, name, scopes, &actorID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "generate api key failed", err, "Unable to generate the key.", "/api-portal")
		return
	}

	h.AuditLog.APIKeyCreated(ctx, r, actorID, key.ID, string(actorRole), key.Name)

	data := createdData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "API Key Created", "/api-portal"),
		Name:   key.Name,
		Secret: secret,
	}
	templates.Render(w, r, "apikey_created", data)
}

// HandleRevoke permanently deactivates a key. Revoking an already revoked
// key redirects without a second audit event.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badKeyID(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Keys.GetByID(ctx, id)
	if err != nil {
		badKeyID(w, r)
		return
	}
	if !current.Active() {
		http.Redirect(w, r, "/api-portal", http.StatusSeeOther)
		return
	}

	if err := h.Keys.Revoke(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			badKeyID(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "revoke api key failed", err, "Unable to revoke the key.", "/api-portal")
		return
	}

	actorRole, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.APIKeyRevoked(ctx, r, actorID, id, string(actorRole))

	http.Redirect(w, r, "/api-portal", http.StatusSeeOther)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, ctx context.Context, errMsg string) {
	rows, err := h.Keys.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list api keys failed", err, "Unable to load the API portal.", "")
		return
	}

	items := make([]keyItem, 0, len(rows))
	for _, k := range rows {
		item := keyItem{
			ID:      k.ID,
			Name:    k.Name,
			Prefix:  k.Prefix,
			Scopes:  strings.Join(k.Scopes, ", "),
			Created: k.CreatedAt.UTC().Format(keyTimeLayout),
			Revoked: !k.Active(),
		}
		if k.LastUsedAt != nil {
			item.LastUsed = k.LastUsedAt.UTC().Format(keyTimeLayout)
		}
		items = append(items, item)
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "API Portal", "/dashboard"),
		Items:  items,
		Scopes: apiScopes,
		Error:  errMsg,
	}
	templates.Render(w, r, "apikeys_list", data)
}

func validScopes(requested []string) []string {
	var out []string
	for _, s := range requested {
		for _, known := range apiScopes {
			if s == known {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
