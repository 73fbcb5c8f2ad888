// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// ServeDashboard handles GET /dashboard. An optional ?page= parameter jumps
// straight to an entity page; otherwise (or for anything unrecognized) the
// signed-in role's overview is rendered.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := PageID(query.Get(r, "page"))
	if page == "" {
		page = PageOverview
	}

	view := SelectView(role, page)
	if view.Path != "" {
		http.Redirect(w, r, view.Path, http.StatusSeeOther)
		return
	}

	switch view.Template {
	case "admin_dashboard":
		h.ServeAdmin(w, r)
	case "kam_dashboard":
		h.ServeKAM(w, r)
	case "leader_dashboard":
		h.ServeLeader(w, r)
	case "developer_dashboard":
		h.ServeDeveloper(w, r)
	default:
		h.ServeCustomer(w, r)
	}
}
