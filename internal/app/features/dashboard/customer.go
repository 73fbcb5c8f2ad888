// internal/app/features/dashboard/customer.go
package dashboard

import (
	"context"
	"net/http"

	documentstore "github.com/dalemusser/opshub/internal/app/store/documents"
	projectstore "github.com/dalemusser/opshub/internal/app/store/projects"
	ticketstore "github.com/dalemusser/opshub/internal/app/store/tickets"
	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type customerData struct {
	baseDashboardData
	Projects      []projectRow
	OpenTickets   int
	DocumentCount int64
}

func (h *Handler) ServeCustomer(w http.ResponseWriter, r *http.Request) {
	companyID := authz.UserCompanyID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := customerData{
		baseDashboardData: baseDashboardData{
			BaseVM: viewdata.NewBaseVM(r, h.DB, "Dashboard", "/"),
		},
	}

	// A customer contact without a company sees an empty dashboard rather
	// than an error.
	if companyID.IsZero() {
		templates.Render(w, r, "customer_dashboard", data)
		return
	}

	projects, err := projectstore.New(h.DB).Find(ctx,
		projectstore.ListFilter{CompanyID: &companyID}, 0, 0)
	if err != nil {
		h.Log.Warn("customer dashboard: load projects", zap.Error(err))
	}

	tickets := ticketstore.New(h.DB)
	projectIDs := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)

		row := projectRow{
			ID:    p.ID.Hex(),
			Name:  p.Name,
			State: p.State,
		}
		if ts, err := tickets.Find(ctx, ticketstore.ListFilter{ProjectID: &p.ID}, 0, 0); err == nil {
			row.ProgressPercent = aggregate.TicketProgress(ts)
			open := aggregate.CountBy(ts, func(t models.Ticket) bool { return !t.IsDone() })
			row.OpenTickets = open
			data.OpenTickets += open
		}
		data.Projects = append(data.Projects, row)
	}

	if len(projectIDs) > 0 {
		if n, err := documentstore.New(h.DB).Count(ctx,
			documentstore.ListFilter{ProjectIDs: projectIDs}); err == nil {
			data.DocumentCount = n
		}
	}

	h.Log.Debug("customer dashboard served", zap.String("user", data.UserName))

	templates.Render(w, r, "customer_dashboard", data)
}
