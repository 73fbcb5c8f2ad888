package metricsstore

import (
	"context"

	"github.com/dalemusser/opshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals used by dashboards (admin, KAM, etc.).
type Counts struct {
	Companies      int64
	Projects       int64
	ActiveProjects int64
	OpenTickets    int64
	Staff          int64
	Customers      int64
	UnreadMessages int64
}

// staffRoles are the roles counted in the Staff total.
var staffRoles = []string{"admin", "kam", "leader", "developer"}

// FetchDashboardCounts returns the high-level counts used by dashboards.
// Intentionally tolerant: on error it returns 0 for that counter.
// When companyID is non-nil, project counts are scoped to that company;
// the remaining totals are site-wide and only shown on staff dashboards.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database, companyID *primitive.ObjectID) Counts {
	var out Counts

	// companies
	if n, err := db.Collection("companies").CountDocuments(ctx, bson.M{}); err == nil {
		out.Companies = n
	}

	// projects
	projFilter := bson.M{}
	if companyID != nil {
		projFilter["company_id"] = *companyID
	}
	if n, err := db.Collection("projects").CountDocuments(ctx, projFilter); err == nil {
		out.Projects = n
	}

	activeFilter := bson.M{"state": models.ProjectInProgress}
	if companyID != nil {
		activeFilter["company_id"] = *companyID
	}
	if n, err := db.Collection("projects").CountDocuments(ctx, activeFilter); err == nil {
		out.ActiveProjects = n
	}

	// open tickets (open or in_progress)
	ticketFilter := bson.M{"state": bson.M{"$in": []string{models.TicketOpen, models.TicketInProgress}}}
	if n, err := db.Collection("tickets").CountDocuments(ctx, ticketFilter); err == nil {
		out.OpenTickets = n
	}

	// staff
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": bson.M{"$in": staffRoles}}); err == nil {
		out.Staff = n
	}

	// customers
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "customer"}); err == nil {
		out.Customers = n
	}

	// unread contact messages
	if n, err := db.Collection("messages").CountDocuments(ctx, bson.M{"read": false}); err == nil {
		out.UnreadMessages = n
	}

	return out
}
