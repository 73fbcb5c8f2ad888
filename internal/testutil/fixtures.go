package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCompany creates a test company with the given name.
// Returns the created company with its generated ID.
func (f *Fixtures) CreateCompany(ctx context.Context, name string) models.Company {
	f.t.Helper()

	now := time.Now().UTC()
	co := models.Company{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		ContactName:  "Test Contact",
		ContactEmail: "contact@example.com",
		Industry:     "testing",
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("companies").InsertOne(ctx, co); err != nil {
		f.t.Fatalf("failed to create test company: %v", err)
	}
	return co
}

// CreateUser creates a test user with the given parameters.
// For customers, companyID must be provided.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, companyID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: "password",
		Role:       role,
		Status:     "active",
		CompanyID:  companyID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin", nil)
}

// CreateKAM creates a test key-account-manager user.
func (f *Fixtures) CreateKAM(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "kam", nil)
}

// CreateLeader creates a test project leader.
func (f *Fixtures) CreateLeader(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "leader", nil)
}

// CreateDeveloper creates a test developer.
func (f *Fixtures) CreateDeveloper(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "developer", nil)
}

// CreateCustomer creates a test customer contact scoped to a company.
func (f *Fixtures) CreateCustomer(ctx context.Context, fullName, email string, companyID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "customer", &companyID)
}

// CreateProject creates a test project for the given company.
func (f *Fixtures) CreateProject(ctx context.Context, name string, companyID primitive.ObjectID, state string) models.Project {
	f.t.Helper()

	if state == "" {
		state = models.ProjectInProgress
	}
	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		CompanyID: companyID,
		Name:      name,
		NameCI:    text.Fold(name),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateTicket creates a test ticket on the given project.
func (f *Fixtures) CreateTicket(ctx context.Context, title string, projectID primitive.ObjectID, state string) models.Ticket {
	f.t.Helper()

	if state == "" {
		state = models.TicketOpen
	}
	now := time.Now().UTC()
	tk := models.Ticket{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Title:     title,
		TitleCI:   text.Fold(title),
		State:     state,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tk.State == models.TicketResolved || tk.State == models.TicketClosed {
		resolved := now
		tk.ResolvedAt = &resolved
	}

	if _, err := f.db.Collection("tickets").InsertOne(ctx, tk); err != nil {
		f.t.Fatalf("failed to create test ticket: %v", err)
	}
	return tk
}

// CreateTimeEntry creates a test time entry for the given user and project.
// The date is truncated to its UTC calendar day, matching store behavior.
func (f *Fixtures) CreateTimeEntry(ctx context.Context, userID, projectID primitive.ObjectID, date time.Time, hours float64) models.TimeEntry {
	f.t.Helper()

	d := date.UTC()
	now := time.Now().UTC()
	e := models.TimeEntry{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		Date:      time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		Hours:     hours,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("time_entries").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test time entry: %v", err)
	}
	return e
}

// CreateDocument creates a test document attached to a project.
func (f *Fixtures) CreateDocument(ctx context.Context, name string, projectID primitive.ObjectID, category string) models.Document {
	f.t.Helper()

	if category == "" {
		category = models.DocOther
	}
	now := time.Now().UTC()
	d := models.Document{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Name:      name,
		NameCI:    text.Fold(name),
		Category:  category,
		Path:      "test/" + primitive.NewObjectID().Hex(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("documents").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test document: %v", err)
	}
	return d
}
