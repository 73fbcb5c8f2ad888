package metricsstore_test

import (
	"testing"

	metricsstore "github.com/dalemusser/opshub/internal/app/store/metrics"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/opshub/internal/testutil"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, db, nil)

	if counts.Companies != 0 {
		t.Errorf("Companies: got %d, want 0", counts.Companies)
	}
	if counts.Projects != 0 {
		t.Errorf("Projects: got %d, want 0", counts.Projects)
	}
	if counts.OpenTickets != 0 {
		t.Errorf("OpenTickets: got %d, want 0", counts.OpenTickets)
	}
	if counts.Staff != 0 {
		t.Errorf("Staff: got %d, want 0", counts.Staff)
	}
	if counts.Customers != 0 {
		t.Errorf("Customers: got %d, want 0", counts.Customers)
	}
}

func TestFetchDashboardCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co1 := fixtures.CreateCompany(ctx, "Company One")
	co2 := fixtures.CreateCompany(ctx, "Company Two")

	// Staff (4) and customers (1)
	fixtures.CreateAdmin(ctx, "Admin One", "admin1@example.com")
	fixtures.CreateKAM(ctx, "KAM One", "kam1@example.com")
	fixtures.CreateLeader(ctx, "Leader One", "leader1@example.com")
	fixtures.CreateDeveloper(ctx, "Dev One", "dev1@example.com")
	fixtures.CreateCustomer(ctx, "Customer One", "customer1@example.com", co1.ID)

	// Projects: 2 in progress, 1 completed
	p1 := fixtures.CreateProject(ctx, "Project One", co1.ID, models.ProjectInProgress)
	fixtures.CreateProject(ctx, "Project Two", co2.ID, models.ProjectInProgress)
	fixtures.CreateProject(ctx, "Project Three", co1.ID, models.ProjectCompleted)

	// Tickets: 2 open-ish, 1 resolved
	fixtures.CreateTicket(ctx, "Ticket One", p1.ID, models.TicketOpen)
	fixtures.CreateTicket(ctx, "Ticket Two", p1.ID, models.TicketInProgress)
	fixtures.CreateTicket(ctx, "Ticket Three", p1.ID, models.TicketResolved)

	counts := metricsstore.FetchDashboardCounts(ctx, db, nil)

	if counts.Companies != 2 {
		t.Errorf("Companies: got %d, want 2", counts.Companies)
	}
	if counts.Projects != 3 {
		t.Errorf("Projects: got %d, want 3", counts.Projects)
	}
	if counts.ActiveProjects != 2 {
		t.Errorf("ActiveProjects: got %d, want 2", counts.ActiveProjects)
	}
	if counts.OpenTickets != 2 {
		t.Errorf("OpenTickets: got %d, want 2", counts.OpenTickets)
	}
	if counts.Staff != 4 {
		t.Errorf("Staff: got %d, want 4", counts.Staff)
	}
	if counts.Customers != 1 {
		t.Errorf("Customers: got %d, want 1", counts.Customers)
	}
}

func TestFetchDashboardCounts_CompanyScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co1 := fixtures.CreateCompany(ctx, "Scoped One")
	co2 := fixtures.CreateCompany(ctx, "Scoped Two")

	fixtures.CreateProject(ctx, "Mine", co1.ID, models.ProjectInProgress)
	fixtures.CreateProject(ctx, "Theirs A", co2.ID, models.ProjectInProgress)
	fixtures.CreateProject(ctx, "Theirs B", co2.ID, models.ProjectPlanning)

	counts := metricsstore.FetchDashboardCounts(ctx, db, &co1.ID)

	if counts.Projects != 1 {
		t.Errorf("Projects: got %d, want 1", counts.Projects)
	}
	if counts.ActiveProjects != 1 {
		t.Errorf("ActiveProjects: got %d, want 1", counts.ActiveProjects)
	}
}
