package companystore_test

import (
	"testing"

	companystore "github.com/dalemusser/opshub/internal/app/store/companies"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/opshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := companystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co := models.Company{
		Name:         "Test Company",
		ContactName:  "Jane Smith",
		ContactEmail: "Jane@Example.Com",
		Industry:     "logistics",
	}

	created, err := store.Create(ctx, co)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.ContactEmail != "jane@example.com" {
		t.Errorf("ContactEmail: got %q, want normalized lowercase", created.ContactEmail)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if created.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := companystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co := models.Company{
		Name:     "Duplicate Test",
		Industry: "finance",
	}

	_, err := store.Create(ctx, co)
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err = store.Create(ctx, co)
	if err != companystore.ErrDuplicateCompany {
		t.Errorf("expected ErrDuplicateCompany, got %v", err)
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := companystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co := models.Company{
		Name:         "GetByID Test",
		ContactName:  "Pat Jones",
		ContactEmail: "pat@example.com",
		Industry:     "healthcare",
	}
	created, err := store.Create(ctx, co)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if found.Name != created.Name {
		t.Errorf("Name: got %q, want %q", found.Name, created.Name)
	}
	if found.ContactName != created.ContactName {
		t.Errorf("ContactName: got %q, want %q", found.ContactName, created.ContactName)
	}
	if found.ContactEmail != created.ContactEmail {
		t.Errorf("ContactEmail: got %q, want %q", found.ContactEmail, created.ContactEmail)
	}
	if found.Industry != created.Industry {
		t.Errorf("Industry: got %q, want %q", found.Industry, created.Industry)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := companystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fakeID := primitive.NewObjectID()
	_, err := store.GetByID(ctx, fakeID)
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_Create_CaseInsensitiveName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := companystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co := models.Company{
		Name:     "Société Générale d'Études",
		Industry: "consulting",
	}

	created, err := store.Create(ctx, co)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.NameCI != "societe generale d'etudes" {
		t.Errorf("NameCI: got %q, want %q", created.NameCI, "societe generale d'etudes")
	}
}
