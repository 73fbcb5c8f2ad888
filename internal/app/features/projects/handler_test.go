package projects_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	"github.com/dalemusser/opshub/internal/app/features/projects"
	"github.com/dalemusser/opshub/internal/app/store/audit"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*projects.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  "db",
		Admin: "db",
	})
	handler := projects.NewHandler(db, errLog, auditLogger, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func adminRequest(r *http.Request) *http.Request {
	user := &auth.SessionUser{
		ID:    "507f1f77bcf86cd799439011",
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  "admin",
	}
	return auth.WithTestUser(r, user)
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleCreate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")

	form := url.Values{
		"name":        {"Billing System"},
		"company":     {co.ID.Hex()},
		"description": {"Replatform of the billing stack."},
		"start_date":  {"2026-02-01"},
	}

	req := adminRequest(postForm("/projects", form))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	count, err := db.Collection("projects").CountDocuments(ctx, bson.M{"name": "Billing System"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 project, got %d", count)
	}

	// New projects start in planning.
	var doc bson.M
	if err := db.Collection("projects").FindOne(ctx, bson.M{"name": "Billing System"}).Decode(&doc); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if doc["state"] != "planning" {
		t.Errorf("state: got %v, want planning", doc["state"])
	}

	// Creation is audited.
	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": "project_created"})
	if err != nil {
		t.Fatalf("CountDocuments audit failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 project_created audit event, got %d", n)
	}
}

func TestHandleCreate_MissingName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")

	form := url.Values{
		"company": {co.ID.Hex()},
	}

	req := adminRequest(postForm("/projects", form))
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("recovered from panic (expected - template not initialized): %v", r)
			}
		}()
		handler.HandleCreate(rec, req)
	}()

	count, err := db.Collection("projects").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 projects (validation should fail), got %d", count)
	}
}

func TestHandleCreate_DuplicateNameForCompany(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")
	fixtures.CreateProject(ctx, "Billing System", co.ID, "planning")

	form := url.Values{
		"name":    {"Billing System"},
		"company": {co.ID.Hex()},
	}

	req := adminRequest(postForm("/projects", form))
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("recovered from panic (expected - template not initialized): %v", r)
			}
		}()
		handler.HandleCreate(rec, req)
	}()

	count, err := db.Collection("projects").CountDocuments(ctx, bson.M{"name": "Billing System"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected duplicate to be rejected, found %d projects", count)
	}
}

func TestHandleEdit_StateChangeIsAudited(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")
	p := fixtures.CreateProject(ctx, "Billing System", co.ID, "planning")

	form := url.Values{
		"name":  {"Billing System"},
		"state": {"in_progress"},
	}

	req := adminRequest(postForm("/projects/"+p.ID.Hex()+"/edit", form))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleEdit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	var doc bson.M
	if err := db.Collection("projects").FindOne(ctx, bson.M{"_id": p.ID}).Decode(&doc); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if doc["state"] != "in_progress" {
		t.Errorf("state: got %v, want in_progress", doc["state"])
	}

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": "project_state_changed"})
	if err != nil {
		t.Fatalf("CountDocuments audit failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 project_state_changed audit event, got %d", n)
	}
}

func TestHandleDelete_RemovesProject(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")
	p := fixtures.CreateProject(ctx, "Billing System", co.ID, "planning")

	req := adminRequest(postForm("/projects/"+p.ID.Hex()+"/delete", url.Values{}))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	count, err := db.Collection("projects").CountDocuments(ctx, bson.M{"_id": p.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected project to be deleted, found %d", count)
	}
}

func TestHandleDelete_BadID(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := adminRequest(postForm("/projects/nonsense/delete", url.Values{}))
	req = testutil.WithChiURLParam(req, "id", "nonsense")
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }()
		handler.HandleDelete(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("bad id should not redirect as success")
	}
}

func TestHandleDelete_MissingProjectIsIdempotent(t *testing.T) {
	handler, _ := newTestHandler(t)

	id := primitive.NewObjectID()
	req := adminRequest(postForm("/projects/"+id.Hex()+"/delete", url.Values{}))
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
}
