package documents_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/opshub/internal/app/features/documents"
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	"github.com/dalemusser/opshub/internal/app/store/audit"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*documents.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  "db",
		Admin: "db",
	})
	handler := documents.NewHandler(db, errLog, auditLogger, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func leaderRequest(r *http.Request) *http.Request {
	user := &auth.SessionUser{
		ID:    "507f1f77bcf86cd799439033",
		Name:  "Test Leader",
		Email: "leader@test.com",
		Role:  "leader",
	}
	return auth.WithTestUser(r, user)
}

// multipartRequest builds a multipart POST carrying the given form fields and
// one small attached file.
func multipartRequest(t *testing.T, target, fileName string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := fw.Write([]byte("file body")); err != nil {
			t.Fatalf("write file body failed: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}
	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleCreate_StoresSanitizedDescription(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")
	p := fixtures.CreateProject(ctx, "Billing System", co.ID, "in_progress")

	req := multipartRequest(t, "/documents", "spec.pdf", map[string]string{
		"name":        "Billing spec",
		"project":     p.ID.Hex(),
		"category":    "specification",
		"description": `<p>Signed off</p><script>alert("x")</script>`,
	})
	req = leaderRequest(req)
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	var doc bson.M
	if err := db.Collection("documents").FindOne(ctx, bson.M{"name": "Billing spec"}).Decode(&doc); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	desc, _ := doc["description"].(string)
	if strings.Contains(desc, "<script") {
		t.Errorf("description not sanitized: %q", desc)
	}
	if !strings.Contains(desc, "Signed off") {
		t.Errorf("safe content lost during sanitization: %q", desc)
	}
	path, _ := doc["path"].(string)
	if !strings.HasPrefix(path, "documents/") || !strings.HasSuffix(path, ".pdf") {
		t.Errorf("path: got %q, want a generated documents/ path keeping the .pdf extension", path)
	}

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": "document_uploaded"})
	if err != nil {
		t.Fatalf("CountDocuments audit failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document_uploaded audit event, got %d", n)
	}
}

func TestHandleCreate_NameDefaultsToFileName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")
	p := fixtures.CreateProject(ctx, "Billing System", co.ID, "in_progress")

	req := multipartRequest(t, "/documents", "q3-report.xlsx", map[string]string{
		"project":  p.ID.Hex(),
		"category": "report",
	})
	req = leaderRequest(req)
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	count, err := db.Collection("documents").CountDocuments(ctx, bson.M{"name": "q3-report.xlsx"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected document named after the file, got %d matches", count)
	}
}

func TestHandleCreate_MissingProject(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()

	req := multipartRequest(t, "/documents", "spec.pdf", map[string]string{
		"name": "Orphan doc",
	})
	req = leaderRequest(req)
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("recovered from panic (expected - template not initialized): %v", r)
			}
		}()
		handler.HandleCreate(rec, req)
	}()

	count, err := db.Collection("documents").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 documents (validation should fail), got %d", count)
	}
}

func TestHandleDelete_RemovesDocument(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	co := fixtures.CreateCompany(ctx, "Acme Corp")
	p := fixtures.CreateProject(ctx, "Billing System", co.ID, "in_progress")
	d := fixtures.CreateDocument(ctx, "Billing spec", p.ID, "specification")

	form := url.Values{}
	req := httptest.NewRequest("POST", "/documents/"+d.ID.Hex()+"/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = leaderRequest(req)
	req = testutil.WithChiURLParam(req, "id", d.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	count, err := db.Collection("documents").CountDocuments(ctx, bson.M{"_id": d.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected document to be deleted, found %d", count)
	}
}
