package apiportal_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/opshub/internal/app/features/apiportal"
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	apikeystore "github.com/dalemusser/opshub/internal/app/store/apikeys"
	"github.com/dalemusser/opshub/internal/app/store/audit"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*apiportal.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:     "db",
		Admin:    "db",
		Security: "db",
	})
	handler := apiportal.NewHandler(db, errLog, auditLogger, logger)
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

func TestHandleCreate_StoresHashNotSecret(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()

	form := url.Values{
		"name":   {"CI pipeline"},
		"scopes": {"tickets:read", "tickets:write"},
	}

	req := adminRequest(postForm("/api-portal", form))
	rec := httptest.NewRecorder()

	// The one-time secret page render panics without registered templates;
	// the key is written before that point.
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("recovered from panic (expected - template not initialized): %v", r)
			}
		}()
		handler.HandleCreate(rec, req)
	}()

	var doc bson.M
	if err := db.Collection("api_keys").FindOne(ctx, bson.M{"name": "CI pipeline"}).Decode(&doc); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}

	hash, _ := doc["key_hash"].(string)
	if len(hash) != 64 {
		t.Errorf("expected a sha256 hex hash, got %q", hash)
	}
	prefix, _ := doc["prefix"].(string)
	if !strings.HasPrefix(prefix, "ohk_") {
		t.Errorf("expected an ohk_ prefix, got %q", prefix)
	}
	if strings.Contains(hash, "ohk_") {
		t.Error("the stored hash must not contain the plaintext secret")
	}

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": "api_key_created"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 api_key_created audit event, got %d", n)
	}
}

func TestHandleCreate_NoScopesRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()

	form := url.Values{"name": {"CI pipeline"}}

	req := adminRequest(postForm("/api-portal", form))
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("recovered from panic (expected - template not initialized): %v", r)
			}
		}()
		handler.HandleCreate(rec, req)
	}()

	count, err := db.Collection("api_keys").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no keys without scopes, found %d", count)
	}
}

func TestHandleRevoke_DeactivatesKey(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	store := apikeystore.New(db)
	key, secret, err := store.Generate(ctx, "CI pipeline", []string{"tickets:read"}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	req := adminRequest(postForm("/api-portal/"+key.ID.Hex()+"/revoke", url.Values{}))
	req = testutil.WithChiURLParam(req, "id", key.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleRevoke(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	if _, err := store.Authenticate(ctx, secret); err != apikeystore.ErrKeyNotFound {
		t.Errorf("expected revoked key to fail authentication, got %v", err)
	}

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": "api_key_revoked"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 api_key_revoked audit event, got %d", n)
	}
}

func TestHandleRevoke_SecondRevokeIsIdempotent(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	store := apikeystore.New(db)
	key, _, err := store.Generate(ctx, "CI pipeline", []string{"tickets:read"}, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := store.Revoke(ctx, key.ID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	req := adminRequest(postForm("/api-portal/"+key.ID.Hex()+"/revoke", url.Values{}))
	req = testutil.WithChiURLParam(req, "id", key.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleRevoke(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": "api_key_revoked"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no audit event for an already revoked key, got %d", n)
	}
}
