package analytics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/opshub/internal/app/features/analytics"
	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*analytics.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	handler := analytics.NewHandler(db, errLog, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestServeAnalytics_Smoke(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	co := fixtures.CreateCompany(ctx, "Acme Corp")
	project := fixtures.CreateProject(ctx, "Billing System", co.ID, "in_progress")
	dev := fixtures.CreateDeveloper(ctx, "Dana Rivers", "dana@opshub.test")
	fixtures.CreateTimeEntry(ctx, dev.ID, project.ID, time.Now().UTC(), 6)
	fixtures.CreateTicket(ctx, "Fix invoice rounding", project.ID, "open")
	fixtures.CreateTicket(ctx, "Update logo", project.ID, "resolved")

	sessionUser := &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test KAM",
		Email: "kam@test.com",
		Role:  "kam",
	}

	req := httptest.NewRequest("GET", "/analytics?window=month", nil)
	req = auth.WithTestUser(req, sessionUser)
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("recovered from panic (expected - template not initialized): %v", r)
			}
		}()
		handler.ServeAnalytics(rec, req)
	}()
}

func TestServeAnalytics_EmptyDatabase(t *testing.T) {
	handler, _ := newTestHandler(t)

	sessionUser := &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  "admin",
	}

	req := httptest.NewRequest("GET", "/analytics", nil)
	req = auth.WithTestUser(req, sessionUser)
	rec := httptest.NewRecorder()

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("recovered from panic (expected - template not initialized): %v", r)
			}
		}()
		handler.ServeAnalytics(rec, req)
	}()
}
