package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/opshub/internal/app/store/audit"
	"github.com/dalemusser/opshub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestStore(t *testing.T) (*audit.Store, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)
	return audit.New(db), ctx
}

// mustLog inserts an event and fails the test on error, keeping the
// seed sections below readable.
func mustLog(t *testing.T, store *audit.Store, ctx context.Context, event audit.Event) {
	t.Helper()
	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
}

func TestStore_Log_RoundTrip(t *testing.T) {
	store, ctx := newTestStore(t)

	userID := primitive.NewObjectID()
	before := time.Now().Add(-time.Second)
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.0.2.10",
		UserAgent: "Mozilla/5.0",
		Success:   true,
		Details: map[string]string{
			"auth_method": "google",
			"email":       "maria@acmefab.example",
		},
	})
	after := time.Now().Add(time.Second)

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("expected timestamp to default to now, got %v", event.Timestamp)
	}
	if event.Details["auth_method"] != "google" {
		t.Errorf("auth_method detail: got %q, want %q", event.Details["auth_method"], "google")
	}
}

func TestStore_Log_KeepsExplicitTimestamp(t *testing.T) {
	store, ctx := newTestStore(t)

	logged := time.Date(2026, 8, 3, 9, 15, 0, 0, time.UTC)
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProjectStateChanged,
		Timestamp: logged,
		IP:        "192.0.2.10",
		Success:   true,
	})

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].Timestamp.Equal(logged) {
		t.Errorf("expected timestamp %v to survive, got %v", logged, events[0].Timestamp)
	}
}

func TestStore_GetByUser_ScopesToUser(t *testing.T) {
	store, ctx := newTestStore(t)

	maria := primitive.NewObjectID()
	devon := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			UserID:    &maria,
			IP:        "192.0.2.10",
			Success:   true,
		})
	}
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &devon,
		IP:        "192.0.2.11",
		Success:   true,
	})

	events, err := store.GetByUser(ctx, maria, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events for first user, got %d", len(events))
	}

	events, err = store.GetByUser(ctx, devon, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event for second user, got %d", len(events))
	}
}

func TestStore_GetByUser_Limit(t *testing.T) {
	store, ctx := newTestStore(t)

	userID := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			UserID:    &userID,
			IP:        "192.0.2.10",
			Success:   true,
		})
	}

	events, err := store.GetByUser(ctx, userID, 3)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}

func TestStore_GetRecent_NewestFirst(t *testing.T) {
	store, ctx := newTestStore(t)

	base := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	seed := []struct {
		eventType string
		at        time.Time
	}{
		{audit.EventTicketCreated, base},
		{audit.EventTicketStateChanged, base.Add(time.Hour)},
		{audit.EventTicketStateChanged, base.Add(2 * time.Hour)},
	}
	for _, s := range seed {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAdmin,
			EventType: s.eventType,
			Timestamp: s.at,
			IP:        "192.0.2.10",
			Success:   true,
		})
	}

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Errorf("events out of order: %v before %v", events[i-1].Timestamp, events[i].Timestamp)
		}
	}
}

func TestStore_GetRecent_Empty(t *testing.T) {
	store, ctx := newTestStore(t)

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

func TestStore_Query_ByCategory(t *testing.T) {
	store, ctx := newTestStore(t)

	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		IP:        "192.0.2.10",
		Success:   true,
	})
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProjectCreated,
		IP:        "192.0.2.10",
		Success:   true,
	})
	mustLog(t, store, ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventAPIKeyDenied,
		IP:            "198.51.100.7",
		Success:       false,
		FailureReason: "unknown or revoked key",
	})

	for _, category := range []string{audit.CategoryAuth, audit.CategoryAdmin, audit.CategorySecurity} {
		events, err := store.Query(ctx, audit.QueryFilter{Category: category})
		if err != nil {
			t.Fatalf("Query(%s) failed: %v", category, err)
		}
		if len(events) != 1 {
			t.Errorf("category %s: expected 1 event, got %d", category, len(events))
			continue
		}
		if events[0].Category != category {
			t.Errorf("category %s: got event with category %s", category, events[0].Category)
		}
	}
}

func TestStore_Query_ByEventType(t *testing.T) {
	store, ctx := newTestStore(t)

	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventTicketStateChanged,
		IP:        "192.0.2.10",
		Success:   true,
		Details:   map[string]string{"from": "open", "to": "in_progress"},
	})
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventTicketUpdated,
		IP:        "192.0.2.10",
		Success:   true,
	})

	events, err := store.Query(ctx, audit.QueryFilter{
		EventType: audit.EventTicketStateChanged,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 state-change event, got %d", len(events))
	}
	if events[0].Details["to"] != "in_progress" {
		t.Errorf("to detail: got %q, want %q", events[0].Details["to"], "in_progress")
	}
}

func TestStore_Query_ByCompany(t *testing.T) {
	store, ctx := newTestStore(t)

	acmefab := primitive.NewObjectID()
	northwind := primitive.NewObjectID()

	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProjectCreated,
		CompanyID: &acmefab,
		IP:        "192.0.2.10",
		Success:   true,
	})
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProjectCreated,
		CompanyID: &northwind,
		IP:        "192.0.2.11",
		Success:   true,
	})

	events, err := store.Query(ctx, audit.QueryFilter{CompanyID: &acmefab})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event for the company, got %d", len(events))
	}
}

func TestStore_Query_ByMultipleCompanies(t *testing.T) {
	// A KAM's audit view spans their assigned companies.
	store, ctx := newTestStore(t)

	companies := []primitive.ObjectID{
		primitive.NewObjectID(),
		primitive.NewObjectID(),
		primitive.NewObjectID(),
	}
	for i := range companies {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAdmin,
			EventType: audit.EventCompanyUpdated,
			CompanyID: &companies[i],
			IP:        "192.0.2.10",
			Success:   true,
		})
	}

	events, err := store.Query(ctx, audit.QueryFilter{
		CompanyIDs: companies[:2],
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
}

func TestStore_Query_ByTimeRange(t *testing.T) {
	store, ctx := newTestStore(t)

	base := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{base, base.Add(24 * time.Hour), base.Add(48 * time.Hour)} {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			Timestamp: at,
			IP:        "192.0.2.10",
			Success:   true,
		})
	}

	// Bounded on both ends: only the middle day matches.
	start := base.Add(12 * time.Hour)
	end := base.Add(36 * time.Hour)
	events, err := store.Query(ctx, audit.QueryFilter{
		StartTime: &start,
		EndTime:   &end,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event in range, got %d", len(events))
	}

	// Open-ended start only.
	events, err = store.Query(ctx, audit.QueryFilter{StartTime: &start})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events after start, got %d", len(events))
	}
}

func TestStore_Query_Paging(t *testing.T) {
	store, ctx := newTestStore(t)

	for i := 0; i < 5; i++ {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAdmin,
			EventType: audit.EventTimeEntryCreated,
			IP:        "192.0.2.10",
			Success:   true,
		})
	}

	events, err := store.Query(ctx, audit.QueryFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events on page 2, got %d", len(events))
	}

	// Offset past the end returns empty, not an error.
	events, err = store.Query(ctx, audit.QueryFilter{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected 0 events past the end, got %d", len(events))
	}
}

func TestStore_CountByFilter(t *testing.T) {
	store, ctx := newTestStore(t)

	for i := 0; i < 3; i++ {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			IP:        "192.0.2.10",
			Success:   true,
		})
	}
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategorySecurity,
		EventType: audit.EventAPIKeyCreated,
		IP:        "192.0.2.10",
		Success:   true,
	})

	count, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}

	count, err = store.CountByFilter(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if count != 4 {
		t.Errorf("expected unfiltered count 4, got %d", count)
	}
}

func TestStore_CountByFilter_Empty(t *testing.T) {
	store, ctx := newTestStore(t)

	count, err := store.CountByFilter(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}

func TestStore_GetFailedLogins(t *testing.T) {
	store, ctx := newTestStore(t)
	since := time.Now().Add(-time.Hour)

	failedTypes := []string{
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
	}
	for _, eventType := range failedTypes {
		mustLog(t, store, ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: eventType,
			IP:        "192.0.2.10",
			Success:   false,
		})
	}

	// Neither a successful login nor a denied API key counts as a
	// failed login.
	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		IP:        "192.0.2.11",
		Success:   true,
	})
	mustLog(t, store, ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventAPIKeyDenied,
		IP:            "198.51.100.7",
		Success:       false,
		FailureReason: "unknown or revoked key",
	})

	events, err := store.GetFailedLogins(ctx, since, 10)
	if err != nil {
		t.Fatalf("GetFailedLogins failed: %v", err)
	}
	if len(events) != len(failedTypes) {
		t.Errorf("expected %d failed logins, got %d", len(failedTypes), len(events))
	}
	for _, event := range events {
		if event.Success {
			t.Errorf("event %q: expected success=false", event.EventType)
		}
	}
}

func TestStore_GetFailedLogins_HonorsSince(t *testing.T) {
	store, ctx := newTestStore(t)

	mustLog(t, store, ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		Timestamp:     time.Now().Add(-2 * time.Hour),
		IP:            "192.0.2.10",
		Success:       false,
		FailureReason: "wrong password",
	})
	mustLog(t, store, ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		IP:            "192.0.2.10",
		Success:       false,
		FailureReason: "wrong password",
	})

	since := time.Now().Add(-time.Hour)
	events, err := store.GetFailedLogins(ctx, since, 10)
	if err != nil {
		t.Fatalf("GetFailedLogins failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 failed login since cutoff, got %d", len(events))
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	store, ctx := newTestStore(t)

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	// Idempotent on repeat calls.
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("second EnsureIndexes failed: %v", err)
	}
}

func TestStore_Log_AdminEventPreservesActor(t *testing.T) {
	store, ctx := newTestStore(t)

	actorID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()
	companyID := primitive.NewObjectID()

	mustLog(t, store, ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserCreated,
		ActorID:   &actorID,
		UserID:    &targetID,
		CompanyID: &companyID,
		IP:        "192.0.2.10",
		Success:   true,
		Details: map[string]string{
			"actor_role": "admin",
			"role":       "developer",
		},
	})

	events, err := store.GetByUser(ctx, targetID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ActorID == nil || *event.ActorID != actorID {
		t.Error("expected ActorID to be preserved")
	}
	if event.CompanyID == nil || *event.CompanyID != companyID {
		t.Error("expected CompanyID to be preserved")
	}
	if event.Details["actor_role"] != "admin" {
		t.Errorf("actor_role detail: got %q, want %q", event.Details["actor_role"], "admin")
	}
}
