package bootstrap

import (
	"testing"

	"github.com/dalemusser/opshub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSchema_CreatesCollectionsAndIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{OpsHubMongoDatabase: db}
	appCfg := AppConfig{MongoDatabase: db.Name()}

	err := EnsureSchema(ctx, &config.CoreConfig{}, appCfg, deps, testLogger())
	if err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("list collections: %v", err)
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "companies", "projects", "tickets", "time_entries", "documents", "integrations", "api_keys", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}

	// Spot-check one index: the unique email index on users.
	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list user indexes: %v", err)
	}
	var specs []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &specs); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}
	found := false
	for _, s := range specs {
		if s.Name == "uniq_users_email" {
			found = true
		}
	}
	if !found {
		t.Error("expected uniq_users_email index on users")
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{OpsHubMongoDatabase: db}
	appCfg := AppConfig{MongoDatabase: db.Name()}

	if err := EnsureSchema(ctx, &config.CoreConfig{}, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("first EnsureSchema failed: %v", err)
	}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
}
