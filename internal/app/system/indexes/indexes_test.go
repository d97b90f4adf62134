package indexes_test

import (
	"testing"
	"time"

	"github.com/jjprojectslab/comunify/internal/app/system/indexes"
	"github.com/jjprojectslab/comunify/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes on %s: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := map[string]bool{}
	for cur.Next(ctx) {
		var ix bson.M
		if err := cur.Decode(&ix); err != nil {
			continue
		}
		if name, ok := ix["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	want := map[string][]string{
		"organizations": {"uniq_organizations_slug", "idx_organizations_nameci_id"},
		"locations":     {"idx_locations_org_main_nameci", "idx_locations_pastor"},
		"profiles":      {"uniq_profiles_email", "idx_profiles_location_active_nameci", "idx_profiles_role_nameci"},
		"identities":    {"uniq_identities_email", "uniq_identities_google"},
		"user_roles":    {"uniq_user_roles_user_role"},
		"areas":         {"idx_areas_location_created"},
		"area_members":  {"idx_area_members_area_leader_added", "idx_area_members_user"},
		"oauth_states":  {"uniq_oauth_states_state", "ttl_oauth_states_expires"},
		"audit_events":  {"idx_audit_events_ts", "idx_audit_events_user_ts"},
	}
	for coll, names := range want {
		got := indexNames(t, db, coll)
		for _, n := range names {
			if !got[n] {
				t.Errorf("expected index %q on %s", n, coll)
			}
		}
	}
}

func TestEnsureAll_SlugUniqueEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	orgs := db.Collection("organizations")
	if _, err := orgs.InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "slug": "grace"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := orgs.InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "slug": "grace"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second insert: got %v, want duplicate key error", err)
	}
}

func TestEnsureAll_AreaMembersAllowDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	area, user := primitive.NewObjectID(), primitive.NewObjectID()
	doc := func() bson.M {
		return bson.M{"_id": primitive.NewObjectID(), "area_id": area, "user_id": user, "added_at": time.Now()}
	}
	if _, err := db.Collection("area_members").InsertOne(ctx, doc()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Collection("area_members").InsertOne(ctx, doc()); err != nil {
		t.Errorf("second insert should not be rejected by an index: %v", err)
	}
}
