// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll reconciles every collection's index set. It is idempotent and
// aggregates problems so a single bad collection does not hide the others.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string
	for _, set := range sets() {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models, logger); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

func partialUniq(name string, keys bson.D, filter bson.M) mongo.IndexModel {
	opts := options.Index().SetName(name).SetUnique(true).SetPartialFilterExpression(filter)
	return mongo.IndexModel{Keys: keys, Options: opts}
}

func sets() []indexSet {
	return []indexSet{
		{"organizations", []mongo.IndexModel{
			uniq("uniq_organizations_slug", bson.D{{Key: "slug", Value: 1}}),
			idx("idx_organizations_nameci_id", bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}),
		}},
		{"locations", []mongo.IndexModel{
			idx("idx_locations_org_main_nameci", bson.D{{Key: "organization_id", Value: 1}, {Key: "is_main_campus", Value: -1}, {Key: "name_ci", Value: 1}}),
			idx("idx_locations_pastor", bson.D{{Key: "pastor_id", Value: 1}}),
		}},
		{"profiles", []mongo.IndexModel{
			uniq("uniq_profiles_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_profiles_location_active_nameci", bson.D{{Key: "location_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "full_name_ci", Value: 1}}),
			idx("idx_profiles_role_nameci", bson.D{{Key: "role", Value: 1}, {Key: "full_name_ci", Value: 1}}),
			idx("idx_profiles_org", bson.D{{Key: "organization_id", Value: 1}}),
			idx("idx_profiles_created", bson.D{{Key: "created_at", Value: -1}}),
		}},
		{"identities", []mongo.IndexModel{
			uniq("uniq_identities_email", bson.D{{Key: "email", Value: 1}}),
			partialUniq("uniq_identities_google", bson.D{{Key: "google_subject", Value: 1}},
				bson.M{"google_subject": bson.M{"$type": "string"}}),
		}},
		{"user_roles", []mongo.IndexModel{
			uniq("uniq_user_roles_user_role", bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}}),
		}},
		{"areas", []mongo.IndexModel{
			idx("idx_areas_location_created", bson.D{{Key: "location_id", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_areas_created", bson.D{{Key: "created_at", Value: -1}}),
		}},
		// (area_id, user_id) is intentionally not unique; see areamembers.Store.Add.
		{"area_members", []mongo.IndexModel{
			idx("idx_area_members_area_leader_added", bson.D{{Key: "area_id", Value: 1}, {Key: "is_leader", Value: -1}, {Key: "added_at", Value: -1}}),
			idx("idx_area_members_user", bson.D{{Key: "user_id", Value: 1}}),
		}},
		{"oauth_states", []mongo.IndexModel{
			uniq("uniq_oauth_states_state", bson.D{{Key: "state", Value: 1}}),
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("ttl_oauth_states_expires").SetExpireAfterSeconds(0),
			},
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_events_ts", bson.D{{Key: "timestamp", Value: -1}}),
			idx("idx_audit_events_user_ts", bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_audit_events_org_ts", bson.D{{Key: "organization_id", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_audit_events_category_type_ts", bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection                                                    */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(p *bool) bool { return p != nil && *p }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			continue
		}
		out[keySig(ix.Key)] = ix
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := boolVal(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		log := logger.With(zap.String("collection", coll.Name()), zap.String("name", name), zap.String("keys", sig))

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == unique && ex.Name == name {
				log.Debug("index present")
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s: %v", name, ex.Name, err))
				continue
			}
			log.Info("dropped index for recreation", zap.String("old_name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present)", name))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		log.Info("index ensured", zap.Bool("unique", unique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
