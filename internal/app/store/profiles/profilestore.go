// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("a user with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Create inserts p. A zero ID is replaced with a new one; callers creating a
// profile for an identity pass the identity's ID.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.Email = normalize.Email(p.Email)
	p.FullNameCI = text.Fold(p.FullName)
	if p.Role == "" {
		p.Role = models.RoleMember
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateEmail
		}
		return models.Profile{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// Patch lists the profile fields an administrator may change.
type Patch struct {
	FullName          *string
	OrganizationID    *primitive.ObjectID
	ClearOrganization bool
	LocationID        *primitive.ObjectID
	ClearLocation     bool
	IsActive          *bool
}

// Update applies p and returns the updated profile, or
// mongo.ErrNoDocuments when id does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Profile, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if p.FullName != nil {
		set["full_name"] = *p.FullName
		set["full_name_ci"] = text.Fold(*p.FullName)
	}
	switch {
	case p.ClearOrganization:
		unset["organization_id"] = ""
	case p.OrganizationID != nil:
		set["organization_id"] = *p.OrganizationID
	}
	switch {
	case p.ClearLocation:
		unset["location_id"] = ""
	case p.LocationID != nil:
		set["location_id"] = *p.LocationID
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	var out models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

// SetRole stores the cached primary role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return s.setFields(ctx, id, bson.M{"role": role})
}

// SetEmailVerified flags the profile's email as verified (or not).
func (s *Store) SetEmailVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	return s.setFields(ctx, id, bson.M{"email_verified": verified})
}

func (s *Store) setFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a profile and returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DetachOrganization clears the organization and location of every profile in orgID.
func (s *Store) DetachOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.unsetMany(ctx, bson.M{"organization_id": orgID}, "organization_id", "location_id")
}

// DetachLocations clears location_id on profiles in any of locIDs.
func (s *Store) DetachLocations(ctx context.Context, locIDs []primitive.ObjectID) (int64, error) {
	if len(locIDs) == 0 {
		return 0, nil
	}
	return s.unsetMany(ctx, bson.M{"location_id": bson.M{"$in": locIDs}}, "location_id")
}

func (s *Store) unsetMany(ctx context.Context, filter bson.M, fields ...string) (int64, error) {
	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	res, err := s.c.UpdateMany(ctx, filter, bson.M{"$unset": unset, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListAll returns every profile, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Profile, error) {
	return s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
}

// ListByRole returns profiles whose primary role is role, ordered by name.
func (s *Store) ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	return s.Find(ctx, bson.M{"role": role}, options.Find().SetSort(byName))
}

// ListActiveByLocation returns active profiles in locID, excluding the given
// IDs, ordered by name.
func (s *Store) ListActiveByLocation(ctx context.Context, locID primitive.ObjectID, exclude []primitive.ObjectID) ([]models.Profile, error) {
	filter := bson.M{"location_id": locID, "is_active": true}
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}
	return s.Find(ctx, filter, options.Find().SetSort(byName))
}

// GetByIDs returns the profiles with the given IDs keyed by ID.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error) {
	out := make(map[primitive.ObjectID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ps, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		out[p.ID] = p
	}
	return out, nil
}

// Find returns profiles matching filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Profile, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Profile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var byName = bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}
