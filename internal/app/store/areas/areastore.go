// internal/app/store/areas/areastore.go
package areastore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists areas. Read and write methods take a scope filter (see
// areapolicy.Scope) that is merged into every query; an empty scope is
// unrestricted.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("areas")}
}

func scoped(scope bson.M, id primitive.ObjectID) bson.M {
	f := bson.M{"_id": id}
	for k, v := range scope {
		f[k] = v
	}
	return f
}

func (s *Store) Create(ctx context.Context, a models.Area) (models.Area, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.NameCI = text.Fold(a.Name)
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Area{}, err
	}
	return a, nil
}

// Get returns the area with id if it lies within scope, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID, scope bson.M) (models.Area, error) {
	var a models.Area
	if err := s.c.FindOne(ctx, scoped(scope, id)).Decode(&a); err != nil {
		return models.Area{}, err
	}
	return a, nil
}

// Patch lists the mutable area fields. A nil field is left alone.
type Patch struct {
	Name        *string
	Description *string
	LocationID  *primitive.ObjectID
}

// Update applies p to the in-scope area with id and returns the result.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, scope bson.M, p Patch) (models.Area, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	if p.Description != nil {
		if *p.Description == "" {
			unset["description"] = ""
		} else {
			set["description"] = *p.Description
		}
	}
	if p.LocationID != nil {
		set["location_id"] = *p.LocationID
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var out models.Area
	err := s.c.FindOneAndUpdate(ctx, scoped(scope, id), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.Area{}, err
	}
	return out, nil
}

// Delete removes the in-scope area with id and reports how many were deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, scope bson.M) (int64, error) {
	res, err := s.c.DeleteOne(ctx, scoped(scope, id))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns the areas in scope, newest first.
func (s *Store) List(ctx context.Context, scope bson.M) ([]models.Area, error) {
	filter := bson.M{}
	for k, v := range scope {
		filter[k] = v
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Area{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IDsByLocations returns the IDs of every area in any of locIDs.
func (s *Store) IDsByLocations(ctx context.Context, locIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(locIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"location_id": bson.M{"$in": locIDs}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// DeleteByIDs removes the areas with the given IDs.
func (s *Store) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
