// internal/app/store/areamembers/areamemberstore.go
package areamemberstore

import (
	"context"
	"errors"
	"time"

	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyMember is returned by Add when the user already has a row for the area.
var ErrAlreadyMember = errors.New("user is already a member of this area")

// Store persists area memberships. (area_id, user_id) is not unique in the
// collection, so the pair operations below act on every matching row.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("area_members")}
}

// Add inserts a membership unless one already exists for the pair.
func (s *Store) Add(ctx context.Context, areaID, userID primitive.ObjectID, addedBy *primitive.ObjectID) (models.AreaMember, error) {
	exists, err := s.Exists(ctx, areaID, userID)
	if err != nil {
		return models.AreaMember{}, err
	}
	if exists {
		return models.AreaMember{}, ErrAlreadyMember
	}
	m := models.AreaMember{
		ID:      primitive.NewObjectID(),
		AreaID:  areaID,
		UserID:  userID,
		AddedAt: time.Now().UTC(),
		AddedBy: addedBy,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.AreaMember{}, err
	}
	return m, nil
}

func (s *Store) Exists(ctx context.Context, areaID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"area_id": areaID, "user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remove deletes every row for the pair and returns how many were removed.
func (s *Store) Remove(ctx context.Context, areaID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"area_id": areaID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetLeader sets is_leader on every row for the pair and returns the number matched.
func (s *Store) SetLeader(ctx context.Context, areaID, userID primitive.ObjectID, leader bool) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{"area_id": areaID, "user_id": userID},
		bson.M{"$set": bson.M{"is_leader": leader}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// ListByArea returns the area's rows, leaders first, then newest.
func (s *Store) ListByArea(ctx context.Context, areaID primitive.ObjectID) ([]models.AreaMember, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "is_leader", Value: -1},
		{Key: "added_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{"area_id": areaID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.AreaMember{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MemberIDs returns the distinct user IDs with a row in areaID.
func (s *Store) MemberIDs(ctx context.Context, areaID primitive.ObjectID) ([]primitive.ObjectID, error) {
	vals, err := s.c.Distinct(ctx, "user_id", bson.M{"area_id": areaID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(vals))
	for _, v := range vals {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}

// CountByAreas returns the number of distinct members per area.
func (s *Store) CountByAreas(ctx context.Context, areaIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	out := make(map[primitive.ObjectID]int, len(areaIDs))
	if len(areaIDs) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"area_id": bson.M{"$in": areaIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": bson.M{"area": "$area_id", "user": "$user_id"}}}},
		{{Key: "$group", Value: bson.M{"_id": "$_id.area", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int                `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Count
	}
	return out, cur.Err()
}

// DeleteByAreas removes every membership of the given areas.
func (s *Store) DeleteByAreas(ctx context.Context, areaIDs []primitive.ObjectID) (int64, error) {
	if len(areaIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"area_id": bson.M{"$in": areaIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes every membership of userID.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
