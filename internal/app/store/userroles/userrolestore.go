// internal/app/store/userroles/userrolestore.go
package userrolestore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store holds one document per (user, role) grant.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_roles")}
}

// ListByUser returns userID's roles in priority order, highest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Role, error) {
	m, err := s.RolesByUsers(ctx, []primitive.ObjectID{userID})
	if err != nil {
		return nil, err
	}
	roles := m[userID]
	if roles == nil {
		roles = []models.Role{}
	}
	return roles, nil
}

// Add grants role to userID. Granting a role the user already has is a no-op.
func (s *Store) Add(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	_, err := s.c.InsertOne(ctx, models.UserRole{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil && wafflemongo.IsDup(err) {
		return nil
	}
	return err
}

// Remove revokes role from userID.
func (s *Store) Remove(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID, "role": role})
	return err
}

// DeleteByUser revokes every role of userID.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RolesByUsers returns the roles of each user, highest priority first. Users
// without roles are absent from the map. Unknown role values are dropped.
func (s *Store) RolesByUsers(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.Role, error) {
	out := make(map[primitive.ObjectID][]models.Role, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	held := make(map[primitive.ObjectID]map[models.Role]bool)
	for cur.Next(ctx) {
		var ur models.UserRole
		if err := cur.Decode(&ur); err != nil {
			return nil, err
		}
		if held[ur.UserID] == nil {
			held[ur.UserID] = make(map[models.Role]bool)
		}
		held[ur.UserID][ur.Role] = true
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	for uid, set := range held {
		for _, r := range models.RolePriority {
			if set[r] {
				out[uid] = append(out[uid], r)
			}
		}
	}
	return out, nil
}
