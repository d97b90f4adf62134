package arearoster

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemberUser is the profile subset shown on a roster row.
type MemberUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	Email    string             `bson:"email" json:"email"`
	Role     models.Role        `bson:"role" json:"role"`
	IsActive bool               `bson:"is_active" json:"is_active"`
}

// Member is one membership row joined with its profile.
type Member struct {
	ID       primitive.ObjectID  `bson:"_id" json:"id"`
	AreaID   primitive.ObjectID  `bson:"area_id" json:"area_id"`
	UserID   primitive.ObjectID  `bson:"user_id" json:"user_id"`
	IsLeader bool                `bson:"is_leader" json:"is_leader"`
	AddedAt  time.Time           `bson:"added_at" json:"added_at"`
	AddedBy  *primitive.ObjectID `bson:"added_by,omitempty" json:"added_by,omitempty"`
	User     MemberUser          `bson:"user" json:"user"`
}

// List returns the members of areaID, leaders first and then newest.
// A non-empty q keeps rows whose name or email contains q, ignoring case
// and accents. Rows whose profile no longer exists are omitted.
func List(ctx context.Context, db *mongo.Database, areaID primitive.ObjectID, q string) ([]Member, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"area_id": areaID}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "profiles",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
	}

	if term := text.Fold(strings.TrimSpace(q)); term != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(term)}
		pipe = append(pipe, bson.D{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"user.full_name_ci": re},
			bson.M{"user.email": re},
		}}}})
	}

	pipe = append(pipe, bson.D{{Key: "$sort", Value: bson.D{
		{Key: "is_leader", Value: -1},
		{Key: "added_at", Value: -1},
		{Key: "_id", Value: -1},
	}}})

	cur, err := db.Collection("area_members").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Member{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
