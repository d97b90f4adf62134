package orgtree

import (
	"context"

	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pastor is the profile subset attached to a location.
type Pastor struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	Email    string             `bson:"email" json:"email"`
}

type Location struct {
	models.Location `bson:",inline"`

	Pastor *Pastor `bson:"pastor,omitempty" json:"pastor,omitempty"`
}

type Organization struct {
	models.Organization `bson:",inline"`

	Locations []Location `bson:"locations" json:"locations"`
}

// List returns every organization ordered by name, each with its locations
// (main campus first, then by name) and their pastors.
func List(ctx context.Context, db *mongo.Database) ([]Organization, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "locations",
			"let":  bson.M{"org": "$_id"},
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{"$organization_id", "$$org"}}}}},
				bson.D{{Key: "$lookup", Value: bson.M{
					"from":         "profiles",
					"localField":   "pastor_id",
					"foreignField": "_id",
					"as":           "pastor",
				}}},
				bson.D{{Key: "$unwind", Value: bson.M{"path": "$pastor", "preserveNullAndEmptyArrays": true}}},
				bson.D{{Key: "$sort", Value: bson.D{
					{Key: "is_main_campus", Value: -1},
					{Key: "name_ci", Value: 1},
					{Key: "_id", Value: 1},
				}}},
			},
			"as": "locations",
		}}},
	}

	cur, err := db.Collection("organizations").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Organization{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Locations == nil {
			out[i].Locations = []Location{}
		}
	}
	return out, nil
}
