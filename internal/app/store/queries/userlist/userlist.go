package userlist

import (
	"context"

	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// User is a profile with its organization and location names and its roles.
type User struct {
	models.Profile

	OrganizationName string        `json:"organization_name,omitempty"`
	LocationName     string        `json:"location_name,omitempty"`
	Roles            []models.Role `json:"roles"`
}

type named struct {
	Name string `bson:"name"`
}

type grant struct {
	Role models.Role `bson:"role"`
}

type row struct {
	models.Profile `bson:",inline"`

	Org    []named `bson:"org"`
	Loc    []named `bson:"loc"`
	Grants []grant `bson:"grants"`
}

func (r row) user() User {
	u := User{Profile: r.Profile, Roles: []models.Role{}}
	if len(r.Org) > 0 {
		u.OrganizationName = r.Org[0].Name
	}
	if len(r.Loc) > 0 {
		u.LocationName = r.Loc[0].Name
	}
	held := make(map[models.Role]bool, len(r.Grants))
	for _, g := range r.Grants {
		held[g.Role] = true
	}
	for _, role := range models.RolePriority {
		if held[role] {
			u.Roles = append(u.Roles, role)
		}
	}
	return u
}

func lookups() []bson.D {
	lookup := func(from, local, as string) bson.D {
		return bson.D{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   local,
			"foreignField": "_id",
			"as":           as,
		}}}
	}
	return []bson.D{
		lookup("organizations", "organization_id", "org"),
		lookup("locations", "location_id", "loc"),
		{{Key: "$lookup", Value: bson.M{
			"from":         "user_roles",
			"localField":   "_id",
			"foreignField": "user_id",
			"as":           "grants",
		}}},
	}
}

func run(ctx context.Context, db *mongo.Database, pipe mongo.Pipeline) ([]User, error) {
	cur, err := db.Collection("profiles").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []User{}
	for cur.Next(ctx) {
		var r row
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r.user())
	}
	return out, cur.Err()
}

// List returns every user, newest first.
func List(ctx context.Context, db *mongo.Database) ([]User, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipe = append(pipe, lookups()...)
	return run(ctx, db, pipe)
}

// Get returns one user, or mongo.ErrNoDocuments.
func Get(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (User, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
		bson.D{{Key: "$limit", Value: 1}},
	}
	pipe = append(pipe, lookups()...)
	users, err := run(ctx, db, pipe)
	if err != nil {
		return User{}, err
	}
	if len(users) == 0 {
		return User{}, mongo.ErrNoDocuments
	}
	return users[0], nil
}
