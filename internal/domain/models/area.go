// internal/domain/models/area.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Area is a ministry sub-group scoped to one Location.
type Area struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	LocationID  primitive.ObjectID `bson:"location_id" json:"location_id"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// AreaMember joins a user to an Area. The collection carries no unique
// (area_id, user_id) index; duplicates are refused when adding instead.
type AreaMember struct {
	ID       primitive.ObjectID  `bson:"_id" json:"id"`
	AreaID   primitive.ObjectID  `bson:"area_id" json:"area_id"`
	UserID   primitive.ObjectID  `bson:"user_id" json:"user_id"`
	IsLeader bool                `bson:"is_leader" json:"is_leader"`
	AddedAt  time.Time           `bson:"added_at" json:"added_at"`
	AddedBy  *primitive.ObjectID `bson:"added_by,omitempty" json:"added_by,omitempty"`
}
