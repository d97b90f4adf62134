// internal/domain/models/location.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a physical branch (campus) of exactly one Organization.
type Location struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	Name           string              `bson:"name" json:"name"`
	NameCI         string              `bson:"name_ci" json:"-"`
	City           string              `bson:"city,omitempty" json:"city,omitempty"`
	Country        string              `bson:"country,omitempty" json:"country,omitempty"`
	Address        string              `bson:"address,omitempty" json:"address,omitempty"`
	Phone          string              `bson:"phone,omitempty" json:"phone,omitempty"`
	IsMainCampus   bool                `bson:"is_main_campus" json:"is_main_campus"`
	PastorID       *primitive.ObjectID `bson:"pastor_id,omitempty" json:"pastor_id,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}
