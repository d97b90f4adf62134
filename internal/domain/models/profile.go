// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the application-level user record. Its ID is the identity ID.
// Role is a cache of the highest-priority entry in the user's UserRoles.
type Profile struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	FullName       string              `bson:"full_name" json:"full_name"`
	FullNameCI     string              `bson:"full_name_ci" json:"-"`
	Email          string              `bson:"email" json:"email"`
	Role           Role                `bson:"role" json:"role"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	LocationID     *primitive.ObjectID `bson:"location_id,omitempty" json:"location_id,omitempty"`
	IsActive       bool                `bson:"is_active" json:"is_active"`
	EmailVerified  bool                `bson:"email_verified" json:"email_verified"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// UserRole is one (user, role) grant. Exactly one document per pair.
type UserRole struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Identity holds sign-in credentials for a Profile (same ID).
type Identity struct {
	ID               primitive.ObjectID `bson:"_id"`
	Email            string             `bson:"email"`
	PasswordHash     string             `bson:"password_hash,omitempty"`
	GoogleSubject    string             `bson:"google_subject,omitempty"`
	EmailConfirmedAt *time.Time         `bson:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}
