// internal/app/policy/areapolicy/areapolicy.go
package areapolicy

import (
	"errors"

	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrLocationRequired is returned when a SUPER_ADMIN creates an area without a location.
	ErrLocationRequired = errors.New("location is required")
	// ErrNoLocation is returned when a scoped actor has no location of their own.
	ErrNoLocation = errors.New("your account is not assigned to a location")
)

// CanManage reports whether a may manage areas at all.
func CanManage(a authz.Actor) bool {
	return authz.CanManage(a.Role, authz.Areas)
}

// Scope returns the filter restricting area queries to what a can see.
// A SUPER_ADMIN is unrestricted; everyone else sees their own location, and
// an actor without a location sees nothing.
func Scope(a authz.Actor) bson.M {
	if a.IsSuperAdmin() {
		return bson.M{}
	}
	return bson.M{"location_id": a.LocationID}
}

// CreateLocation picks the location a new area belongs to. A SUPER_ADMIN's
// requested location is used as given; anyone else always gets their own.
func CreateLocation(a authz.Actor, requested *primitive.ObjectID) (primitive.ObjectID, error) {
	if a.IsSuperAdmin() {
		if requested == nil || requested.IsZero() {
			return primitive.NilObjectID, ErrLocationRequired
		}
		return *requested, nil
	}
	if !a.HasLocation() {
		return primitive.NilObjectID, ErrNoLocation
	}
	return a.LocationID, nil
}

// UpdateLocation returns the location an update may move an area to, or nil
// when the actor may not move areas.
func UpdateLocation(a authz.Actor, requested *primitive.ObjectID) *primitive.ObjectID {
	if !a.IsSuperAdmin() || requested == nil || requested.IsZero() {
		return nil
	}
	return requested
}
