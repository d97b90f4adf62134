// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category names a group of administrative operations sharing one allow-list.
type Category int

const (
	// Areas covers area CRUD and area rosters.
	Areas Category = iota
	// Users covers user, organization and location management screens.
	Users
	// OrgMutation covers creating, editing and deleting organizations and locations.
	OrgMutation
	// Audit covers reading the audit log. ADMIN sees only its organization.
	Audit
)

var allowLists = map[Category][]models.Role{
	Areas:       {models.RoleSuperAdmin, models.RolePastor, models.RoleLeader},
	Users:       {models.RoleSuperAdmin, models.RoleAdmin, models.RolePastor, models.RoleLeader},
	OrgMutation: {models.RoleSuperAdmin},
	Audit:       {models.RoleSuperAdmin, models.RoleAdmin},
}

// AllowedRoles returns the allow-list for c. Routes pass it to RequireRole.
func AllowedRoles(c Category) []models.Role {
	out := make([]models.Role, len(allowLists[c]))
	copy(out, allowLists[c])
	return out
}

// CanManage reports whether role is in the allow-list for c.
func CanManage(role models.Role, c Category) bool {
	for _, r := range allowLists[c] {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the signed-in caller with parsed IDs.
type Actor struct {
	ID         primitive.ObjectID
	Name       string
	Role       models.Role
	OrgID      primitive.ObjectID // NilObjectID when unset
	LocationID primitive.ObjectID // NilObjectID when unset
}

// IsSuperAdmin reports whether the actor is unscoped.
func (a Actor) IsSuperAdmin() bool { return a.Role == models.RoleSuperAdmin }

// HasLocation reports whether the actor belongs to a location.
func (a Actor) HasLocation() bool { return !a.LocationID.IsZero() }

// UserCtx returns the caller as an Actor. ok is false when nobody is signed
// in or the session carries a malformed user ID.
func UserCtx(r *http.Request) (Actor, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Actor{}, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return Actor{}, false
	}
	return Actor{
		ID:         id,
		Name:       u.Name,
		Role:       u.Role,
		OrgID:      parseOptional(u.OrganizationID),
		LocationID: parseOptional(u.LocationID),
	}, true
}

// IsSuperAdmin reports whether the current request's user is a SUPER_ADMIN.
func IsSuperAdmin(r *http.Request) bool {
	a, ok := UserCtx(r)
	return ok && a.IsSuperAdmin()
}

// Can reports whether the current request's user may perform operations in c.
func Can(r *http.Request, c Category) bool {
	a, ok := UserCtx(r)
	return ok && CanManage(a.Role, c)
}

func parseOptional(hex string) primitive.ObjectID {
	if hex == "" {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
