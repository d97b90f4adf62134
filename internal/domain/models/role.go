// internal/domain/models/role.go
package models

import "strings"

// Role is a grantable role. Values are stored verbatim in Mongo.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RolePastor     Role = "PASTOR"
	RoleLeader     Role = "LEADER"
	RoleMember     Role = "MEMBER"
)

// RolePriority lists roles from highest to lowest priority.
var RolePriority = []Role{RoleSuperAdmin, RoleAdmin, RolePastor, RoleLeader, RoleMember}

// Rank returns the priority of r (0 is highest) or -1 for an unknown role.
func (r Role) Rank() int {
	for i, p := range RolePriority {
		if p == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r.Rank() >= 0 }

// Outranks reports whether r has strictly higher priority than other.
func (r Role) Outranks(other Role) bool {
	a, b := r.Rank(), other.Rank()
	if a < 0 {
		return false
	}
	return b < 0 || a < b
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// PrimaryRole returns the highest-priority role present in roles,
// or RoleMember when roles holds no known role.
func PrimaryRole(roles []Role) Role {
	best := -1
	for _, r := range roles {
		if k := r.Rank(); k >= 0 && (best < 0 || k < best) {
			best = k
		}
	}
	if best < 0 {
		return RoleMember
	}
	return RolePriority[best]
}
