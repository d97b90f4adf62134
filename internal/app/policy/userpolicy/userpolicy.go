// internal/app/policy/userpolicy/userpolicy.go
package userpolicy

import (
	"errors"

	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEscalation   = errors.New("only a super admin can grant or revoke the super admin role")
	ErrSelfDelete   = errors.New("you cannot delete your own account")
	ErrRoleNotGrant = errors.New("role cannot be assigned when creating a user")
)

// CanManage reports whether a may use the user management screens.
func CanManage(a authz.Actor) bool {
	return authz.CanManage(a.Role, authz.Users)
}

// CheckRoleChange rejects diffs that touch SUPER_ADMIN unless a is one.
func CheckRoleChange(a authz.Actor, d authz.RoleDiff) error {
	if d.Touches(models.RoleSuperAdmin) && !a.IsSuperAdmin() {
		return ErrEscalation
	}
	return nil
}

// CheckDelete rejects deleting one's own account.
func CheckDelete(a authz.Actor, target primitive.ObjectID) error {
	if a.ID == target {
		return ErrSelfDelete
	}
	return nil
}

// creatable lists the roles an administrator can give a new account.
var creatable = map[models.Role]bool{
	models.RoleMember: true,
	models.RoleLeader: true,
	models.RolePastor: true,
	models.RoleAdmin:  true,
}

// CheckCreateRole validates the initial role of an admin-created user.
func CheckCreateRole(role models.Role) error {
	if !creatable[role] {
		return ErrRoleNotGrant
	}
	return nil
}

// CheckTarget rejects changes to a SUPER_ADMIN account by anyone else.
func CheckTarget(a authz.Actor, targetRole models.Role) error {
	if targetRole == models.RoleSuperAdmin && !a.IsSuperAdmin() {
		return ErrEscalation
	}
	return nil
}
