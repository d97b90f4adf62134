// internal/app/system/authz/roles.go
package authz

import "github.com/jjprojectslab/comunify/internal/domain/models"

// RoleDiff is the result of reconciling a user's current roles with a target set.
type RoleDiff struct {
	Add     []models.Role
	Remove  []models.Role
	Primary models.Role // primary role of the target set
}

// Empty reports whether nothing needs to change.
func (d RoleDiff) Empty() bool { return len(d.Add) == 0 && len(d.Remove) == 0 }

// Touches reports whether role is being added or removed.
func (d RoleDiff) Touches(role models.Role) bool {
	for _, r := range d.Add {
		if r == role {
			return true
		}
	}
	for _, r := range d.Remove {
		if r == role {
			return true
		}
	}
	return false
}

// Reconcile computes Add = target − current and Remove = current − target.
// Duplicates are ignored and output follows priority order.
func Reconcile(current, target []models.Role) RoleDiff {
	cur := toSet(current)
	tgt := toSet(target)

	var d RoleDiff
	for _, r := range models.RolePriority {
		_, inCur := cur[r]
		_, inTgt := tgt[r]
		switch {
		case inTgt && !inCur:
			d.Add = append(d.Add, r)
		case inCur && !inTgt:
			d.Remove = append(d.Remove, r)
		}
	}
	// Unknown roles present in current are always removed.
	for r := range cur {
		if !r.Valid() {
			d.Remove = append(d.Remove, r)
		}
	}
	d.Primary = models.PrimaryRole(target)
	return d
}

// Apply returns the role set that results from applying d to current.
func (d RoleDiff) Apply(current []models.Role) []models.Role {
	set := toSet(current)
	for _, r := range d.Remove {
		delete(set, r)
	}
	for _, r := range d.Add {
		set[r] = struct{}{}
	}
	out := make([]models.Role, 0, len(set))
	for _, r := range models.RolePriority {
		if _, ok := set[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

func toSet(roles []models.Role) map[models.Role]struct{} {
	set := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}
