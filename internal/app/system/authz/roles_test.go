package authz

import (
	"testing"

	"github.com/jjprojectslab/comunify/internal/domain/models"
)

// subsets enumerates every subset of the known roles.
func subsets() [][]models.Role {
	n := len(models.RolePriority)
	out := make([][]models.Role, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		var s []models.Role
		for i, r := range models.RolePriority {
			if mask&(1<<i) != 0 {
				s = append(s, r)
			}
		}
		out = append(out, s)
	}
	return out
}

func sameSet(a, b []models.Role) bool {
	sa, sb := toSet(a), toSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for r := range sa {
		if _, ok := sb[r]; !ok {
			return false
		}
	}
	return true
}

func minus(a, b []models.Role) []models.Role {
	sb := toSet(b)
	var out []models.Role
	for _, r := range a {
		if _, ok := sb[r]; !ok {
			out = append(out, r)
		}
	}
	return out
}

func TestReconcile_AllSubsets(t *testing.T) {
	all := subsets()
	for _, current := range all {
		for _, target := range all {
			d := Reconcile(current, target)
			if !sameSet(d.Add, minus(target, current)) {
				t.Fatalf("Add(%v -> %v) = %v", current, target, d.Add)
			}
			if !sameSet(d.Remove, minus(current, target)) {
				t.Fatalf("Remove(%v -> %v) = %v", current, target, d.Remove)
			}
			if post := d.Apply(current); !sameSet(post, target) {
				t.Fatalf("Apply(%v -> %v) = %v", current, target, post)
			}
			if d.Primary != models.PrimaryRole(target) {
				t.Fatalf("Primary(%v) = %v", target, d.Primary)
			}
		}
	}
}

func TestReconcile_EmptyTargetDefaultsToMember(t *testing.T) {
	d := Reconcile([]models.Role{models.RoleAdmin, models.RoleLeader}, nil)
	if d.Primary != models.RoleMember {
		t.Errorf("Primary: got %q, want %q", d.Primary, models.RoleMember)
	}
	if len(d.Add) != 0 || len(d.Remove) != 2 {
		t.Errorf("got add=%v remove=%v", d.Add, d.Remove)
	}
}

func TestReconcile_DropsUnknownCurrentRoles(t *testing.T) {
	d := Reconcile([]models.Role{"DEACON", models.RoleMember, "DEACON"}, []models.Role{models.RoleMember})
	if len(d.Remove) != 1 || d.Remove[0] != "DEACON" {
		t.Errorf("Remove: got %v, want [DEACON]", d.Remove)
	}
	if !d.Touches("DEACON") || d.Touches(models.RoleMember) {
		t.Error("Touches reported the wrong roles")
	}
}

func TestReconcile_NoChange(t *testing.T) {
	roles := []models.Role{models.RolePastor, models.RoleMember}
	if d := Reconcile(roles, roles); !d.Empty() {
		t.Errorf("expected empty diff, got %+v", d)
	}
}
