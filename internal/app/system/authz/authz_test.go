package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/jjprojectslab/comunify/internal/app/system/auth"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanManage(t *testing.T) {
	tests := []struct {
		role models.Role
		cat  authz.Category
		want bool
	}{
		{models.RoleMember, authz.Areas, false},
		{models.RoleLeader, authz.Areas, true},
		{models.RolePastor, authz.Areas, true},
		{models.RoleAdmin, authz.Areas, false},
		{models.RoleSuperAdmin, authz.Areas, true},

		{models.RoleMember, authz.Users, false},
		{models.RoleLeader, authz.Users, true},
		{models.RolePastor, authz.Users, true},
		{models.RoleAdmin, authz.Users, true},
		{models.RoleSuperAdmin, authz.Users, true},

		{models.RoleAdmin, authz.OrgMutation, false},
		{models.RolePastor, authz.OrgMutation, false},
		{models.RoleSuperAdmin, authz.OrgMutation, true},

		{models.RoleAdmin, authz.Audit, true},
		{models.RolePastor, authz.Audit, false},

		{models.Role("GUEST"), authz.Users, false},
	}
	for _, tt := range tests {
		if got := authz.CanManage(tt.role, tt.cat); got != tt.want {
			t.Errorf("CanManage(%s, %d) = %v, want %v", tt.role, tt.cat, got, tt.want)
		}
	}
}

func TestAllowedRoles_ReturnsCopy(t *testing.T) {
	roles := authz.AllowedRoles(authz.OrgMutation)
	roles[0] = models.RoleMember
	if !authz.CanManage(models.RoleSuperAdmin, authz.OrgMutation) {
		t.Error("mutating the returned slice must not change the allow-list")
	}
}

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()
	loc := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:         id.Hex(),
		Name:       "Ana",
		Role:       models.RoleLeader,
		LocationID: loc.Hex(),
	})

	a, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok")
	}
	if a.ID != id || a.LocationID != loc || a.Role != models.RoleLeader {
		t.Errorf("got %+v", a)
	}
	if !a.OrgID.IsZero() {
		t.Errorf("OrgID: got %v, want zero", a.OrgID)
	}
	if !a.HasLocation() {
		t.Error("expected HasLocation")
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "nope", Role: models.RoleSuperAdmin})
	if _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed user ID")
	}
	if authz.IsSuperAdmin(req) {
		t.Error("malformed session must not count as super admin")
	}
}

func TestCan_NoUser(t *testing.T) {
	if authz.Can(httptest.NewRequest("GET", "/", nil), authz.Areas) {
		t.Error("expected false with no user")
	}
}
