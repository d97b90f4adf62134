package models

import "testing"

func TestPrimaryRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  Role
	}{
		{"empty", nil, RoleMember},
		{"leader and admin", []Role{RoleLeader, RoleAdmin}, RoleAdmin},
		{"single pastor", []Role{RolePastor}, RolePastor},
		{"all", []Role{RoleMember, RoleLeader, RolePastor, RoleAdmin, RoleSuperAdmin}, RoleSuperAdmin},
		{"unknown only", []Role{"DEACON"}, RoleMember},
		{"unknown mixed", []Role{"DEACON", RoleLeader}, RoleLeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryRole(tt.roles); got != tt.want {
				t.Errorf("PrimaryRole(%v) = %q, want %q", tt.roles, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"  pastor ", RolePastor, true},
		{"super_admin", RoleSuperAdmin, true},
		{"", "", false},
		{"owner", "OWNER", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseRole(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestOutranks(t *testing.T) {
	if !RoleSuperAdmin.Outranks(RoleAdmin) {
		t.Error("SUPER_ADMIN should outrank ADMIN")
	}
	if RoleLeader.Outranks(RolePastor) {
		t.Error("LEADER should not outrank PASTOR")
	}
	if RoleMember.Outranks(RoleMember) {
		t.Error("a role should not outrank itself")
	}
	if Role("X").Outranks(RoleMember) {
		t.Error("unknown role should not outrank anything")
	}
}
