package models

import "testing"

func TestHasRole(t *testing.T) {
	user := &User{Roles: []Role{{Name: RoleTeacher.ExternalName()}}}

	if !user.HasRole(RoleTeacher) {
		t.Error("expected teacher role")
	}
	if user.HasRole(RoleAdmin) {
		t.Error("unexpected admin role")
	}
}

func TestRolesCopyDoesNotAlias(t *testing.T) {
	user := &User{Roles: []Role{{Name: RoleStudent.ExternalName()}}}

	roles := append(user.RolesCopy(), Role{Name: RoleTeacher.ExternalName()})
	if len(user.Roles) != 1 {
		t.Errorf("appending to the copy mutated the user: %v", user.Roles)
	}
	if len(roles) != 2 {
		t.Errorf("copy length = %d", len(roles))
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		status UserStatus
		active bool
	}{
		{StatusApproved, true},
		{StatusPending, true},
		{StatusRejected, false},
	}

	for _, tt := range tests {
		user := &User{Status: tt.status}
		if user.IsActive() != tt.active {
			t.Errorf("IsActive(%s) = %v, want %v", tt.status, user.IsActive(), tt.active)
		}
	}
}
