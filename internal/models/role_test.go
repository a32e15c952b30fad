package models

import "testing"

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		input string
		want  RoleName
		ok    bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"teacher", RoleTeacher, true},
		{"ROLE_STUDENT", RoleStudent, true},
		{"role_admin", RoleAdmin, true},
		{"  Teacher  ", RoleTeacher, true},
		{"SUPERVISOR", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRoleName(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRoleName(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExternalName(t *testing.T) {
	if got := RoleTeacher.ExternalName(); got != "ROLE_TEACHER" {
		t.Errorf("ExternalName = %s", got)
	}
}

func TestLabel(t *testing.T) {
	if got := RoleStudent.Label(); got != "دانشجو" {
		t.Errorf("Label = %s", got)
	}
	if got := RoleName("OTHER").Label(); got != "OTHER" {
		t.Errorf("unknown role label = %s", got)
	}
}

func TestRoleRoundTrip(t *testing.T) {
	role := Role{Name: RoleAdmin.ExternalName()}
	if role.RoleName() != RoleAdmin {
		t.Errorf("RoleName = %s", role.RoleName())
	}
}
