package models

import "strings"

// RoleName is the closed set of roles known to the platform. The external
// representation ("ROLE_ADMIN" etc.) is converted at the edge, never inside
// the services.
type RoleName string

const (
	RoleAdmin   RoleName = "ADMIN"
	RoleTeacher RoleName = "TEACHER"
	RoleStudent RoleName = "STUDENT"
)

const externalRolePrefix = "ROLE_"

// roleLabels maps each role to its display label.
var roleLabels = map[RoleName]string{
	RoleAdmin:   "ادمین",
	RoleTeacher: "استاد",
	RoleStudent: "دانشجو",
}

// ParseRoleName accepts both the internal form ("teacher") and the external
// "ROLE_TEACHER" form, case-insensitively.
func ParseRoleName(s string) (RoleName, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, externalRolePrefix)

	switch RoleName(name) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return RoleName(name), true
	}
	return "", false
}

// ExternalName returns the "ROLE_*" form used by the identity provider and
// persisted in the roles table.
func (r RoleName) ExternalName() string {
	return externalRolePrefix + string(r)
}

// Label returns the display label for the role, falling back to the raw name
// for unknown values.
func (r RoleName) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// AllRoleNames lists the bootstrap role catalog.
func AllRoleNames() []RoleName {
	return []RoleName{RoleAdmin, RoleTeacher, RoleStudent}
}

// Role is a shared reference entity: many users point to the same row, it is
// created at bootstrap and never deleted.
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:50"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleName converts the persisted external name back to the closed enum.
func (r Role) RoleName() RoleName {
	name, _ := ParseRoleName(r.Name)
	return name
}
