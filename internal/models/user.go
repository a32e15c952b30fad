package models

import (
	"time"
)

type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusApproved UserStatus = "APPROVED"
	StatusRejected UserStatus = "REJECTED"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string     `json:"-" gorm:"column:password;not null;size:255"`
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	Status       UserStatus `json:"status" gorm:"not null;size:20;default:PENDING"`

	// Set only while Status is REJECTED; cleared on approval and on role re-entry.
	RejectionReason *string `json:"rejection_reason" gorm:"size:500"`

	Roles []Role `json:"roles" gorm:"many2many:user_roles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user currently holds the given role.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.RoleName() == name {
			return true
		}
	}
	return false
}

// RoleNames returns the user's roles as the closed enum set.
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.RoleName())
	}
	return names
}

// RolesCopy returns an independent copy of the role set, safe to extend
// without aliasing the user's own slice.
func (u *User) RolesCopy() []Role {
	out := make([]Role, len(u.Roles))
	copy(out, u.Roles)
	return out
}

// IsActive reports whether the account participates in the approval workflow
// (i.e. blocks re-registration of its username/email).
func (u *User) IsActive() bool {
	return u.Status == StatusApproved || u.Status == StatusPending
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
