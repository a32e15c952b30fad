package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Services return one of these (usually wrapped in a typed
// error below) for every expected business condition; handlers translate
// the kind into an HTTP status and a localized message. Infrastructure
// failures are returned as plain wrapped errors and map to 500.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvariantBlocked   = errors.New("operation blocked by domain invariant")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidationFailed   = errors.New("validation failed")
)

// NotFoundError identifies the missing resource so the boundary can name it.
type NotFoundError struct {
	Resource string
	Key      string
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError covers duplicate active accounts, roles already held, and
// teacher/student double-membership on the same course.
type ConflictError struct {
	Resource string
	Reason   string
}

func NewConflictError(resource, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// PreconditionError covers inputs that are well-formed but not allowed in
// the current state (empty role set, unapproved account, role mismatch).
type PreconditionError struct {
	Reason string
}

func NewPreconditionError(reason string) *PreconditionError {
	return &PreconditionError{Reason: reason}
}

func (e *PreconditionError) Error() string { return e.Reason }

func (e *PreconditionError) Unwrap() error { return ErrPreconditionFailed }

// PermissionError covers self-deletion and credential mismatches.
type PermissionError struct {
	UserID uint
	Action string
	Reason string
}

func NewPermissionError(userID uint, action, reason string) *PermissionError {
	return &PermissionError{UserID: userID, Action: action, Reason: reason}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d may not %s: %s", e.UserID, e.Action, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrUnauthorized }

// CourseConstraintError blocks a role change or deletion while the user is
// still attached to courses. Titles are carried so the boundary can tell
// the operator exactly which assignments to resolve first.
type CourseConstraintError struct {
	UserID       uint
	Role         string // role whose removal is blocked
	Action       string // "change roles" or "delete user"
	CourseTitles []string
}

func NewCourseConstraintError(userID uint, role, action string, titles []string) *CourseConstraintError {
	return &CourseConstraintError{UserID: userID, Role: role, Action: action, CourseTitles: titles}
}

func (e *CourseConstraintError) Error() string {
	quoted := make([]string, len(e.CourseTitles))
	for i, t := range e.CourseTitles {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return fmt.Sprintf("cannot %s: user %d still holds %s assignments in courses %s",
		e.Action, e.UserID, strings.ToLower(e.Role), strings.Join(quoted, ", "))
}

func (e *CourseConstraintError) Unwrap() error { return ErrInvariantBlocked }

// LastAdminError protects the final approved administrator from deletion.
type LastAdminError struct {
	UserID uint
}

func (e *LastAdminError) Error() string {
	return fmt.Sprintf("cannot delete user %d: at least one approved admin must remain", e.UserID)
}

func (e *LastAdminError) Unwrap() error { return ErrInvariantBlocked }

// PasswordPolicyError carries one reason code per violated password rule.
type PasswordPolicyError struct {
	Reasons []string
}

func NewPasswordPolicyError(reasons []string) *PasswordPolicyError {
	return &PasswordPolicyError{Reasons: reasons}
}

func (e *PasswordPolicyError) Error() string {
	return fmt.Sprintf("password rejected by policy: %s", strings.Join(e.Reasons, ", "))
}

func (e *PasswordPolicyError) Unwrap() error { return ErrValidationFailed }
