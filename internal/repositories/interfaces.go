package repositories

import (
	"context"
	"time"

	"github.com/hossein5161/exam/internal/models"
)

// ===== FILTER STRUCTS =====

// UserFilters narrows user listings; empty fields match everything.
type UserFilters struct {
	RoleName  string             `json:"role_name"` // external "ROLE_*" form
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Status    *models.UserStatus `json:"status"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// CourseFilters narrows course listings.
type CourseFilters struct {
	TeacherID *uint  `json:"teacher_id"`
	Query     string `json:"query"` // matches title or course code
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// ===== ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	Update(ctx context.Context, user *models.User) error
	// ReplaceRoles swaps the user's role set atomically (full replacement).
	ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context) ([]*models.User, error)
	Search(ctx context.Context, filters UserFilters) ([]*models.User, error)
	// ListByRole returns all users holding the role, regardless of status.
	ListByRole(ctx context.Context, role models.RoleName) ([]*models.User, error)
}

type RoleRepository interface {
	GetByName(ctx context.Context, name models.RoleName) (*models.Role, error)
	GetOrCreate(ctx context.Context, name models.RoleName) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, error)

	SetTeacher(ctx context.Context, course *models.Course, teacher *models.User) error
	AddStudent(ctx context.Context, course *models.Course, student *models.User) error
	RemoveStudent(ctx context.Context, course *models.Course, studentID uint) error

	// Guard inputs for the lifecycle engine; must reflect the same
	// transactional view the guard decision is based on.
	FindByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error)
	FindByStudent(ctx context.Context, studentID uint) ([]*models.Course, error)
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Exam, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]*models.Exam, error)
}

// ResetCodeRepository is the short-lived code store keyed by email.
// Store overwrites any live code for the same email; the TTL is the
// destruction policy.
type ResetCodeRepository interface {
	Store(ctx context.Context, email string, code models.ResetCode, ttl time.Duration) error
	Get(ctx context.Context, email string) (*models.ResetCode, error)
	Delete(ctx context.Context, email string) error
}
