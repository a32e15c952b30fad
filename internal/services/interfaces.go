package services

import (
	"context"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

// ===== USER RELATED DTOs =====

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"required"`
}

// UpdateUserRequest carries partial-update semantics: nil fields mean
// "no change". Password, when present, is validated and always overwrites.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Password  *string `json:"password"`
}

type ChangeRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

// AddRoleRequest lets an existing user request a second role by proving
// ownership of the account with their password.
type AddRoleRequest struct {
	Identifier string `json:"identifier" validate:"required"` // username or email
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ===== COURSE RELATED DTOs =====

type CreateCourseRequest struct {
	CourseCode string `json:"course_code" validate:"required,max=50"`
	Title      string `json:"title" validate:"required,max=200"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type UpdateCourseRequest struct {
	CourseCode *string `json:"course_code" validate:"omitempty,max=50"`
	Title      *string `json:"title" validate:"omitempty,max=200"`
	StartDate  *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type CourseParticipantsResponse struct {
	Course   *models.Course `json:"course"`
	Teacher  *models.User   `json:"teacher"`
	Students []models.User  `json:"students"`
}

// ===== EXAM RELATED DTOs =====

type CreateExamRequest struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
	CourseID        uint    `json:"course_id" validate:"required"`
}

type UpdateExamRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gt=0"`
}

// ===== PASSWORD RESET DTOs =====

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required,len=6"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ===== SERVICE INTERFACES =====

// UserService is the account lifecycle engine: registration with admin
// approval, role changes under enrollment guards, and guarded deletion.
type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Approve(ctx context.Context, userID uint) (*models.User, error)
	Reject(ctx context.Context, userID uint, reason string) (*models.User, error)

	// Update applies a partial patch and reports what actually changed so
	// the caller can drive notifications from the diff.
	Update(ctx context.Context, userID uint, req *UpdateUserRequest) (*models.User, *ChangeSet, error)

	// ChangeRoles replaces the user's entire role set atomically.
	ChangeRoles(ctx context.Context, userID uint, roleNames []string) (*models.User, error)
	AddRoleToExistingUser(ctx context.Context, req *AddRoleRequest) (*models.User, error)

	Delete(ctx context.Context, targetID, actingUserID uint) error

	GetByID(ctx context.Context, userID uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Search(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error)
	ListPending(ctx context.Context) ([]*models.User, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, courseID uint) (*models.Course, error)
	Update(ctx context.Context, courseID uint, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, courseID uint) error
	List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error)

	AssignTeacher(ctx context.Context, courseID, userID uint) (*models.Course, error)
	AddStudent(ctx context.Context, courseID, userID uint) (*models.Course, error)
	RemoveStudent(ctx context.Context, courseID, userID uint) error
	Participants(ctx context.Context, courseID uint) (*CourseParticipantsResponse, error)

	FindByTeacher(ctx context.Context, teacherID uint) ([]*models.Course, error)
	FindByStudent(ctx context.Context, studentID uint) ([]*models.Course, error)
}

type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, teacherID uint) (*models.Exam, error)
	GetByID(ctx context.Context, examID uint) (*models.Exam, error)
	Update(ctx context.Context, examID uint, req *UpdateExamRequest, teacherID uint) (*models.Exam, error)
	Delete(ctx context.Context, examID, teacherID uint) error
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Exam, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]*models.Exam, error)
	IsOwner(ctx context.Context, examID, teacherID uint) (bool, error)
}

// PasswordResetService manages the short-lived reset codes in Redis.
type PasswordResetService interface {
	GenerateAndStore(ctx context.Context, email string) (string, error)
	Validate(ctx context.Context, email, code string) (bool, error)
	Delete(ctx context.Context, email string) error

	// ConfirmReset validates the code and, on success, replaces the
	// password of the matching account and consumes the code.
	ConfirmReset(ctx context.Context, req *ResetPasswordRequest) error
}

// NotificationService publishes lifecycle events for the notification
// transport. Every method is fire-and-forget: failures are logged by the
// implementation and never propagate to the mutation that triggered them.
type NotificationService interface {
	UserRegistered(ctx context.Context, user *models.User)
	UserApproved(ctx context.Context, user *models.User)
	UserRejected(ctx context.Context, user *models.User, reason string)
	UserUpdated(ctx context.Context, user *models.User, changes *ChangeSet)
	UserDeleted(ctx context.Context, user *models.User)
	UserRolesChanged(ctx context.Context, user *models.User, oldRoles, newRoles []models.RoleName)
	PasswordResetRequested(ctx context.Context, email, code string)
	PasswordResetConfirmed(ctx context.Context, email string)
}

// ReportService exports administrative spreadsheets.
type ReportService interface {
	ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error)
	ExportCourseRoster(ctx context.Context, courseID uint) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	User() UserService
	Course() CourseService
	Exam() ExamService
	PasswordReset() PasswordResetService
	Notification() NotificationService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
