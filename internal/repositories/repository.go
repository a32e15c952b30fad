package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates all per-entity repositories behind one handle.
type Repository interface {
	User() UserRepository
	Role() RoleRepository
	Course() CourseRepository
	Exam() ExamRepository

	// ResetCode lives in a separate Redis keyspace; it is not covered by
	// WithTransaction and offers no cross-store atomicity.
	ResetCode() ResetCodeRepository

	// WithTransaction executes fn against a transaction-scoped Repository.
	// All relational mutations inside fn commit or roll back together.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns the Repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// IsNotFoundError reports whether err means "row does not exist" rather than
// an infrastructure failure.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
