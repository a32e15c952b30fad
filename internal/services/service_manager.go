package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/events"
	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/validator"
)

// BootstrapAdmin describes the seed administrator created on first start so
// the approval workflow has an approver.
type BootstrapAdmin struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ServiceManagerConfig holds configuration for the service manager.
type ServiceManagerConfig struct {
	BootstrapAdmin BootstrapAdmin
}

// serviceManager implements ServiceManager
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	config    ServiceManagerConfig

	userService          UserService
	courseService        CourseService
	examService          ExamService
	passwordResetService PasswordResetService
	notificationService  NotificationService
	reportService        ReportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		config:    config,
	}
}

// Initialize wires all services and seeds the role catalog and the
// bootstrap administrator.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.courseService = NewCourseService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.examService = NewExamService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.passwordResetService = NewPasswordResetService(sm.repo, sm.logger, sm.validator)
	sm.notificationService = NewNotificationService(sm.publisher, sm.logger)
	sm.reportService = NewReportService(sm.repo, sm.logger)

	if err := sm.seed(ctx); err != nil {
		return fmt.Errorf("failed to seed initial data: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// seed creates the three roles and, if no approved admin exists, the
// bootstrap administrator account.
func (sm *serviceManager) seed(ctx context.Context) error {
	return sm.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, name := range models.AllRoleNames() {
			if _, err := tx.Role().GetOrCreate(ctx, name); err != nil {
				return err
			}
		}

		admin := sm.config.BootstrapAdmin
		if admin.Username == "" {
			return nil
		}

		admins, err := tx.User().ListByRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		for _, u := range admins {
			if u.Status == models.StatusApproved {
				return nil
			}
		}

		role, err := tx.Role().GetByName(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		hash, err := hashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
		}

		sm.logger.Info("Seeding bootstrap administrator", "username", admin.Username)
		return tx.User().Create(ctx, &models.User{
			Username:     admin.Username,
			Email:        admin.Email,
			PasswordHash: hash,
			FirstName:    admin.FirstName,
			LastName:     admin.LastName,
			Status:       models.StatusApproved,
			Roles:        []models.Role{*role},
		})
	})
}

// Service getters
func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.courseService
}

func (sm *serviceManager) Exam() ExamService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.examService
}

func (sm *serviceManager) PasswordReset() PasswordResetService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.passwordResetService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.notificationService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.reportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}
	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
