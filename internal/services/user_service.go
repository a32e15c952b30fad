package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== REGISTRATION =====

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	s.logger.Info("Registering user", "username", req.Username, "role", req.Role)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}
	if err := checkPasswordPolicy(s.validator, req.Password); err != nil {
		return nil, err
	}

	roleName, ok := models.ParseRoleName(req.Role)
	if !ok {
		return nil, NewNotFoundError("role", req.Role)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// A REJECTED row with the same username or email is stale and is
		// reclaimed; APPROVED or PENDING rows block the registration.
		if err := s.reclaimOrRejectConflict(ctx, tx, "username", req.Username, tx.User().GetByUsername); err != nil {
			return err
		}
		if err := s.reclaimOrRejectConflict(ctx, tx, "email", req.Email, tx.User().GetByEmail); err != nil {
			return err
		}

		role, err := tx.Role().GetByName(ctx, roleName)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("role", req.Role)
			}
			return err
		}

		user = &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Status:       models.StatusPending,
			Roles:        []models.Role{*role},
		}
		return tx.User().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *userService) reclaimOrRejectConflict(ctx context.Context, tx repositories.Repository, field, value string, lookup func(context.Context, string) (*models.User, error)) error {
	existing, err := lookup(ctx, value)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	if existing.IsActive() {
		return NewConflictError("user", fmt.Sprintf("%s %q is already taken by an active account", field, value))
	}

	// Rejected account: delete the stale row so the identity can be reused.
	s.logger.Info("Reclaiming rejected account", "user_id", existing.ID, field, value)
	return tx.User().Delete(ctx, existing.ID)
}

// ===== APPROVAL WORKFLOW =====

func (s *userService) Approve(ctx context.Context, userID uint) (*models.User, error) {
	s.logger.Info("Approving user", "user_id", userID)

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		user, err = s.getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Approving an already-approved user is a no-op.
		if user.Status == models.StatusApproved {
			return nil
		}

		user.Status = models.StatusApproved
		user.RejectionReason = nil
		return tx.User().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Reject(ctx context.Context, userID uint, reason string) (*models.User, error) {
	s.logger.Info("Rejecting user", "user_id", userID)

	if reason == "" {
		return nil, NewPreconditionError("rejection reason must not be empty")
	}

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		user, err = s.getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		user.Status = models.StatusRejected
		user.RejectionReason = &reason
		return tx.User().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ===== UPDATE WITH CHANGE TRACKING =====

func (s *userService) Update(ctx context.Context, userID uint, req *UpdateUserRequest) (*models.User, *ChangeSet, error) {
	s.logger.Info("Updating user", "user_id", userID)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, nil, errs
	}

	changes := NewChangeSet()

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		user, err = s.getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Nil or empty patch fields mean "no change".
		if req.FirstName != nil && *req.FirstName != "" && *req.FirstName != user.FirstName {
			changes.Record("first_name", user.FirstName, *req.FirstName)
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil && *req.LastName != "" && *req.LastName != user.LastName {
			changes.Record("last_name", user.LastName, *req.LastName)
			user.LastName = *req.LastName
		}
		if req.Password != nil && *req.Password != "" {
			if err := checkPasswordPolicy(s.validator, *req.Password); err != nil {
				return err
			}
			hash, err := hashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.PasswordHash = hash
			changes.RecordPasswordChange()
		}

		if !changes.HasChanges() {
			return nil
		}
		return tx.User().Update(ctx, user)
	})
	if err != nil {
		return nil, nil, err
	}

	return user, changes, nil
}

// ===== ROLE MANAGEMENT =====

func (s *userService) ChangeRoles(ctx context.Context, userID uint, roleNames []string) (*models.User, error) {
	s.logger.Info("Changing user roles", "user_id", userID, "roles", roleNames)

	if len(roleNames) == 0 {
		return nil, NewPreconditionError("role set must not be empty")
	}

	newNames := make([]models.RoleName, 0, len(roleNames))
	for _, raw := range roleNames {
		name, ok := models.ParseRoleName(raw)
		if !ok {
			return nil, NewNotFoundError("role", raw)
		}
		newNames = append(newNames, name)
	}

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		user, err = s.getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Removal guards: a role cannot be stripped while course
		// assignments still depend on it.
		if user.HasRole(models.RoleTeacher) && !containsRole(newNames, models.RoleTeacher) {
			courses, err := tx.Course().FindByTeacher(ctx, user.ID)
			if err != nil {
				return err
			}
			if len(courses) > 0 {
				return NewCourseConstraintError(user.ID, string(models.RoleTeacher), "change roles", courseTitles(courses))
			}
		}
		if user.HasRole(models.RoleStudent) && !containsRole(newNames, models.RoleStudent) {
			courses, err := tx.Course().FindByStudent(ctx, user.ID)
			if err != nil {
				return err
			}
			if len(courses) > 0 {
				return NewCourseConstraintError(user.ID, string(models.RoleStudent), "change roles", courseTitles(courses))
			}
		}

		roles := make([]models.Role, 0, len(newNames))
		for _, name := range newNames {
			role, err := tx.Role().GetByName(ctx, name)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return NewNotFoundError("role", string(name))
				}
				return err
			}
			roles = append(roles, *role)
		}

		return tx.User().ReplaceRoles(ctx, user, roles)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User roles changed", "user_id", user.ID, "roles", user.RoleNames())
	return user, nil
}

func (s *userService) AddRoleToExistingUser(ctx context.Context, req *AddRoleRequest) (*models.User, error) {
	s.logger.Info("Adding role to existing user", "identifier", req.Identifier, "role", req.Role)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	roleName, ok := models.ParseRoleName(req.Role)
	if !ok {
		return nil, NewNotFoundError("role", req.Role)
	}

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		user, err = s.findByUsernameOrEmail(ctx, tx, req.Identifier)
		if err != nil {
			return err
		}

		if !verifyPassword(req.Password, user.PasswordHash) {
			return NewPermissionError(user.ID, "add role", "invalid credentials")
		}
		if !user.IsActive() {
			return NewPreconditionError("account is not approved or pending")
		}
		if user.HasRole(roleName) {
			return NewConflictError("user", fmt.Sprintf("role %s is already held", roleName))
		}

		role, err := tx.Role().GetByName(ctx, roleName)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("role", req.Role)
			}
			return err
		}

		// Union add; the new role re-enters the approval workflow.
		roles := append(user.RolesCopy(), *role)
		if err := tx.User().ReplaceRoles(ctx, user, roles); err != nil {
			return err
		}

		user.Status = models.StatusPending
		user.RejectionReason = nil
		return tx.User().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ===== DELETION =====

func (s *userService) Delete(ctx context.Context, targetID, actingUserID uint) error {
	s.logger.Info("Deleting user", "target_id", targetID, "acting_user_id", actingUserID)

	if targetID == actingUserID {
		return NewPermissionError(actingUserID, "delete user", "self deletion is not allowed")
	}

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		target, err := s.getUser(ctx, tx, targetID)
		if err != nil {
			return err
		}

		if target.HasRole(models.RoleAdmin) {
			remaining, err := s.countOtherApprovedAdmins(ctx, tx, target.ID)
			if err != nil {
				return err
			}
			if remaining == 0 {
				return &LastAdminError{UserID: target.ID}
			}
		}

		if target.HasRole(models.RoleTeacher) {
			courses, err := tx.Course().FindByTeacher(ctx, target.ID)
			if err != nil {
				return err
			}
			if len(courses) > 0 {
				return NewCourseConstraintError(target.ID, string(models.RoleTeacher), "delete user", courseTitles(courses))
			}
		}

		enrolled, err := tx.Course().FindByStudent(ctx, target.ID)
		if err != nil {
			return err
		}
		if len(enrolled) > 0 {
			return NewCourseConstraintError(target.ID, string(models.RoleStudent), "delete user", courseTitles(enrolled))
		}

		return tx.User().Delete(ctx, target.ID)
	})
}

// ===== QUERY OPERATIONS =====

func (s *userService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.getUser(ctx, s.repo, userID)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", username)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.User().List(ctx)
}

func (s *userService) Search(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	return s.repo.User().Search(ctx, filters)
}

func (s *userService) ListPending(ctx context.Context) ([]*models.User, error) {
	pending := models.StatusPending
	return s.repo.User().Search(ctx, repositories.UserFilters{Status: &pending})
}
