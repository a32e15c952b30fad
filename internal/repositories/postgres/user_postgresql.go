package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		First(&user, id).Error; err != nil {
		return nil, handleDBError(err, "get user by id")
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by username")
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by email")
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).
		Omit("Roles").
		Save(user).Error; err != nil {
		return handleDBError(err, "update user")
	}
	return nil
}

func (r *userRepository) ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error {
	if err := r.db.WithContext(ctx).
		Model(user).
		Association("Roles").
		Replace(toRolePointers(roles)...); err != nil {
		return handleDBError(err, "replace user roles")
	}
	user.Roles = roles
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	user := models.User{ID: id}

	// Clear join rows first so the row delete cannot leave orphaned
	// user_roles references behind.
	if err := r.db.WithContext(ctx).Model(&user).Association("Roles").Clear(); err != nil {
		return handleDBError(err, "clear user roles")
	}
	if err := r.db.WithContext(ctx).Delete(&user).Error; err != nil {
		return handleDBError(err, "delete user")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Order("id").
		Find(&users).Error; err != nil {
		return nil, handleDBError(err, "list users")
	}
	return users, nil
}

func (r *userRepository) Search(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Preload("Roles").
		Distinct("users.*")

	if filters.RoleName != "" {
		query = query.
			Joins("LEFT JOIN user_roles ur ON ur.user_id = users.id").
			Joins("LEFT JOIN roles r ON r.id = ur.role_id").
			Where("r.name = ?", filters.RoleName)
	}
	if filters.FirstName != "" {
		query = query.Where("users.first_name ILIKE ?", "%"+filters.FirstName+"%")
	}
	if filters.LastName != "" {
		query = query.Where("users.last_name ILIKE ?", "%"+filters.LastName+"%")
	}
	if filters.Status != nil {
		query = query.Where("users.status = ?", *filters.Status)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var users []*models.User
	if err := query.Order("users.id").Find(&users).Error; err != nil {
		return nil, handleDBError(err, "search users")
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.RoleName) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Joins("JOIN user_roles ur ON ur.user_id = users.id").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("r.name = ?", role.ExternalName()).
		Find(&users).Error
	if err != nil {
		return nil, handleDBError(err, "list users by role")
	}
	return users, nil
}

func toRolePointers(roles []models.Role) []interface{} {
	out := make([]interface{}, len(roles))
	for i := range roles {
		out[i] = &roles[i]
	}
	return out
}

// handleDBError wraps storage errors with the failed operation while keeping
// gorm.ErrRecordNotFound visible to errors.Is.
func handleDBError(err error, op string) error {
	return fmt.Errorf("failed to %s: %w", op, err)
}
