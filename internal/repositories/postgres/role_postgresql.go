package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

type roleRepository struct {
	db *gorm.DB
}

func NewRolePostgreSQL(db *gorm.DB) repositories.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).
		Where("name = ?", name.ExternalName()).
		First(&role).Error; err != nil {
		return nil, handleDBError(err, "get role by name")
	}
	return &role, nil
}

func (r *roleRepository) GetOrCreate(ctx context.Context, name models.RoleName) (*models.Role, error) {
	role := models.Role{Name: name.ExternalName()}
	if err := r.db.WithContext(ctx).
		Where("name = ?", role.Name).
		FirstOrCreate(&role).Error; err != nil {
		return nil, handleDBError(err, "get or create role")
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, handleDBError(err, "list roles")
	}
	return roles, nil
}
