package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/validator"
)

func (s *userService) getUser(ctx context.Context, repo repositories.Repository, userID uint) (*models.User, error) {
	user, err := repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", fmt.Sprint(userID))
		}
		return nil, err
	}
	return user, nil
}

// findByUsernameOrEmail resolves an identifier by username first, then by
// email.
func (s *userService) findByUsernameOrEmail(ctx context.Context, repo repositories.Repository, identifier string) (*models.User, error) {
	user, err := repo.User().GetByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	user, err = repo.User().GetByEmail(ctx, identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", identifier)
		}
		return nil, err
	}
	return user, nil
}

// countOtherApprovedAdmins counts APPROVED admins excluding the given user.
// Deletion of the last one is blocked to keep the system administrable.
func (s *userService) countOtherApprovedAdmins(ctx context.Context, repo repositories.Repository, excludeID uint) (int, error) {
	admins, err := repo.User().ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, admin := range admins {
		if admin.ID != excludeID && admin.Status == models.StatusApproved {
			count++
		}
	}
	return count, nil
}

func containsRole(names []models.RoleName, name models.RoleName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func courseTitles(courses []*models.Course) []string {
	titles := make([]string, len(courses))
	for i, c := range courses {
		titles[i] = c.Title
	}
	return titles
}

// checkPasswordPolicy converts validator reason codes into the typed policy
// error the boundary knows how to render.
func checkPasswordPolicy(v *validator.Validator, password string) error {
	errs := v.ValidatePassword(password)
	if len(errs) == 0 {
		return nil
	}

	reasons := make([]string, len(errs))
	for i, e := range errs {
		reasons[i] = e.Rule
	}
	return NewPasswordPolicyError(reasons)
}

func hashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
