package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/repositories/redisrepo"
	"github.com/hossein5161/exam/internal/validator"
)

const resetCodeTTL = 5 * time.Minute

type passwordResetService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator

	// now is injectable so expiry behavior is testable.
	now func() time.Time
}

func NewPasswordResetService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) PasswordResetService {
	return &passwordResetService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// GenerateAndStore issues a fresh 6-digit code for the email, replacing any
// live code. Only one code per email exists at a time.
func (s *passwordResetService) GenerateAndStore(ctx context.Context, email string) (string, error) {
	s.logger.Info("Generating password reset code", "email", email)

	code := fmt.Sprintf("%06d", 100000+rand.IntN(900000))

	// Delete first so a failed store cannot leave the old code live past
	// the point the caller believes it was replaced.
	if err := s.repo.ResetCode().Delete(ctx, email); err != nil {
		return "", err
	}

	now := s.now()
	record := models.ResetCode{
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(resetCodeTTL),
	}
	if err := s.repo.ResetCode().Store(ctx, email, record, resetCodeTTL); err != nil {
		return "", err
	}

	return code, nil
}

// Validate fails closed: a missing, expired, or mismatched code all return
// false. Expired records are deleted on sight.
func (s *passwordResetService) Validate(ctx context.Context, email, code string) (bool, error) {
	record, err := s.repo.ResetCode().Get(ctx, email)
	if err != nil {
		if errors.Is(err, redisrepo.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}

	if record.Expired(s.now()) {
		if err := s.repo.ResetCode().Delete(ctx, email); err != nil {
			s.logger.Warn("Failed to delete expired reset code", "email", email, "error", err)
		}
		return false, nil
	}

	return record.Code == code, nil
}

func (s *passwordResetService) Delete(ctx context.Context, email string) error {
	return s.repo.ResetCode().Delete(ctx, email)
}

// ConfirmReset verifies the code, replaces the account password, and
// consumes the code.
func (s *passwordResetService) ConfirmReset(ctx context.Context, req *ResetPasswordRequest) error {
	s.logger.Info("Confirming password reset", "email", req.Email)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	if req.NewPassword != req.ConfirmPassword {
		return NewPreconditionError("password confirmation does not match")
	}
	if err := checkPasswordPolicy(s.validator, req.NewPassword); err != nil {
		return err
	}

	ok, err := s.Validate(ctx, req.Email, req.Code)
	if err != nil {
		return err
	}
	if !ok {
		return NewPreconditionError("reset code is invalid or expired")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByEmail(ctx, req.Email)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("user", req.Email)
			}
			return err
		}

		user.PasswordHash = hash
		return tx.User().Update(ctx, user)
	})
	if err != nil {
		return err
	}

	// The code is single-use.
	if err := s.repo.ResetCode().Delete(ctx, req.Email); err != nil {
		s.logger.Warn("Failed to delete consumed reset code", "email", req.Email, "error", err)
	}

	return nil
}
