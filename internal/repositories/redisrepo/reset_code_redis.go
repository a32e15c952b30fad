package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

const resetCodeKeyPrefix = "password_reset:"

// ErrCodeNotFound is returned when no live code exists for the email.
var ErrCodeNotFound = errors.New("reset code not found")

type resetCodeRepository struct {
	client *redis.Client
}

// NewResetCodeRedis creates the Redis-backed reset code store. Codes are
// written with a TTL so Redis handles destruction even if the service never
// deletes them explicitly.
func NewResetCodeRedis(client *redis.Client) repositories.ResetCodeRepository {
	return &resetCodeRepository{client: client}
}

func resetCodeKey(email string) string {
	return resetCodeKeyPrefix + email
}

func (r *resetCodeRepository) Store(ctx context.Context, email string, code models.ResetCode, ttl time.Duration) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("failed to marshal reset code: %w", err)
	}

	// SET overwrites any previous code for the email and resets the TTL,
	// so the newest code is always the only live one.
	if err := r.client.Set(ctx, resetCodeKey(email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

func (r *resetCodeRepository) Get(ctx context.Context, email string) (*models.ResetCode, error) {
	data, err := r.client.Get(ctx, resetCodeKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}

	var code models.ResetCode
	if err := json.Unmarshal(data, &code); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reset code: %w", err)
	}
	return &code, nil
}

func (r *resetCodeRepository) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, resetCodeKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete reset code: %w", err)
	}
	return nil
}
