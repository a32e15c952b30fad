package redisrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hossein5161/exam/internal/models"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *resetCodeRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, &resetCodeRepository{client: client}
}

func testCode(code string) models.ResetCode {
	now := time.Now().UTC().Truncate(time.Second)
	return models.ResetCode{
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func TestStoreAndGet(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Store(ctx, "alice@example.com", testCode("123456"), 5*time.Minute); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := store.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Code != "123456" {
		t.Errorf("code = %s", got.Code)
	}
}

func TestGetMissingCode(t *testing.T) {
	_, store := newTestStore(t)

	_, err := store.Get(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestStoreOverwritesPreviousCode(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Store(ctx, "alice@example.com", testCode("111111"), 5*time.Minute); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := store.Store(ctx, "alice@example.com", testCode("222222"), 5*time.Minute); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := store.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Code != "222222" {
		t.Errorf("expected the newest code, got %s", got.Code)
	}
}

func TestCodeExpiresWithTTL(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Store(ctx, "alice@example.com", testCode("123456"), 5*time.Minute); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	mr.FastForward(5*time.Minute + time.Second)

	if _, err := store.Get(ctx, "alice@example.com"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected the key to expire, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Store(ctx, "alice@example.com", testCode("123456"), 5*time.Minute); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := store.Delete(ctx, "alice@example.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "alice@example.com"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "alice@example.com"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestKeysAreScopedByPrefix(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	if err := store.Store(ctx, "alice@example.com", testCode("123456"), 5*time.Minute); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if !mr.Exists("password_reset:alice@example.com") {
		t.Error("expected the key to carry the password_reset prefix")
	}
}
