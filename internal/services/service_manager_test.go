package services

import (
	"context"
	"testing"

	"github.com/hossein5161/exam/internal/events"
	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/validator"
)

func newServiceManagerForTest(t *testing.T, repo *MockRepository, cfg ServiceManagerConfig) ServiceManager {
	t.Helper()
	publisher := events.NewMockEventPublisher(testLogger())
	return NewServiceManager(nil, repo, testLogger(), validator.New(), publisher, cfg)
}

func TestInitializeSeedsBootstrapAdmin(t *testing.T) {
	repo := NewMockRepository()
	sm := newServiceManagerForTest(t, repo, ServiceManagerConfig{
		BootstrapAdmin: BootstrapAdmin{
			Username:  "root",
			Email:     "root@example.com",
			Password:  validPassword,
			FirstName: "System",
			LastName:  "Administrator",
		},
	})
	ctx := context.Background()

	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	admin, err := repo.User().GetByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("bootstrap admin not created: %v", err)
	}
	if admin.Status != models.StatusApproved {
		t.Errorf("bootstrap admin status = %s, want APPROVED", admin.Status)
	}
	if !admin.HasRole(models.RoleAdmin) {
		t.Errorf("bootstrap admin roles = %v", admin.RoleNames())
	}
	if !verifyPassword(validPassword, admin.PasswordHash) {
		t.Error("bootstrap admin password not hashed correctly")
	}
}

func TestInitializeSkipsSeedWhenAdminExists(t *testing.T) {
	repo := NewMockRepository()
	seedUser(t, repo, "existing-admin", models.StatusApproved, models.RoleAdmin)

	sm := newServiceManagerForTest(t, repo, ServiceManagerConfig{
		BootstrapAdmin: BootstrapAdmin{Username: "root", Email: "root@example.com", Password: validPassword},
	})
	ctx := context.Background()

	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := repo.User().GetByUsername(ctx, "root"); err == nil {
		t.Error("bootstrap admin should not be created while an approved admin exists")
	}
}

func TestServiceGettersPanicBeforeInitialize(t *testing.T) {
	sm := newServiceManagerForTest(t, NewMockRepository(), ServiceManagerConfig{})

	defer func() {
		if recover() == nil {
			t.Error("expected panic from uninitialized manager")
		}
	}()
	sm.User()
}

func TestHealthCheckLifecycle(t *testing.T) {
	sm := newServiceManagerForTest(t, NewMockRepository(), ServiceManagerConfig{})
	ctx := context.Background()

	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("health check should fail before Initialize")
	}
	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := sm.HealthCheck(ctx); err != nil {
		t.Errorf("health check failed: %v", err)
	}
	if err := sm.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("health check should fail after Shutdown")
	}
	// Shutdown is idempotent.
	if err := sm.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown failed: %v", err)
	}
}
