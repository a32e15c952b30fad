package services

import (
	"context"
	"log/slog"

	"github.com/hossein5161/exam/internal/events"
	"github.com/hossein5161/exam/internal/models"
)

// notificationService publishes lifecycle events for the notification
// transport. Delivery failures downgrade to warnings; the mutation that
// produced the event has already committed.
type notificationService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationService(publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	event := events.NewEvent(eventType, data)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish notification event",
			"event_type", eventType, "event_id", event.ID, "error", err)
	}
}

func userData(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"user_id":   user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName(),
		"status":    user.Status,
		"roles":     user.RoleNames(),
	}
}

func (s *notificationService) UserRegistered(ctx context.Context, user *models.User) {
	s.publish(ctx, events.TypeUserRegistered, userData(user))
}

func (s *notificationService) UserApproved(ctx context.Context, user *models.User) {
	s.publish(ctx, events.TypeUserApproved, userData(user))
}

func (s *notificationService) UserRejected(ctx context.Context, user *models.User, reason string) {
	data := userData(user)
	data["reason"] = reason
	s.publish(ctx, events.TypeUserRejected, data)
}

func (s *notificationService) UserUpdated(ctx context.Context, user *models.User, changes *ChangeSet) {
	if changes == nil || !changes.HasChanges() {
		return
	}
	data := userData(user)
	data["changes"] = changes.Fields
	data["password_changed"] = changes.PasswordChanged
	s.publish(ctx, events.TypeUserUpdated, data)
}

func (s *notificationService) UserDeleted(ctx context.Context, user *models.User) {
	s.publish(ctx, events.TypeUserDeleted, userData(user))
}

func (s *notificationService) UserRolesChanged(ctx context.Context, user *models.User, oldRoles, newRoles []models.RoleName) {
	data := userData(user)
	data["old_roles"] = oldRoles
	data["new_roles"] = newRoles
	s.publish(ctx, events.TypeUserRolesChanged, data)
}

func (s *notificationService) PasswordResetRequested(ctx context.Context, email, code string) {
	s.publish(ctx, events.TypePasswordResetRequested, map[string]interface{}{
		"email": email,
		"code":  code,
	})
}

func (s *notificationService) PasswordResetConfirmed(ctx context.Context, email string) {
	s.publish(ctx, events.TypePasswordResetConfirmed, map[string]interface{}{
		"email": email,
	})
}
