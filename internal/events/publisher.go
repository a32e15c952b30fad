package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published by the user lifecycle and password reset flows.
const (
	TypeUserRegistered         = "user.registered"
	TypeUserApproved           = "user.approved"
	TypeUserRejected           = "user.rejected"
	TypeUserUpdated            = "user.updated"
	TypeUserDeleted            = "user.deleted"
	TypeUserRolesChanged       = "user.roles_changed"
	TypePasswordResetRequested = "user.password_reset_requested"
	TypePasswordResetConfirmed = "user.password_reset_confirmed"
)

const (
	eventSource  = "exam-admin-service"
	eventVersion = "1.0"
)

// Event is the envelope every published message uses.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and provenance filled in.
func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events to the notification transport.
// Publishing is fire-and-forget from the caller's perspective: a delivery
// failure must never roll back the mutation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
