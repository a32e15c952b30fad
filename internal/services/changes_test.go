package services

import "testing"

func TestChangeSetRecord(t *testing.T) {
	changes := NewChangeSet()

	if changes.HasChanges() {
		t.Error("fresh change set should be empty")
	}

	changes.Record("first_name", "Ali", "Sara")
	if got := changes.Fields["first_name"]; got.Old != "Ali" || got.New != "Sara" {
		t.Errorf("first_name = %+v", got)
	}
	if !changes.HasChanges() {
		t.Error("expected HasChanges after Record")
	}
}

func TestChangeSetSkipsEqualValues(t *testing.T) {
	changes := NewChangeSet()

	changes.Record("last_name", "Rezaei", "Rezaei")
	if changes.HasChanges() {
		t.Errorf("equal values must not be recorded: %+v", changes.Fields)
	}
}

func TestChangeSetRedactsPassword(t *testing.T) {
	changes := NewChangeSet()

	changes.RecordPasswordChange()
	if got := changes.Fields["password"]; got.Old != "***" || got.New != "changed" {
		t.Errorf("password change must be redacted, got %+v", got)
	}
	if !changes.PasswordChanged {
		t.Error("PasswordChanged flag not set")
	}
}
