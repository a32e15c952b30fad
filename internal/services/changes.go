package services

// ChangeDetail records one field transition for notification content.
type ChangeDetail struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// ChangeSet is the transient diff produced by a user update. It is built
// per operation and handed to the notification layer, never persisted.
type ChangeSet struct {
	Fields          map[string]ChangeDetail `json:"fields"`
	PasswordChanged bool                    `json:"password_changed"`
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{Fields: make(map[string]ChangeDetail)}
}

// Record notes a field transition when old and new actually differ.
func (c *ChangeSet) Record(field, oldValue, newValue string) {
	if oldValue == newValue {
		return
	}
	c.Fields[field] = ChangeDetail{Old: oldValue, New: newValue}
}

// RecordPasswordChange marks the password as changed without recording
// either hash. The redaction markers are what notification templates show.
func (c *ChangeSet) RecordPasswordChange() {
	c.Fields["password"] = ChangeDetail{Old: "***", New: "changed"}
	c.PasswordChanged = true
}

// HasChanges is the trigger callers use for notification side effects.
func (c *ChangeSet) HasChanges() bool {
	return len(c.Fields) > 0 || c.PasswordChanged
}
