package models

import "time"

// ChangeType records where a label mutation came from
type ChangeType string

const (
	// ChangeManual is a direct edit through the API
	ChangeManual ChangeType = "manual"
	// ChangeCommand is a mutation produced by the free-text command interpreter
	ChangeCommand ChangeType = "chatbot"
)

// Valid reports whether c is a known change type
func (c ChangeType) Valid() bool {
	return c == ChangeManual || c == ChangeCommand
}

// HistoryEntry is an immutable audit record of one label value change.
// Entries are only ever inserted, in the same transaction as the change they describe.
type HistoryEntry struct {
	ID         int64      `json:"id"`
	LabelID    int64      `json:"label_id"`
	LabelKey   string     `json:"label_key"`
	OldValue   string     `json:"old_value"`
	NewValue   string     `json:"new_value"`
	ChangedBy  string     `json:"changed_by"`
	ChangeType ChangeType `json:"change_type"`
	SourceText *string    `json:"chatbot_command"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GetID returns the entry ID (used by the quiet CLI output mode)
func (h *HistoryEntry) GetID() int {
	return int(h.ID)
}
