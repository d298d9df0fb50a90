package models

import "time"

// Label is a uniquely keyed piece of display text.
// Key is fixed at provisioning time; only Value and LastModifiedBy change afterwards.
type Label struct {
	ID             int64     `json:"id"`
	Key            string    `json:"label_key"`
	Value          string    `json:"label_value"`
	Page           string    `json:"page"`
	Position       int       `json:"position"`
	Description    string    `json:"description,omitempty"`
	LastModifiedBy *string   `json:"updated_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetID returns the label ID (used by the quiet CLI output mode)
func (l *Label) GetID() int {
	return int(l.ID)
}

// Suggestion formats the label the way the chat interface lists candidates
func (l *Label) Suggestion() string {
	return l.Key + " (" + l.Value + ")"
}
