// Package events defines the live-update wire protocol shared by the server
// hub and its clients.
package events

import "time"

// ProtocolVersion is stamped on every frame the server sends
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	EventLabelUpdated EventType = "label-updated"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// Message types used on the wire
const (
	MessageEvent = "event"
	MessagePing  = "ping"
	MessagePong  = "pong"
)

// Event represents a committed label change
type Event struct {
	Type       EventType `json:"type"`
	Key        string    `json:"key,omitempty"`
	Page       string    `json:"page,omitempty"`
	OldValue   string    `json:"oldValue,omitempty"`
	NewValue   string    `json:"newValue,omitempty"`
	ChangedBy  string    `json:"changedBy,omitempty"`
	ChangeType string    `json:"changeType,omitempty"`
	SequenceID int64     `json:"sequenceId"` // Monotonically increasing per hub
	Timestamp  time.Time `json:"timestamp"`  // When the change was committed
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version int    `json:"version"`
	Type    string `json:"type"` // "event", "ping", "pong"
	Event   *Event `json:"event,omitempty"`
}
