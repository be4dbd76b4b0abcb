package model

import "time"

// Performer is one roster record, supplied by the production team and
// read-only during an editing session.
type Performer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lineup is a finalized grid snapshot persisted for an event. Payload
// holds the serialized schedule snapshot.
type Lineup struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditEntry records one committed mutation of a session's grid.
type AuditEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	EventType string    `json:"event_type"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
