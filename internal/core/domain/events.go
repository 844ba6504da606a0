package domain

import "time"

// StatementCreatedEvent is emitted after a statement row is persisted.
type StatementCreatedEvent struct {
	EventID      string
	StatementID  string
	PoliticianID string
	AuthorID     string
	RecordedAt   time.Time
	Augmented    bool
	Metadata     map[string]any
}

// StatementUpdatedEvent is emitted after an owner edits a statement inside
// the grace window.
type StatementUpdatedEvent struct {
	EventID       string
	StatementID   string
	PoliticianID  string
	AuthorID      string
	UpdatedAt     time.Time
	ChangedFields []string
	Metadata      map[string]any
}

// StatementDeletedEvent is emitted after a statement is tombstoned.
type StatementDeletedEvent struct {
	EventID      string
	StatementID  string
	PoliticianID string
	AuthorID     string
	DeletedAt    time.Time
	Metadata     map[string]any
}
