package domain

import "time"

// Statement is a recorded utterance attributed to a politician. OccurredAt
// is when the politician said it; RecordedAt is when the contributor filed
// it. A non-nil DeletedAt marks a tombstone: the row survives, reads hide it.
type Statement struct {
	ID           string     `json:"id"`
	PoliticianID string     `json:"politician_id"`
	AuthorID     string     `json:"author_id"`
	BodyText     string     `json:"body_text"`
	OccurredAt   time.Time  `json:"occurred_at"`
	RecordedAt   time.Time  `json:"recorded_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the statement has been tombstoned.
func (s Statement) Deleted() bool {
	return s.DeletedAt != nil
}

// Age returns how long ago the statement was recorded.
func (s Statement) Age(now time.Time) time.Duration {
	return now.Sub(s.RecordedAt)
}

// Politician is a directory entry for a statement subject.
type Politician struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Party     string    `json:"party,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorProfile is the public display data for a contributor.
type AuthorProfile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Permissions are the caller-specific mutation flags attached to every
// statement a client receives, so the UI never guesses.
type Permissions struct {
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// EnrichedStatement is a statement joined with its subject's and author's
// display data plus the requesting caller's permission flags.
type EnrichedStatement struct {
	Statement
	Politician  Politician    `json:"politician"`
	Author      AuthorProfile `json:"author"`
	Permissions Permissions   `json:"permissions"`
}

// Identity is the verified caller extracted from a bearer token. A nil
// *Identity means the request is anonymous.
type Identity struct {
	UserID      string
	DisplayName string
}
