package port

import (
	"context"
	"time"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

// SortField enumerates the timestamp columns statements can be ordered by.
type SortField string

const (
	SortByRecordedAt SortField = "recorded_at"
	SortByOccurredAt SortField = "occurred_at"
)

// SortOrder enumerates listing directions.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// StatementFilter captures filtering, ordering, and pagination for listings.
// Listings always exclude tombstoned rows.
type StatementFilter struct {
	PoliticianID  string
	RecordedAfter *time.Time
	SortField     SortField
	SortOrder     SortOrder
	Limit         int
	Offset        int
}

// StatementRepository exposes persistence behavior for statements.
// GetByID returns tombstoned rows so the engine can distinguish
// "deleted" from "absent"; List and Count never see tombstones.
type StatementRepository interface {
	Create(ctx context.Context, statement domain.Statement) error
	GetByID(ctx context.Context, id string) (*domain.Statement, error)
	Update(ctx context.Context, statement domain.Statement) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
	List(ctx context.Context, filter StatementFilter) ([]domain.Statement, error)
	Count(ctx context.Context, filter StatementFilter) (int, error)
}
