package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, statementID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("statement_id", statementID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishStatementCreated logs statement.created events.
func (p *StubPublisher) PublishStatementCreated(_ context.Context, event domain.StatementCreatedEvent) error {
	payload := map[string]any{
		"statement_id":  event.StatementID,
		"politician_id": event.PoliticianID,
		"author_id":     event.AuthorID,
		"recorded_at":   event.RecordedAt,
		"augmented":     event.Augmented,
		"metadata":      event.Metadata,
	}
	p.logEvent("statement.created", event.StatementID, event.RecordedAt, payload)
	return nil
}

// PublishStatementUpdated logs statement.updated events.
func (p *StubPublisher) PublishStatementUpdated(_ context.Context, event domain.StatementUpdatedEvent) error {
	payload := map[string]any{
		"statement_id":   event.StatementID,
		"politician_id":  event.PoliticianID,
		"author_id":      event.AuthorID,
		"updated_at":     event.UpdatedAt,
		"changed_fields": event.ChangedFields,
		"metadata":       event.Metadata,
	}
	p.logEvent("statement.updated", event.StatementID, event.UpdatedAt, payload)
	return nil
}

// PublishStatementDeleted logs statement.deleted events.
func (p *StubPublisher) PublishStatementDeleted(_ context.Context, event domain.StatementDeletedEvent) error {
	payload := map[string]any{
		"statement_id":  event.StatementID,
		"politician_id": event.PoliticianID,
		"author_id":     event.AuthorID,
		"deleted_at":    event.DeletedAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("statement.deleted", event.StatementID, event.DeletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
