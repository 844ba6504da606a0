package port

import (
	"context"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

// EventPublisher publishes statement lifecycle events to the message bus.
type EventPublisher interface {
	PublishStatementCreated(ctx context.Context, event domain.StatementCreatedEvent) error
	PublishStatementUpdated(ctx context.Context, event domain.StatementUpdatedEvent) error
	PublishStatementDeleted(ctx context.Context, event domain.StatementDeletedEvent) error
}
