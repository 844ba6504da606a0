package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID     string           `json:"event_id"`
	EventType   string           `json:"event_type"`
	StatementID string           `json:"statement_id,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
	Version     string           `json:"version"`
	Payload     any              `json:"payload"`
	Metadata    envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, statementID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:     id,
		EventType:   eventType,
		StatementID: statementID,
		Timestamp:   ts.UTC(),
		Version:     schemaVersion,
		Payload:     payload,
		Metadata:    metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(statementID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishStatementCreated publishes politico.statement.created events.
func (p *EventPublisher) PublishStatementCreated(ctx context.Context, event domain.StatementCreatedEvent) error {
	payload := struct {
		StatementID  string         `json:"statement_id"`
		PoliticianID string         `json:"politician_id"`
		AuthorID     string         `json:"author_id"`
		RecordedAt   time.Time      `json:"recorded_at"`
		Augmented    bool           `json:"augmented"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		StatementID:  event.StatementID,
		PoliticianID: event.PoliticianID,
		AuthorID:     event.AuthorID,
		RecordedAt:   event.RecordedAt.UTC(),
		Augmented:    event.Augmented,
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "statement.created", event.StatementID, event.RecordedAt, payload)
}

// PublishStatementUpdated publishes politico.statement.updated events.
func (p *EventPublisher) PublishStatementUpdated(ctx context.Context, event domain.StatementUpdatedEvent) error {
	payload := struct {
		StatementID   string         `json:"statement_id"`
		PoliticianID  string         `json:"politician_id"`
		AuthorID      string         `json:"author_id"`
		UpdatedAt     time.Time      `json:"updated_at"`
		ChangedFields []string       `json:"changed_fields"`
		Metadata      map[string]any `json:"metadata,omitempty"`
	}{
		StatementID:   event.StatementID,
		PoliticianID:  event.PoliticianID,
		AuthorID:      event.AuthorID,
		UpdatedAt:     event.UpdatedAt.UTC(),
		ChangedFields: event.ChangedFields,
		Metadata:      event.Metadata,
	}

	return p.publish(ctx, event.EventID, "statement.updated", event.StatementID, event.UpdatedAt, payload)
}

// PublishStatementDeleted publishes politico.statement.deleted events.
func (p *EventPublisher) PublishStatementDeleted(ctx context.Context, event domain.StatementDeletedEvent) error {
	payload := struct {
		StatementID  string         `json:"statement_id"`
		PoliticianID string         `json:"politician_id"`
		AuthorID     string         `json:"author_id"`
		DeletedAt    time.Time      `json:"deleted_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		StatementID:  event.StatementID,
		PoliticianID: event.PoliticianID,
		AuthorID:     event.AuthorID,
		DeletedAt:    event.DeletedAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "statement.deleted", event.StatementID, event.DeletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
