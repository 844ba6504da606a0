package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/repository"
)

// augmentationDelimiter separates the contributor's original text from the
// machine-generated summary appended to it.
const augmentationDelimiter = "\n\n---\n\n"

// StatementConfig carries the engine's tunable business constants.
type StatementConfig struct {
	GraceWindow     time.Duration
	BodyMinLength   int
	BodyMaxLength   int
	DefaultPageSize int
	MaxPageSize     int
}

func (c StatementConfig) withDefaults() StatementConfig {
	if c.GraceWindow <= 0 {
		c.GraceWindow = 15 * time.Minute
	}
	if c.BodyMinLength <= 0 {
		c.BodyMinLength = 10
	}
	if c.BodyMaxLength <= 0 {
		c.BodyMaxLength = 10000
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
	return c
}

// CreateStatementInput captures the payload for recording a statement.
// The author is never part of the input; it comes from the verified identity.
type CreateStatementInput struct {
	PoliticianID string
	BodyText     string
	OccurredAt   time.Time
}

// UpdateStatementInput captures a partial update. Nil fields are left unchanged.
type UpdateStatementInput struct {
	ID         string
	BodyText   *string
	OccurredAt *time.Time
}

// ListStatementsInput captures filters for the global feed.
type ListStatementsInput struct {
	PoliticianID string
	SortField    string
	SortOrder    string
	Page         int
	Limit        int
}

// TimelineInput captures filters for a per-politician timeline. TimeRange is
// one of "7d", "30d", "365d", or "all" (default), relative to server time.
type TimelineInput struct {
	PoliticianID string
	TimeRange    string
	Page         int
	Limit        int
}

// ListStatementsResult includes the current page plus pagination metadata.
type ListStatementsResult struct {
	Statements []domain.EnrichedStatement
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// DeleteStatementResult reports a successful soft delete.
type DeleteStatementResult struct {
	ID        string
	DeletedAt time.Time
}

// StatementService implements the statement lifecycle and permission engine.
type StatementService struct {
	statements  port.StatementRepository
	politicians port.PoliticianRepository
	profiles    port.ProfileRepository
	cache       port.DisplayCache
	summarizer  port.Summarizer
	events      port.EventPublisher
	cfg         StatementConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewStatementService constructs the engine with its collaborators. The
// summarizer may be nil when the augmentation feature is disabled; the cache
// and event publisher may be nil in minimal deployments.
func NewStatementService(
	statements port.StatementRepository,
	politicians port.PoliticianRepository,
	profiles port.ProfileRepository,
	cfg StatementConfig,
	logger *zap.Logger,
) *StatementService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StatementService{
		statements:  statements,
		politicians: politicians,
		profiles:    profiles,
		cfg:         cfg.withDefaults(),
		logger:      logger,
		now:         time.Now,
	}
}

// WithSummarizer enables best-effort body augmentation during creation.
func (s *StatementService) WithSummarizer(summarizer port.Summarizer) *StatementService {
	s.summarizer = summarizer
	return s
}

// WithDisplayCache enables cached enrichment lookups.
func (s *StatementService) WithDisplayCache(cache port.DisplayCache) *StatementService {
	s.cache = cache
	return s
}

// WithEventPublisher enables lifecycle event publishing.
func (s *StatementService) WithEventPublisher(events port.EventPublisher) *StatementService {
	s.events = events
	return s
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *StatementService) WithClock(now func() time.Time) *StatementService {
	if now != nil {
		s.now = now
	}
	return s
}

// CreateStatement records a new statement attributed to the verified caller.
// Augmentation failures never fail the creation; the original body is stored.
func (s *StatementService) CreateStatement(ctx context.Context, identity *domain.Identity, input CreateStatementInput) (*domain.EnrichedStatement, error) {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return nil, ErrAuthenticationRequired
	}

	politicianID := strings.TrimSpace(input.PoliticianID)
	if politicianID == "" {
		return nil, NewValidationError("politician_id", "is required")
	}

	politician, err := s.politicians.GetByID(ctx, politicianID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPoliticianNotFound
		}
		return nil, fmt.Errorf("lookup politician: %w", err)
	}

	now := s.now().UTC()

	if err := s.validateBody(input.BodyText); err != nil {
		return nil, err
	}

	if err := s.validateOccurredAt(input.OccurredAt, now); err != nil {
		return nil, err
	}

	body, augmented := s.augmentBody(ctx, input.BodyText)

	statement := domain.Statement{
		ID:           uuid.NewString(),
		PoliticianID: politicianID,
		AuthorID:     identity.UserID,
		BodyText:     body,
		OccurredAt:   input.OccurredAt.UTC(),
		RecordedAt:   now,
		UpdatedAt:    now,
	}

	if err := s.statements.Create(ctx, statement); err != nil {
		return nil, fmt.Errorf("create statement: %w", err)
	}

	s.publishCreated(ctx, statement, augmented)

	enriched := s.enrichOne(ctx, statement, identity, now)
	enriched.Politician = *politician

	return enriched, nil
}

// GetStatement fetches a single statement by id. Tombstoned rows are reported
// as not found.
func (s *StatementService) GetStatement(ctx context.Context, identity *domain.Identity, id string) (*domain.EnrichedStatement, error) {
	statement, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if statement.Deleted() {
		return nil, ErrStatementNotFound
	}

	return s.enrichOne(ctx, *statement, identity, s.now().UTC()), nil
}

// UpdateStatement applies a partial update for the statement's owner inside
// the grace window. An update with no fields supplied is a no-op.
func (s *StatementService) UpdateStatement(ctx context.Context, identity *domain.Identity, input UpdateStatementInput) (*domain.EnrichedStatement, error) {
	statement, now, err := s.fetchMutable(ctx, identity, input.ID)
	if err != nil {
		if errors.Is(err, ErrAlreadyDeleted) {
			return nil, ErrStatementDeleted
		}
		return nil, err
	}

	if input.BodyText == nil && input.OccurredAt == nil {
		return s.enrichOne(ctx, *statement, identity, now), nil
	}

	changed := make([]string, 0, 2)

	if input.BodyText != nil {
		if err := s.validateBody(*input.BodyText); err != nil {
			return nil, err
		}
		statement.BodyText = *input.BodyText
		changed = append(changed, "body_text")
	}

	if input.OccurredAt != nil {
		if err := s.validateOccurredAt(*input.OccurredAt, now); err != nil {
			return nil, err
		}
		statement.OccurredAt = input.OccurredAt.UTC()
		changed = append(changed, "occurred_at")
	}

	statement.UpdatedAt = now

	if err := s.statements.Update(ctx, *statement); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStatementNotFound
		}
		return nil, fmt.Errorf("update statement: %w", err)
	}

	s.publishUpdated(ctx, *statement, changed)

	return s.enrichOne(ctx, *statement, identity, now), nil
}

// DeleteStatement tombstones a statement for its owner inside the grace
// window. A second delete on the same statement is an error, not a no-op.
func (s *StatementService) DeleteStatement(ctx context.Context, identity *domain.Identity, id string) (*DeleteStatementResult, error) {
	statement, now, err := s.fetchMutable(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if err := s.statements.SoftDelete(ctx, statement.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStatementNotFound
		}
		return nil, fmt.Errorf("soft delete statement: %w", err)
	}

	statement.DeletedAt = &now
	s.publishDeleted(ctx, *statement)

	return &DeleteStatementResult{ID: statement.ID, DeletedAt: now}, nil
}

// ListStatements returns the global feed, optionally filtered by politician.
func (s *StatementService) ListStatements(ctx context.Context, identity *domain.Identity, input ListStatementsInput) (*ListStatementsResult, error) {
	page, limit, err := s.validatePagination(input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	sortField, sortOrder, err := validateSort(input.SortField, input.SortOrder)
	if err != nil {
		return nil, err
	}

	filter := port.StatementFilter{
		PoliticianID: strings.TrimSpace(input.PoliticianID),
		SortField:    sortField,
		SortOrder:    sortOrder,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}

	return s.list(ctx, identity, filter, page, limit)
}

// Timeline returns statements for one politician within a relative time range.
func (s *StatementService) Timeline(ctx context.Context, identity *domain.Identity, input TimelineInput) (*ListStatementsResult, error) {
	politicianID := strings.TrimSpace(input.PoliticianID)
	if politicianID == "" {
		return nil, NewValidationError("politician_id", "is required")
	}

	if _, err := s.politicians.GetByID(ctx, politicianID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPoliticianNotFound
		}
		return nil, fmt.Errorf("lookup politician: %w", err)
	}

	page, limit, err := s.validatePagination(input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	recordedAfter, err := s.resolveTimeRange(input.TimeRange)
	if err != nil {
		return nil, err
	}

	filter := port.StatementFilter{
		PoliticianID:  politicianID,
		RecordedAfter: recordedAfter,
		SortField:     port.SortByRecordedAt,
		SortOrder:     port.SortDescending,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	return s.list(ctx, identity, filter, page, limit)
}

// Permissions evaluates the flags for an existing statement and caller pair.
func (s *StatementService) Permissions(statement domain.Statement, identity *domain.Identity) domain.Permissions {
	return PermissionsFor(statement, identity, s.now().UTC(), s.cfg.GraceWindow)
}

func (s *StatementService) list(ctx context.Context, identity *domain.Identity, filter port.StatementFilter, page, limit int) (*ListStatementsResult, error) {
	statements, err := s.statements.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}

	total, err := s.statements.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count statements: %w", err)
	}

	enriched, err := s.enrich(ctx, statements, identity, s.now().UTC())
	if err != nil {
		return nil, err
	}

	return &ListStatementsResult{
		Statements: enriched,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *StatementService) fetch(ctx context.Context, id string) (*domain.Statement, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewValidationError("id", "is required")
	}

	statement, err := s.statements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStatementNotFound
		}
		return nil, fmt.Errorf("get statement: %w", err)
	}

	return statement, nil
}

// fetchMutable loads a statement and runs the shared mutation gate: identity,
// tombstone, ownership, then grace window, in that order.
func (s *StatementService) fetchMutable(ctx context.Context, identity *domain.Identity, id string) (*domain.Statement, time.Time, error) {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return nil, time.Time{}, ErrAuthenticationRequired
	}

	statement, err := s.fetch(ctx, id)
	if err != nil {
		return nil, time.Time{}, err
	}

	if statement.Deleted() {
		return nil, time.Time{}, ErrAlreadyDeleted
	}

	if statement.AuthorID != identity.UserID {
		return nil, time.Time{}, ErrNotOwner
	}

	now := s.now().UTC()
	if statement.Age(now) >= s.cfg.GraceWindow {
		return nil, time.Time{}, ErrGracePeriodExpired
	}

	return statement, now, nil
}

func (s *StatementService) validateBody(body string) error {
	length := len([]rune(body))
	if length < s.cfg.BodyMinLength {
		return NewValidationError("body_text", fmt.Sprintf("must be at least %d characters", s.cfg.BodyMinLength))
	}
	if length > s.cfg.BodyMaxLength {
		return NewValidationError("body_text", fmt.Sprintf("must be at most %d characters", s.cfg.BodyMaxLength))
	}
	return nil
}

func (s *StatementService) validateOccurredAt(occurredAt, now time.Time) error {
	if occurredAt.IsZero() {
		return NewValidationError("occurred_at", "is required")
	}
	if occurredAt.After(now) {
		return NewValidationError("occurred_at", "must not be in the future")
	}
	return nil
}

func (s *StatementService) validatePagination(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, NewValidationError("page", "must be at least 1")
	}

	if limit == 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit < 1 {
		return 0, 0, NewValidationError("limit", "must be at least 1")
	}
	if limit > s.cfg.MaxPageSize {
		return 0, 0, NewValidationError("limit", fmt.Sprintf("must be at most %d", s.cfg.MaxPageSize))
	}

	return page, limit, nil
}

func validateSort(field, order string) (port.SortField, port.SortOrder, error) {
	sortField := port.SortByRecordedAt
	switch strings.TrimSpace(field) {
	case "", string(port.SortByRecordedAt):
	case string(port.SortByOccurredAt):
		sortField = port.SortByOccurredAt
	default:
		return "", "", NewValidationError("sort_by", "must be recorded_at or occurred_at")
	}

	sortOrder := port.SortDescending
	switch strings.TrimSpace(order) {
	case "", string(port.SortDescending):
	case string(port.SortAscending):
		sortOrder = port.SortAscending
	default:
		return "", "", NewValidationError("order", "must be asc or desc")
	}

	return sortField, sortOrder, nil
}

// resolveTimeRange converts a relative range token into an absolute lower
// bound computed from the current server time. The bound is never stored.
func (s *StatementService) resolveTimeRange(timeRange string) (*time.Time, error) {
	var span time.Duration
	switch strings.TrimSpace(timeRange) {
	case "", "all":
		return nil, nil
	case "7d":
		span = 7 * 24 * time.Hour
	case "30d":
		span = 30 * 24 * time.Hour
	case "365d":
		span = 365 * 24 * time.Hour
	default:
		return nil, NewValidationError("time_range", "must be one of 7d, 30d, 365d, all")
	}

	cutoff := s.now().UTC().Add(-span)
	return &cutoff, nil
}

// augmentBody asks the summarizer for a short summary and appends it behind
// the delimiter. Every failure path leaves the original text untouched.
func (s *StatementService) augmentBody(ctx context.Context, body string) (string, bool) {
	if s.summarizer == nil {
		return body, false
	}

	summary, err := s.summarizer.Summarize(ctx, body)
	if err != nil {
		s.logger.Warn("statement augmentation failed, storing original body", zap.Error(err))
		return body, false
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return body, false
	}

	return body + augmentationDelimiter + summary, true
}

// enrich batch-resolves subject and author display data and attaches the
// caller's permission flags. Lookups go through the display cache first when
// one is configured; misses fall back to PostgreSQL and backfill the cache.
func (s *StatementService) enrich(ctx context.Context, statements []domain.Statement, identity *domain.Identity, now time.Time) ([]domain.EnrichedStatement, error) {
	politicianIDs := make([]string, 0, len(statements))
	authorIDs := make([]string, 0, len(statements))
	seenPoliticians := make(map[string]struct{}, len(statements))
	seenAuthors := make(map[string]struct{}, len(statements))

	for _, statement := range statements {
		if _, ok := seenPoliticians[statement.PoliticianID]; !ok {
			seenPoliticians[statement.PoliticianID] = struct{}{}
			politicianIDs = append(politicianIDs, statement.PoliticianID)
		}
		if _, ok := seenAuthors[statement.AuthorID]; !ok {
			seenAuthors[statement.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, statement.AuthorID)
		}
	}

	politicians, err := s.resolvePoliticians(ctx, politicianIDs)
	if err != nil {
		return nil, err
	}

	authors, err := s.resolveProfiles(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]domain.EnrichedStatement, 0, len(statements))
	for _, statement := range statements {
		enriched = append(enriched, domain.EnrichedStatement{
			Statement:   statement,
			Politician:  politicians[statement.PoliticianID],
			Author:      authors[statement.AuthorID],
			Permissions: PermissionsFor(statement, identity, now, s.cfg.GraceWindow),
		})
	}

	return enriched, nil
}

func (s *StatementService) enrichOne(ctx context.Context, statement domain.Statement, identity *domain.Identity, now time.Time) *domain.EnrichedStatement {
	enriched, err := s.enrich(ctx, []domain.Statement{statement}, identity, now)
	if err != nil || len(enriched) == 0 {
		if err != nil {
			s.logger.Warn("statement enrichment failed", zap.String("statement_id", statement.ID), zap.Error(err))
		}
		return &domain.EnrichedStatement{
			Statement:   statement,
			Permissions: PermissionsFor(statement, identity, now, s.cfg.GraceWindow),
		}
	}
	return &enriched[0]
}

func (s *StatementService) resolvePoliticians(ctx context.Context, ids []string) (map[string]domain.Politician, error) {
	resolved := make(map[string]domain.Politician, len(ids))
	missing := make([]string, 0, len(ids))

	for _, id := range ids {
		if s.cache == nil {
			missing = append(missing, id)
			continue
		}
		politician, err := s.cache.GetPolitician(ctx, id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		resolved[id] = *politician
	}

	if len(missing) == 0 {
		return resolved, nil
	}

	fetched, err := s.politicians.GetByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("resolve politicians: %w", err)
	}

	for id, politician := range fetched {
		resolved[id] = politician
		if s.cache != nil {
			if err := s.cache.SetPolitician(ctx, politician); err != nil {
				s.logger.Debug("cache politician failed", zap.String("politician_id", id), zap.Error(err))
			}
		}
	}

	return resolved, nil
}

func (s *StatementService) resolveProfiles(ctx context.Context, ids []string) (map[string]domain.AuthorProfile, error) {
	resolved := make(map[string]domain.AuthorProfile, len(ids))
	missing := make([]string, 0, len(ids))

	for _, id := range ids {
		if s.cache == nil {
			missing = append(missing, id)
			continue
		}
		profile, err := s.cache.GetProfile(ctx, id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		resolved[id] = *profile
	}

	if len(missing) == 0 {
		return resolved, nil
	}

	fetched, err := s.profiles.GetByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("resolve profiles: %w", err)
	}

	for id, profile := range fetched {
		resolved[id] = profile
		if s.cache != nil {
			if err := s.cache.SetProfile(ctx, profile); err != nil {
				s.logger.Debug("cache profile failed", zap.String("profile_id", id), zap.Error(err))
			}
		}
	}

	return resolved, nil
}

func (s *StatementService) publishCreated(ctx context.Context, statement domain.Statement, augmented bool) {
	if s.events == nil {
		return
	}

	event := domain.StatementCreatedEvent{
		EventID:      uuid.NewString(),
		StatementID:  statement.ID,
		PoliticianID: statement.PoliticianID,
		AuthorID:     statement.AuthorID,
		RecordedAt:   statement.RecordedAt,
		Augmented:    augmented,
	}

	if err := s.events.PublishStatementCreated(ctx, event); err != nil {
		s.logger.Warn("publish statement created event failed", zap.String("statement_id", statement.ID), zap.Error(err))
	}
}

func (s *StatementService) publishUpdated(ctx context.Context, statement domain.Statement, changed []string) {
	if s.events == nil {
		return
	}

	event := domain.StatementUpdatedEvent{
		EventID:       uuid.NewString(),
		StatementID:   statement.ID,
		PoliticianID:  statement.PoliticianID,
		AuthorID:      statement.AuthorID,
		UpdatedAt:     statement.UpdatedAt,
		ChangedFields: changed,
	}

	if err := s.events.PublishStatementUpdated(ctx, event); err != nil {
		s.logger.Warn("publish statement updated event failed", zap.String("statement_id", statement.ID), zap.Error(err))
	}
}

func (s *StatementService) publishDeleted(ctx context.Context, statement domain.Statement) {
	if s.events == nil || statement.DeletedAt == nil {
		return
	}

	event := domain.StatementDeletedEvent{
		EventID:      uuid.NewString(),
		StatementID:  statement.ID,
		PoliticianID: statement.PoliticianID,
		AuthorID:     statement.AuthorID,
		DeletedAt:    *statement.DeletedAt,
	}

	if err := s.events.PublishStatementDeleted(ctx, event); err != nil {
		s.logger.Warn("publish statement deleted event failed", zap.String("statement_id", statement.ID), zap.Error(err))
	}
}

func totalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
