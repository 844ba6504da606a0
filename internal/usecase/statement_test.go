package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/repository"
)

type statementStore struct {
	statements map[string]domain.Statement
	listed     []domain.Statement
	createErr  error
	updateErr  error

	lastFilter *port.StatementFilter
}

func newStatementStore(statements ...domain.Statement) *statementStore {
	store := &statementStore{statements: make(map[string]domain.Statement)}
	for _, statement := range statements {
		store.statements[statement.ID] = statement
	}
	return store
}

func (s *statementStore) Create(_ context.Context, statement domain.Statement) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.statements[statement.ID] = statement
	return nil
}

func (s *statementStore) GetByID(_ context.Context, id string) (*domain.Statement, error) {
	statement, ok := s.statements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := statement
	return &copy, nil
}

func (s *statementStore) Update(_ context.Context, statement domain.Statement) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.statements[statement.ID]; !ok {
		return repository.ErrNotFound
	}
	s.statements[statement.ID] = statement
	return nil
}

func (s *statementStore) SoftDelete(_ context.Context, id string, deletedAt time.Time) error {
	statement, ok := s.statements[id]
	if !ok {
		return repository.ErrNotFound
	}
	statement.DeletedAt = &deletedAt
	statement.UpdatedAt = deletedAt
	s.statements[id] = statement
	return nil
}

func (s *statementStore) List(_ context.Context, filter port.StatementFilter) ([]domain.Statement, error) {
	s.lastFilter = &filter
	return s.listed, nil
}

func (s *statementStore) Count(_ context.Context, filter port.StatementFilter) (int, error) {
	return len(s.listed), nil
}

type politicianStore struct {
	politicians map[string]domain.Politician
}

func newPoliticianStore(politicians ...domain.Politician) *politicianStore {
	store := &politicianStore{politicians: make(map[string]domain.Politician)}
	for _, politician := range politicians {
		store.politicians[politician.ID] = politician
	}
	return store
}

func (s *politicianStore) GetByID(_ context.Context, id string) (*domain.Politician, error) {
	politician, ok := s.politicians[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := politician
	return &copy, nil
}

func (s *politicianStore) GetByIDs(_ context.Context, ids []string) (map[string]domain.Politician, error) {
	found := make(map[string]domain.Politician, len(ids))
	for _, id := range ids {
		if politician, ok := s.politicians[id]; ok {
			found[id] = politician
		}
	}
	return found, nil
}

func (s *politicianStore) List(context.Context, int, int) ([]domain.Politician, error) {
	return nil, errors.New("unexpected call: List")
}

func (s *politicianStore) Count(context.Context) (int, error) {
	return 0, errors.New("unexpected call: Count")
}

type profileStore struct {
	profiles map[string]domain.AuthorProfile
}

func newProfileStore(profiles ...domain.AuthorProfile) *profileStore {
	store := &profileStore{profiles: make(map[string]domain.AuthorProfile)}
	for _, profile := range profiles {
		store.profiles[profile.ID] = profile
	}
	return store
}

func (s *profileStore) GetByID(_ context.Context, id string) (*domain.AuthorProfile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := profile
	return &copy, nil
}

func (s *profileStore) GetByIDs(_ context.Context, ids []string) (map[string]domain.AuthorProfile, error) {
	found := make(map[string]domain.AuthorProfile, len(ids))
	for _, id := range ids {
		if profile, ok := s.profiles[id]; ok {
			found[id] = profile
		}
	}
	return found, nil
}

type stubSummarizer struct {
	summary string
	err     error
	called  bool
}

func (s *stubSummarizer) Summarize(context.Context, string) (string, error) {
	s.called = true
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

type recordingPublisher struct {
	created []domain.StatementCreatedEvent
	updated []domain.StatementUpdatedEvent
	deleted []domain.StatementDeletedEvent
}

func (p *recordingPublisher) PublishStatementCreated(_ context.Context, event domain.StatementCreatedEvent) error {
	p.created = append(p.created, event)
	return nil
}

func (p *recordingPublisher) PublishStatementUpdated(_ context.Context, event domain.StatementUpdatedEvent) error {
	p.updated = append(p.updated, event)
	return nil
}

func (p *recordingPublisher) PublishStatementDeleted(_ context.Context, event domain.StatementDeletedEvent) error {
	p.deleted = append(p.deleted, event)
	return nil
}

//

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func testPolitician() domain.Politician {
	return domain.Politician{ID: "pol-1", FullName: "Ada Lovelace", Party: "Analytical", CreatedAt: testNow.Add(-24 * time.Hour)}
}

func testProfile() domain.AuthorProfile {
	return domain.AuthorProfile{ID: "user-1", DisplayName: "archivist", CreatedAt: testNow.Add(-48 * time.Hour)}
}

func testStatement(recordedAgo time.Duration) domain.Statement {
	recorded := testNow.Add(-recordedAgo)
	return domain.Statement{
		ID:           "stmt-1",
		PoliticianID: "pol-1",
		AuthorID:     "user-1",
		BodyText:     "Education funding will double by next spring.",
		OccurredAt:   recorded.Add(-time.Hour),
		RecordedAt:   recorded,
		UpdatedAt:    recorded,
	}
}

func newTestService(statements *statementStore) *StatementService {
	return NewStatementService(
		statements,
		newPoliticianStore(testPolitician()),
		newProfileStore(testProfile()),
		StatementConfig{},
		zap.NewNop(),
	).WithClock(fixedClock)
}

func identity() *domain.Identity {
	return &domain.Identity{UserID: "user-1", DisplayName: "archivist"}
}

func TestCreateStatementRequiresIdentity(t *testing.T) {
	service := newTestService(newStatementStore())

	_, err := service.CreateStatement(context.Background(), nil, CreateStatementInput{
		PoliticianID: "pol-1",
		BodyText:     "A perfectly reasonable statement body.",
		OccurredAt:   testNow.Add(-time.Hour),
	})
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestCreateStatementForcesAuthorFromIdentity(t *testing.T) {
	store := newStatementStore()
	service := newTestService(store)

	created, err := service.CreateStatement(context.Background(), identity(), CreateStatementInput{
		PoliticianID: "pol-1",
		BodyText:     "Taxes will be abolished on Tuesdays.",
		OccurredAt:   testNow.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateStatement: %v", err)
	}

	if created.AuthorID != "user-1" {
		t.Fatalf("expected author user-1, got %q", created.AuthorID)
	}
	if created.RecordedAt != testNow {
		t.Fatalf("expected recorded_at %v, got %v", testNow, created.RecordedAt)
	}
	if !created.Permissions.CanEdit || !created.Permissions.CanDelete {
		t.Fatalf("fresh statement should be mutable by its author: %+v", created.Permissions)
	}
	if created.Politician.FullName != "Ada Lovelace" {
		t.Fatalf("expected enriched politician, got %+v", created.Politician)
	}
	if _, ok := store.statements[created.ID]; !ok {
		t.Fatal("statement was not persisted")
	}
}

func TestCreateStatementUnknownPolitician(t *testing.T) {
	service := newTestService(newStatementStore())

	_, err := service.CreateStatement(context.Background(), identity(), CreateStatementInput{
		PoliticianID: "pol-unknown",
		BodyText:     "A perfectly reasonable statement body.",
		OccurredAt:   testNow.Add(-time.Hour),
	})
	if !errors.Is(err, ErrPoliticianNotFound) {
		t.Fatalf("expected ErrPoliticianNotFound, got %v", err)
	}
}

func TestCreateStatementBodyBounds(t *testing.T) {
	service := newTestService(newStatementStore())

	cases := []struct {
		name string
		body string
	}{
		{"too short", "too short"},
		{"too long", strings.Repeat("x", 10001)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateStatement(context.Background(), identity(), CreateStatementInput{
				PoliticianID: "pol-1",
				BodyText:     tc.body,
				OccurredAt:   testNow.Add(-time.Hour),
			})
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validation.Field != "body_text" {
				t.Fatalf("expected body_text violation, got %q", validation.Field)
			}
		})
	}
}

func TestCreateStatementRejectsFutureOccurredAt(t *testing.T) {
	service := newTestService(newStatementStore())

	_, err := service.CreateStatement(context.Background(), identity(), CreateStatementInput{
		PoliticianID: "pol-1",
		BodyText:     "Statement from tomorrow's press conference.",
		OccurredAt:   testNow.Add(time.Minute),
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.Field != "occurred_at" {
		t.Fatalf("expected occurred_at violation, got %q", validation.Field)
	}
}

func TestCreateStatementAppendsSummary(t *testing.T) {
	store := newStatementStore()
	summarizer := &stubSummarizer{summary: "Funding pledge."}
	publisher := &recordingPublisher{}
	service := newTestService(store).WithSummarizer(summarizer).WithEventPublisher(publisher)

	body := "Education funding will double by next spring."
	created, err := service.CreateStatement(context.Background(), identity(), CreateStatementInput{
		PoliticianID: "pol-1",
		BodyText:     body,
		OccurredAt:   testNow.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateStatement: %v", err)
	}

	want := body + "\n\n---\n\nFunding pledge."
	if created.BodyText != want {
		t.Fatalf("expected augmented body %q, got %q", want, created.BodyText)
	}
	if len(publisher.created) != 1 || !publisher.created[0].Augmented {
		t.Fatalf("expected one augmented created event, got %+v", publisher.created)
	}
}

func TestCreateStatementSummarizerFailureKeepsOriginal(t *testing.T) {
	store := newStatementStore()
	summarizer := &stubSummarizer{err: errors.New("model unavailable")}
	service := newTestService(store).WithSummarizer(summarizer)

	body := "Education funding will double by next spring."
	created, err := service.CreateStatement(context.Background(), identity(), CreateStatementInput{
		PoliticianID: "pol-1",
		BodyText:     body,
		OccurredAt:   testNow.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("creation must survive summarizer failure: %v", err)
	}
	if !summarizer.called {
		t.Fatal("summarizer was never invoked")
	}
	if created.BodyText != body {
		t.Fatalf("expected original body to be stored, got %q", created.BodyText)
	}
}

func TestGetStatementHidesTombstone(t *testing.T) {
	statement := testStatement(2 * time.Hour)
	deletedAt := testNow.Add(-time.Hour)
	statement.DeletedAt = &deletedAt
	service := newTestService(newStatementStore(statement))

	_, err := service.GetStatement(context.Background(), identity(), statement.ID)
	if !errors.Is(err, ErrStatementNotFound) {
		t.Fatalf("tombstoned statement must read as not found, got %v", err)
	}
}

func TestUpdateStatementWithinGrace(t *testing.T) {
	store := newStatementStore(testStatement(5 * time.Minute))
	publisher := &recordingPublisher{}
	service := newTestService(store).WithEventPublisher(publisher)

	newBody := "Education funding will triple by next spring."
	updated, err := service.UpdateStatement(context.Background(), identity(), UpdateStatementInput{
		ID:       "stmt-1",
		BodyText: &newBody,
	})
	if err != nil {
		t.Fatalf("UpdateStatement: %v", err)
	}

	if updated.BodyText != newBody {
		t.Fatalf("expected updated body, got %q", updated.BodyText)
	}
	if updated.UpdatedAt != testNow {
		t.Fatalf("expected updated_at %v, got %v", testNow, updated.UpdatedAt)
	}
	if len(publisher.updated) != 1 {
		t.Fatalf("expected one updated event, got %d", len(publisher.updated))
	}
	if got := publisher.updated[0].ChangedFields; len(got) != 1 || got[0] != "body_text" {
		t.Fatalf("expected changed fields [body_text], got %v", got)
	}
}

func TestUpdateStatementNoFieldsIsNoOp(t *testing.T) {
	original := testStatement(5 * time.Minute)
	store := newStatementStore(original)
	publisher := &recordingPublisher{}
	service := newTestService(store).WithEventPublisher(publisher)

	updated, err := service.UpdateStatement(context.Background(), identity(), UpdateStatementInput{ID: "stmt-1"})
	if err != nil {
		t.Fatalf("UpdateStatement: %v", err)
	}
	if updated.BodyText != original.BodyText || updated.UpdatedAt != original.UpdatedAt {
		t.Fatalf("no-op update must not modify the statement: %+v", updated.Statement)
	}
	if len(publisher.updated) != 0 {
		t.Fatal("no-op update must not publish an event")
	}
}

func TestUpdateStatementByNonOwner(t *testing.T) {
	service := newTestService(newStatementStore(testStatement(5 * time.Minute)))

	body := "Someone else's edit attempting to slip through."
	_, err := service.UpdateStatement(context.Background(), &domain.Identity{UserID: "user-2"}, UpdateStatementInput{
		ID:       "stmt-1",
		BodyText: &body,
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestUpdateStatementGraceWindowBoundary(t *testing.T) {
	cases := []struct {
		name    string
		age     time.Duration
		wantErr error
	}{
		{"just inside", 15*time.Minute - time.Second, nil},
		{"exactly at boundary", 15 * time.Minute, ErrGracePeriodExpired},
		{"just outside", 15*time.Minute + time.Second, ErrGracePeriodExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := newTestService(newStatementStore(testStatement(tc.age)))

			body := "Education funding will quadruple by next spring."
			_, err := service.UpdateStatement(context.Background(), identity(), UpdateStatementInput{
				ID:       "stmt-1",
				BodyText: &body,
			})
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdateTombstonedStatement(t *testing.T) {
	statement := testStatement(5 * time.Minute)
	deletedAt := testNow.Add(-time.Minute)
	statement.DeletedAt = &deletedAt
	service := newTestService(newStatementStore(statement))

	body := "Edit against a tombstone should be rejected."
	_, err := service.UpdateStatement(context.Background(), identity(), UpdateStatementInput{
		ID:       "stmt-1",
		BodyText: &body,
	})
	if !errors.Is(err, ErrStatementDeleted) {
		t.Fatalf("expected ErrStatementDeleted, got %v", err)
	}
}

func TestDeleteStatementWithinGrace(t *testing.T) {
	store := newStatementStore(testStatement(5 * time.Minute))
	publisher := &recordingPublisher{}
	service := newTestService(store).WithEventPublisher(publisher)

	result, err := service.DeleteStatement(context.Background(), identity(), "stmt-1")
	if err != nil {
		t.Fatalf("DeleteStatement: %v", err)
	}
	if result.DeletedAt != testNow {
		t.Fatalf("expected deleted_at %v, got %v", testNow, result.DeletedAt)
	}
	if stored := store.statements["stmt-1"]; !stored.Deleted() {
		t.Fatal("statement was not tombstoned in the store")
	}
	if len(publisher.deleted) != 1 {
		t.Fatalf("expected one deleted event, got %d", len(publisher.deleted))
	}
}

func TestDeleteStatementTwice(t *testing.T) {
	store := newStatementStore(testStatement(5 * time.Minute))
	service := newTestService(store)

	if _, err := service.DeleteStatement(context.Background(), identity(), "stmt-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	_, err := service.DeleteStatement(context.Background(), identity(), "stmt-1")
	if !errors.Is(err, ErrAlreadyDeleted) {
		t.Fatalf("second delete must fail with ErrAlreadyDeleted, got %v", err)
	}
}

func TestDeleteStatementOutsideGrace(t *testing.T) {
	service := newTestService(newStatementStore(testStatement(16 * time.Minute)))

	_, err := service.DeleteStatement(context.Background(), identity(), "stmt-1")
	if !errors.Is(err, ErrGracePeriodExpired) {
		t.Fatalf("expected ErrGracePeriodExpired, got %v", err)
	}
}

func TestListStatementsAnonymousPermissions(t *testing.T) {
	store := newStatementStore()
	store.listed = []domain.Statement{testStatement(time.Minute)}
	service := newTestService(store)

	result, err := service.ListStatements(context.Background(), nil, ListStatementsInput{})
	if err != nil {
		t.Fatalf("ListStatements: %v", err)
	}
	if len(result.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(result.Statements))
	}

	flags := result.Statements[0].Permissions
	if flags.CanEdit || flags.CanDelete {
		t.Fatalf("anonymous caller must get false flags, got %+v", flags)
	}
	if result.Statements[0].Author.DisplayName != "archivist" {
		t.Fatalf("expected enriched author, got %+v", result.Statements[0].Author)
	}
}

func TestListStatementsOwnerPermissionsDependOnAge(t *testing.T) {
	fresh := testStatement(time.Minute)
	stale := testStatement(time.Hour)
	stale.ID = "stmt-2"

	store := newStatementStore()
	store.listed = []domain.Statement{fresh, stale}
	service := newTestService(store)

	result, err := service.ListStatements(context.Background(), identity(), ListStatementsInput{})
	if err != nil {
		t.Fatalf("ListStatements: %v", err)
	}

	if flags := result.Statements[0].Permissions; !flags.CanEdit || !flags.CanDelete {
		t.Fatalf("fresh owned statement must be mutable, got %+v", flags)
	}
	if flags := result.Statements[1].Permissions; flags.CanEdit || flags.CanDelete {
		t.Fatalf("aged statement must not be mutable, got %+v", flags)
	}
}

func TestListStatementsPaginationValidation(t *testing.T) {
	service := newTestService(newStatementStore())

	cases := []struct {
		name  string
		input ListStatementsInput
		field string
	}{
		{"negative page", ListStatementsInput{Page: -1}, "page"},
		{"zero limit rejected when negative", ListStatementsInput{Limit: -5}, "limit"},
		{"limit above maximum", ListStatementsInput{Limit: 101}, "limit"},
		{"bad sort field", ListStatementsInput{SortField: "body_text"}, "sort_by"},
		{"bad sort order", ListStatementsInput{SortOrder: "sideways"}, "order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.ListStatements(context.Background(), nil, tc.input)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validation.Field != tc.field {
				t.Fatalf("expected %q violation, got %q", tc.field, validation.Field)
			}
		})
	}
}

func TestListStatementsDefaultsAndOffset(t *testing.T) {
	store := newStatementStore()
	service := newTestService(store)

	result, err := service.ListStatements(context.Background(), nil, ListStatementsInput{Page: 3})
	if err != nil {
		t.Fatalf("ListStatements: %v", err)
	}
	if result.Limit != 20 || result.Page != 3 {
		t.Fatalf("expected default limit 20 page 3, got limit %d page %d", result.Limit, result.Page)
	}
	if store.lastFilter == nil || store.lastFilter.Offset != 40 {
		t.Fatalf("expected offset 40, got %+v", store.lastFilter)
	}
	if store.lastFilter.SortField != port.SortByRecordedAt || store.lastFilter.SortOrder != port.SortDescending {
		t.Fatalf("expected recorded_at desc default ordering, got %+v", store.lastFilter)
	}
}

func TestTimelineSevenDayRange(t *testing.T) {
	store := newStatementStore()
	service := newTestService(store)

	_, err := service.Timeline(context.Background(), nil, TimelineInput{
		PoliticianID: "pol-1",
		TimeRange:    "7d",
	})
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}

	if store.lastFilter == nil || store.lastFilter.RecordedAfter == nil {
		t.Fatalf("expected a recorded-after bound, got %+v", store.lastFilter)
	}
	want := testNow.Add(-7 * 24 * time.Hour)
	if !store.lastFilter.RecordedAfter.Equal(want) {
		t.Fatalf("expected bound %v, got %v", want, *store.lastFilter.RecordedAfter)
	}
	if store.lastFilter.PoliticianID != "pol-1" {
		t.Fatalf("expected politician filter, got %+v", store.lastFilter)
	}
}

func TestTimelineAllRangeHasNoBound(t *testing.T) {
	store := newStatementStore()
	service := newTestService(store)

	if _, err := service.Timeline(context.Background(), nil, TimelineInput{PoliticianID: "pol-1", TimeRange: "all"}); err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if store.lastFilter.RecordedAfter != nil {
		t.Fatalf("all range must not bound recorded_at, got %v", *store.lastFilter.RecordedAfter)
	}
}

func TestTimelineRejectsUnknownRange(t *testing.T) {
	service := newTestService(newStatementStore())

	_, err := service.Timeline(context.Background(), nil, TimelineInput{PoliticianID: "pol-1", TimeRange: "90d"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.Field != "time_range" {
		t.Fatalf("expected time_range violation, got %q", validation.Field)
	}
}

func TestTimelineUnknownPolitician(t *testing.T) {
	service := newTestService(newStatementStore())

	_, err := service.Timeline(context.Background(), nil, TimelineInput{PoliticianID: "pol-unknown"})
	if !errors.Is(err, ErrPoliticianNotFound) {
		t.Fatalf("expected ErrPoliticianNotFound, got %v", err)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, limit, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 33, 4},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
