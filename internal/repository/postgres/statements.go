package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/repository"
)

// StatementRepository implements port.StatementRepository over PostgreSQL.
type StatementRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewStatementRepository constructs a statement repository backed by the pool.
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepository {
	return &StatementRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const statementsTable = "archive.statements"

var statementColumns = []string{
	"id",
	"politician_id",
	"author_id",
	"body_text",
	"occurred_at",
	"recorded_at",
	"updated_at",
	"deleted_at",
}

// Create inserts a new statement row.
func (r *StatementRepository) Create(ctx context.Context, statement domain.Statement) error {
	stmt, args, err := r.builder.Insert(statementsTable).
		Columns(statementColumns...).
		Values(
			statement.ID,
			statement.PoliticianID,
			statement.AuthorID,
			statement.BodyText,
			statement.OccurredAt,
			statement.RecordedAt,
			statement.UpdatedAt,
			statement.DeletedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert statement sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}

	return nil
}

// GetByID retrieves a statement by identifier. Tombstoned rows are returned
// so callers can distinguish deleted from absent.
func (r *StatementRepository) GetByID(ctx context.Context, id string) (*domain.Statement, error) {
	stmt, args, err := r.builder.Select(statementColumns...).
		From(statementsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select statement sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	statement, err := scanStatementRow(func(dest ...any) error { return row.Scan(dest...) })
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan statement: %w", err)
	}

	return statement, nil
}

// Update persists the mutable statement fields.
func (r *StatementRepository) Update(ctx context.Context, statement domain.Statement) error {
	stmt, args, err := r.builder.Update(statementsTable).
		Set("body_text", statement.BodyText).
		Set("occurred_at", statement.OccurredAt).
		Set("updated_at", statement.UpdatedAt).
		Where(squirrel.Eq{"id": statement.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update statement sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update statement: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete sets the tombstone timestamp. The row stays in storage for audit.
func (r *StatementRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	stmt, args, err := r.builder.Update(statementsTable).
		Set("deleted_at", deletedAt).
		Set("updated_at", deletedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete statement sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete statement: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns non-tombstoned statements matching the filter.
func (r *StatementRepository) List(ctx context.Context, filter port.StatementFilter) ([]domain.Statement, error) {
	query := r.builder.Select(statementColumns...).
		From(statementsTable).
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy(orderClause(filter))

	query = applyStatementFilter(query, filter)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list statements sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	statements := make([]domain.Statement, 0)
	for rows.Next() {
		statement, err := scanStatementRow(func(dest ...any) error { return rows.Scan(dest...) })
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		statements = append(statements, *statement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	return statements, nil
}

// Count returns the number of non-tombstoned statements matching the filter.
func (r *StatementRepository) Count(ctx context.Context, filter port.StatementFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").
		From(statementsTable).
		Where(squirrel.Eq{"deleted_at": nil})

	query = applyStatementFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count statements sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan statements count: %w", err)
	}

	return int(count), nil
}

func applyStatementFilter(query squirrel.SelectBuilder, filter port.StatementFilter) squirrel.SelectBuilder {
	if politicianID := strings.TrimSpace(filter.PoliticianID); politicianID != "" {
		query = query.Where(squirrel.Eq{"politician_id": politicianID})
	}

	if filter.RecordedAfter != nil {
		query = query.Where(squirrel.GtOrEq{"recorded_at": *filter.RecordedAfter})
	}

	return query
}

func orderClause(filter port.StatementFilter) string {
	column := "recorded_at"
	if filter.SortField == port.SortByOccurredAt {
		column = "occurred_at"
	}

	direction := "DESC"
	if filter.SortOrder == port.SortAscending {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s", column, direction)
}

func scanStatementRow(scan func(dest ...any) error) (*domain.Statement, error) {
	var (
		statement domain.Statement
		deletedAt *time.Time
	)

	if err := scan(
		&statement.ID,
		&statement.PoliticianID,
		&statement.AuthorID,
		&statement.BodyText,
		&statement.OccurredAt,
		&statement.RecordedAt,
		&statement.UpdatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}

	statement.DeletedAt = deletedAt

	return &statement, nil
}

var _ port.StatementRepository = (*StatementRepository)(nil)
