package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/repository"
)

// PoliticianRepository implements port.PoliticianRepository over PostgreSQL.
type PoliticianRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPoliticianRepository constructs a politician repository backed by the pool.
func NewPoliticianRepository(pool *pgxpool.Pool) *PoliticianRepository {
	return &PoliticianRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const politiciansTable = "archive.politicians"

// GetByID retrieves a politician by identifier.
func (r *PoliticianRepository) GetByID(ctx context.Context, id string) (*domain.Politician, error) {
	stmt, args, err := r.builder.Select("id", "full_name", "party", "created_at").
		From(politiciansTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select politician sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	politician, err := scanPoliticianRow(func(dest ...any) error { return row.Scan(dest...) })
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan politician: %w", err)
	}

	return politician, nil
}

// GetByIDs batch-resolves politicians keyed by identifier. Missing ids are
// simply absent from the result.
func (r *PoliticianRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Politician, error) {
	result := make(map[string]domain.Politician, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	stmt, args, err := r.builder.Select("id", "full_name", "party", "created_at").
		From(politiciansTable).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select politicians sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query politicians: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		politician, err := scanPoliticianRow(func(dest ...any) error { return rows.Scan(dest...) })
		if err != nil {
			return nil, fmt.Errorf("scan politician: %w", err)
		}
		result[politician.ID] = *politician
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate politicians: %w", err)
	}

	return result, nil
}

// List returns politicians ordered by name.
func (r *PoliticianRepository) List(ctx context.Context, limit, offset int) ([]domain.Politician, error) {
	query := r.builder.Select("id", "full_name", "party", "created_at").
		From(politiciansTable).
		OrderBy("full_name ASC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list politicians sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query politicians: %w", err)
	}
	defer rows.Close()

	politicians := make([]domain.Politician, 0)
	for rows.Next() {
		politician, err := scanPoliticianRow(func(dest ...any) error { return rows.Scan(dest...) })
		if err != nil {
			return nil, fmt.Errorf("scan politician: %w", err)
		}
		politicians = append(politicians, *politician)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate politicians: %w", err)
	}

	return politicians, nil
}

// Count returns the total number of politicians.
func (r *PoliticianRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(politiciansTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count politicians sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan politicians count: %w", err)
	}

	return int(count), nil
}

func scanPoliticianRow(scan func(dest ...any) error) (*domain.Politician, error) {
	var (
		politician domain.Politician
		party      sql.NullString
	)

	if err := scan(
		&politician.ID,
		&politician.FullName,
		&party,
		&politician.CreatedAt,
	); err != nil {
		return nil, err
	}

	if party.Valid {
		politician.Party = party.String
	}

	return &politician, nil
}

var _ port.PoliticianRepository = (*PoliticianRepository)(nil)
