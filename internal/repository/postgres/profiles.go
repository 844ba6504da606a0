package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/repository"
)

// ProfileRepository implements port.ProfileRepository over PostgreSQL.
type ProfileRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProfileRepository constructs a profile repository backed by the pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const profilesTable = "archive.profiles"

// GetByID retrieves an author profile by identifier.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.AuthorProfile, error) {
	stmt, args, err := r.builder.Select("id", "display_name", "created_at").
		From(profilesTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var profile domain.AuthorProfile
	if err := row.Scan(&profile.ID, &profile.DisplayName, &profile.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	return &profile, nil
}

// GetByIDs batch-resolves author profiles keyed by identifier.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.AuthorProfile, error) {
	result := make(map[string]domain.AuthorProfile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	stmt, args, err := r.builder.Select("id", "display_name", "created_at").
		From(profilesTable).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profiles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var profile domain.AuthorProfile
		if err := rows.Scan(&profile.ID, &profile.DisplayName, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		result[profile.ID] = profile
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return result, nil
}

var _ port.ProfileRepository = (*ProfileRepository)(nil)
