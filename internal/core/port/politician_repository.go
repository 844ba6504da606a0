package port

import (
	"context"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

// PoliticianRepository exposes lookup behavior for statement subjects.
type PoliticianRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Politician, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Politician, error)
	List(ctx context.Context, limit, offset int) ([]domain.Politician, error)
	Count(ctx context.Context) (int, error)
}

// ProfileRepository exposes lookup behavior for author display data.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.AuthorProfile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.AuthorProfile, error)
}
