package port

import (
	"context"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

// DisplayCache caches subject and author display data used to enrich
// statement listings. Implementations return repository.ErrNotFound on miss.
type DisplayCache interface {
	GetPolitician(ctx context.Context, id string) (*domain.Politician, error)
	SetPolitician(ctx context.Context, politician domain.Politician) error
	GetProfile(ctx context.Context, id string) (*domain.AuthorProfile, error)
	SetProfile(ctx context.Context, profile domain.AuthorProfile) error
}
