package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/repository"
)

// ListPoliticiansResult includes the current page plus pagination metadata.
type ListPoliticiansResult struct {
	Politicians []domain.Politician
	Total       int
	Page        int
	Limit       int
	TotalPages  int
}

// PoliticianService exposes read access to the politician directory.
type PoliticianService struct {
	politicians     port.PoliticianRepository
	defaultPageSize int
	maxPageSize     int
	logger          *zap.Logger
}

func NewPoliticianService(politicians port.PoliticianRepository, cfg StatementConfig, logger *zap.Logger) *PoliticianService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	return &PoliticianService{
		politicians:     politicians,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		logger:          logger,
	}
}

// GetPolitician returns the directory entry for one politician.
func (s *PoliticianService) GetPolitician(ctx context.Context, id string) (*domain.Politician, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewValidationError("id", "is required")
	}

	politician, err := s.politicians.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPoliticianNotFound
		}
		return nil, fmt.Errorf("get politician: %w", err)
	}

	return politician, nil
}

// ListPoliticians returns a page of the directory ordered by name.
func (s *PoliticianService) ListPoliticians(ctx context.Context, page, limit int) (*ListPoliticiansResult, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, NewValidationError("page", "must be at least 1")
	}

	if limit == 0 {
		limit = s.defaultPageSize
	}
	if limit < 1 {
		return nil, NewValidationError("limit", "must be at least 1")
	}
	if limit > s.maxPageSize {
		return nil, NewValidationError("limit", fmt.Sprintf("must be at most %d", s.maxPageSize))
	}

	politicians, err := s.politicians.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list politicians: %w", err)
	}

	total, err := s.politicians.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count politicians: %w", err)
	}

	return &ListPoliticiansResult{
		Politicians: politicians,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages(total, limit),
	}, nil
}
