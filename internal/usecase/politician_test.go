package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

type directoryStore struct {
	politicianStore
	listed []domain.Politician
}

func (s *directoryStore) List(_ context.Context, limit, offset int) ([]domain.Politician, error) {
	if offset >= len(s.listed) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.listed) {
		end = len(s.listed)
	}
	return s.listed[offset:end], nil
}

func (s *directoryStore) Count(context.Context) (int, error) {
	return len(s.listed), nil
}

func newDirectoryStore(politicians ...domain.Politician) *directoryStore {
	store := &directoryStore{listed: politicians}
	store.politicians = make(map[string]domain.Politician, len(politicians))
	for _, politician := range politicians {
		store.politicians[politician.ID] = politician
	}
	return store
}

func TestGetPolitician(t *testing.T) {
	service := NewPoliticianService(newDirectoryStore(testPolitician()), StatementConfig{}, zap.NewNop())

	politician, err := service.GetPolitician(context.Background(), "pol-1")
	if err != nil {
		t.Fatalf("GetPolitician: %v", err)
	}
	if politician.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected politician %+v", politician)
	}

	if _, err := service.GetPolitician(context.Background(), "pol-unknown"); !errors.Is(err, ErrPoliticianNotFound) {
		t.Fatalf("expected ErrPoliticianNotFound, got %v", err)
	}
}

func TestListPoliticiansPagination(t *testing.T) {
	politicians := make([]domain.Politician, 0, 25)
	for i := 0; i < 25; i++ {
		politician := testPolitician()
		politician.ID = politician.ID + string(rune('a'+i))
		politicians = append(politicians, politician)
	}
	service := NewPoliticianService(newDirectoryStore(politicians...), StatementConfig{}, zap.NewNop())

	result, err := service.ListPoliticians(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("ListPoliticians: %v", err)
	}
	if result.Limit != 20 || result.Page != 2 {
		t.Fatalf("expected default limit 20 page 2, got %+v", result)
	}
	if len(result.Politicians) != 5 {
		t.Fatalf("expected 5 politicians on the second page, got %d", len(result.Politicians))
	}
	if result.Total != 25 || result.TotalPages != 2 {
		t.Fatalf("expected total 25 over 2 pages, got %+v", result)
	}
}

func TestListPoliticiansValidation(t *testing.T) {
	service := NewPoliticianService(newDirectoryStore(), StatementConfig{}, zap.NewNop())

	if _, err := service.ListPoliticians(context.Background(), -1, 10); err == nil {
		t.Fatal("expected validation error for negative page")
	}
	if _, err := service.ListPoliticians(context.Background(), 1, 500); err == nil {
		t.Fatal("expected validation error for oversized limit")
	}
}
