package editions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/safetyid/safetyid-console/internal/catalog"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// ErrInUse indicates the edition is still referenced by companies or users.
var ErrInUse = errors.New("edition is referenced and cannot be deleted")

// Service handles edition business logic.
type Service struct {
	repo  RepositoryPort
	cache *catalog.Cache
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *catalog.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns all editions, served through the catalog cache.
func (s *Service) List(ctx context.Context) ([]Edition, error) {
	key, err := s.cache.BuildKey(ctx, catalog.KeyEditions()...)
	if err != nil {
		return nil, err
	}
	var editions []Edition
	err = s.cache.FetchJSON(ctx, key, &editions, func(ctx context.Context) (interface{}, error) {
		return s.repo.List(ctx)
	})
	return editions, err
}

// Get fetches one edition.
func (s *Service) Get(ctx context.Context, id string) (Edition, error) {
	if strings.TrimSpace(id) == "" {
		return Edition{}, fmt.Errorf("%w: edition id required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create inserts a new edition with a generated id.
func (s *Service) Create(ctx context.Context, name string) (Edition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Edition{}, fmt.Errorf("%w: edition name required", httpx.ErrValidation)
	}
	created, err := s.repo.Create(ctx, Edition{ID: uuid.NewString(), Name: name})
	if err != nil {
		return Edition{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Rename updates the edition name.
func (s *Service) Rename(ctx context.Context, id, name string) (Edition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Edition{}, fmt.Errorf("%w: edition name required", httpx.ErrValidation)
	}
	renamed, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return Edition{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return renamed, err
	}
	return renamed, nil
}

// Delete removes an edition unless it is still referenced; the repository
// enforces the guard and the delete atomically.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}
