package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/safetyid/safetyid-console/internal/catalog"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Service handles company business logic, including the parent/channel
// invariants.
type Service struct {
	repo  RepositoryPort
	cache *catalog.Cache
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *catalog.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ListByEdition returns the full company catalog of an edition through the
// read-through cache.
func (s *Service) ListByEdition(ctx context.Context, editionID string) ([]Company, error) {
	if strings.TrimSpace(editionID) == "" {
		return nil, fmt.Errorf("%w: edition id required", httpx.ErrValidation)
	}
	key, err := s.cache.BuildKey(ctx, catalog.KeyEditionCompanies(editionID)...)
	if err != nil {
		return nil, err
	}
	var list []Company
	err = s.cache.FetchJSON(ctx, key, &list, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListByEdition(ctx, editionID)
	})
	return list, err
}

// ListChannels returns only the channel-partner companies of an edition. The
// filter itself lives in the hierarchy package so the selection rules have a
// single owner.
func (s *Service) ListChannels(ctx context.Context, editionID string) ([]Company, error) {
	list, err := s.ListByEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}
	return pick(list, hierarchy.ChannelsForEdition(editionID, Refs(list))), nil
}

// ListForChannel returns the companies selectable once a channel is chosen,
// or the parentless companies when channelID is the "none" sentinel.
func (s *Service) ListForChannel(ctx context.Context, editionID, channelID string) ([]Company, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, fmt.Errorf("%w: channel id required", httpx.ErrValidation)
	}
	list, err := s.ListByEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}
	return pick(list, hierarchy.CompaniesForChannel(channelID, Refs(list))), nil
}

// pick maps the filtered refs back onto the full rows, keeping filter order.
func pick(list []Company, refs []hierarchy.CompanyRef) []Company {
	byID := make(map[string]Company, len(list))
	for _, c := range list {
		byID[c.ID] = c
	}
	out := make([]Company, 0, len(refs))
	for _, ref := range refs {
		if c, ok := byID[ref.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Get fetches one company.
func (s *Service) Get(ctx context.Context, id string) (Company, error) {
	if strings.TrimSpace(id) == "" {
		return Company{}, fmt.Errorf("%w: company id required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create inserts a new company after checking the hierarchy invariants.
func (s *Service) Create(ctx context.Context, company Company) (Company, error) {
	company.ID = uuid.NewString()
	if err := s.validate(ctx, company); err != nil {
		return Company{}, err
	}
	created, err := s.repo.Create(ctx, company)
	if err != nil {
		return Company{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Update rewrites a company after re-checking the hierarchy invariants.
// The owning edition cannot change.
func (s *Service) Update(ctx context.Context, company Company) (Company, error) {
	existing, err := s.repo.Get(ctx, company.ID)
	if err != nil {
		return Company{}, err
	}
	company.EditionID = existing.EditionID
	if err := s.validate(ctx, company); err != nil {
		return Company{}, err
	}
	updated, err := s.repo.Update(ctx, company)
	if err != nil {
		return Company{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes a company unless it still parents others or is referenced
// by user relationships. The repository runs both guards and the delete in
// one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}

// Import normalizes a batch of legacy company payloads and inserts the valid
// rows. Malformed entries are skipped and reported back; the import never
// aborts halfway.
func (s *Service) Import(ctx context.Context, editionID string, records []LegacyCompany) (imported []Company, skipped int, err error) {
	for _, rec := range records {
		c, normErr := rec.Normalize()
		if normErr != nil {
			skipped++
			continue
		}
		if c.EditionID == "" {
			c.EditionID = editionID
		}
		if c.EditionID != editionID {
			skipped++
			continue
		}
		if vErr := s.validate(ctx, c); vErr != nil {
			skipped++
			continue
		}
		created, cErr := s.repo.Create(ctx, c)
		if cErr != nil {
			if errors.Is(cErr, httpx.ErrDuplicate) {
				skipped++
				continue
			}
			return imported, skipped, cErr
		}
		imported = append(imported, created)
	}
	if len(imported) > 0 {
		if bErr := s.cache.Bump(ctx); bErr != nil {
			return imported, skipped, bErr
		}
	}
	return imported, skipped, nil
}

func (s *Service) validate(ctx context.Context, c Company) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: company name required", httpx.ErrValidation)
	}
	if strings.TrimSpace(c.EditionID) == "" {
		return fmt.Errorf("%w: edition id required", httpx.ErrValidation)
	}
	if c.IsChannelPartner && c.ParentCompanyID != "" {
		return fmt.Errorf("%w: a channel cannot have a parent company", httpx.ErrValidation)
	}
	if c.ParentCompanyID != "" {
		parent, err := s.repo.Get(ctx, c.ParentCompanyID)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				return fmt.Errorf("%w: parent company does not exist", httpx.ErrValidation)
			}
			return err
		}
		if !parent.IsChannelPartner {
			return fmt.Errorf("%w: parent company is not a channel partner", httpx.ErrValidation)
		}
		if parent.EditionID != c.EditionID {
			return fmt.Errorf("%w: parent company belongs to a different edition", httpx.ErrValidation)
		}
	}
	return nil
}
