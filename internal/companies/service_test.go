package companies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetyid/safetyid-console/internal/catalog"
	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

type mockRepository struct {
	companies  map[string]Company
	order      []string
	children   map[string]bool
	referenced map[string]bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		companies:  make(map[string]Company),
		children:   make(map[string]bool),
		referenced: make(map[string]bool),
	}
}

func (m *mockRepository) ListByEdition(ctx context.Context, editionID string) ([]Company, error) {
	list := []Company{}
	for _, id := range m.order {
		if c := m.companies[id]; c.EditionID == editionID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockRepository) Get(ctx context.Context, id string) (Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return Company{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) Create(ctx context.Context, c Company) (Company, error) {
	if _, ok := m.companies[c.ID]; ok {
		return Company{}, httpx.ErrDuplicate
	}
	m.companies[c.ID] = c
	m.order = append(m.order, c.ID)
	return c, nil
}

func (m *mockRepository) Update(ctx context.Context, c Company) (Company, error) {
	if _, ok := m.companies[c.ID]; !ok {
		return Company{}, httpx.ErrNotFound
	}
	m.companies[c.ID] = c
	return c, nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if m.children[id] {
		return errHasChildren
	}
	if m.referenced[id] {
		return errReferenced
	}
	if _, ok := m.companies[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.companies, id)
	return nil
}

func newTestService(repo *mockRepository) *Service {
	return NewService(repo, catalog.NewCache(nil, time.Minute))
}

func seedChannel(t *testing.T, repo *mockRepository) Company {
	t.Helper()
	channel := Company{ID: "ch-1", Name: "ChannelCo", EditionID: "e1", IsChannelPartner: true}
	_, err := repo.Create(context.Background(), channel)
	require.NoError(t, err)
	return channel
}

func TestCreateCompany(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	channel := seedChannel(t, repo)

	created, err := svc.Create(context.Background(), Company{
		Name:            "SubCo",
		EditionID:       "e1",
		ParentCompanyID: channel.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, channel.ID, created.ParentCompanyID)
}

func TestCreateCompanyValidation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	seedChannel(t, repo)
	ctx := context.Background()

	cases := []struct {
		name    string
		company Company
	}{
		{"missing name", Company{EditionID: "e1"}},
		{"missing edition", Company{Name: "Acme"}},
		{"channel with parent", Company{Name: "Acme", EditionID: "e1", IsChannelPartner: true, ParentCompanyID: "ch-1"}},
		{"unknown parent", Company{Name: "Acme", EditionID: "e1", ParentCompanyID: "missing"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.company)
			assert.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestCreateCompanyParentMustBeChannelInSameEdition(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	plain := Company{ID: "p-1", Name: "PlainCo", EditionID: "e1"}
	_, err := repo.Create(ctx, plain)
	require.NoError(t, err)
	_, err = svc.Create(ctx, Company{Name: "Sub", EditionID: "e1", ParentCompanyID: "p-1"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	other := Company{ID: "ch-2", Name: "OtherChannel", EditionID: "e2", IsChannelPartner: true}
	_, err = repo.Create(ctx, other)
	require.NoError(t, err)
	_, err = svc.Create(ctx, Company{Name: "Sub", EditionID: "e1", ParentCompanyID: "ch-2"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateCompanyKeepsEdition(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	existing := Company{ID: "c-1", Name: "Acme", EditionID: "e1"}
	_, err := repo.Create(ctx, existing)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, Company{ID: "c-1", Name: "Acme Renamed", EditionID: "e2"})
	require.NoError(t, err)
	assert.Equal(t, "e1", updated.EditionID)
	assert.Equal(t, "Acme Renamed", updated.Name)
}

func TestDeleteCompanyGuards(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	channel := seedChannel(t, repo)
	repo.children[channel.ID] = true
	assert.ErrorIs(t, svc.Delete(ctx, channel.ID), httpx.ErrValidation)

	repo.children[channel.ID] = false
	repo.referenced[channel.ID] = true
	assert.ErrorIs(t, svc.Delete(ctx, channel.ID), httpx.ErrValidation)

	repo.referenced[channel.ID] = false
	assert.NoError(t, svc.Delete(ctx, channel.ID))
}

func TestListChannels(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	seedChannel(t, repo)
	_, err := repo.Create(ctx, Company{ID: "c-2", Name: "PlainCo", EditionID: "e1"})
	require.NoError(t, err)

	channels, err := svc.ListChannels(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.True(t, channels[0].IsChannelPartner)
}

func TestListForChannel(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	channel := seedChannel(t, repo)
	_, err := repo.Create(ctx, Company{ID: "c-2", Name: "SubCo", EditionID: "e1", ParentCompanyID: channel.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, Company{ID: "c-3", Name: "StandaloneCo", EditionID: "e1"})
	require.NoError(t, err)

	under, err := svc.ListForChannel(ctx, "e1", channel.ID)
	require.NoError(t, err)
	require.Len(t, under, 1)
	assert.Equal(t, "c-2", under[0].ID)
	assert.Equal(t, "SubCo", under[0].Name)

	direct, err := svc.ListForChannel(ctx, "e1", hierarchy.ChannelNone)
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, "c-3", direct[0].ID)

	_, err = svc.ListForChannel(ctx, "e1", " ")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestImportSkipsBadRowsAndContinues(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	imported, skipped, err := svc.Import(ctx, "e1", []LegacyCompany{
		{ID: "c-1", Name: "ChannelCo", IsChannelPartner: boolPtr(true)},
		{Name: "no id"},
		{ID: "c-2", Name: "Elsewhere", EditionID: "e2"},
		{ID: "c-3", Name: "Sub", ChannelID: "c-1"},
		{ID: "c-1", Name: "ChannelCo"},
	})
	require.NoError(t, err)

	// Edition mismatch, missing id and the duplicate are skipped; the rest land.
	assert.Equal(t, 3, skipped)
	require.Len(t, imported, 2)
	assert.Equal(t, "c-1", imported[0].ID)
	assert.Equal(t, "c-3", imported[1].ID)
	assert.Equal(t, "c-1", imported[1].ParentCompanyID)
}
