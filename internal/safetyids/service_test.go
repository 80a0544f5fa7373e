package safetyids

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

type mockRepository struct {
	ids   map[string]SafetyID
	order []string
}

func newMockRepository() *mockRepository {
	return &mockRepository{ids: make(map[string]SafetyID)}
}

func (m *mockRepository) Create(ctx context.Context, sid SafetyID) (SafetyID, error) {
	for _, existing := range m.ids {
		if existing.UserID == sid.UserID && existing.EditionID == sid.EditionID && existing.Status == StatusActive {
			return SafetyID{}, httpx.ErrDuplicate
		}
	}
	sid.IssuedAt = time.Now()
	m.ids[sid.ID] = sid
	m.order = append(m.order, sid.ID)
	return sid, nil
}

func (m *mockRepository) Get(ctx context.Context, id string) (SafetyID, error) {
	sid, ok := m.ids[id]
	if !ok {
		return SafetyID{}, httpx.ErrNotFound
	}
	return sid, nil
}

func (m *mockRepository) ListByUser(ctx context.Context, userID string) ([]SafetyID, error) {
	var list []SafetyID
	for _, id := range m.order {
		if m.ids[id].UserID == userID {
			list = append(list, m.ids[id])
		}
	}
	return list, nil
}

func (m *mockRepository) Revoke(ctx context.Context, id string) (SafetyID, error) {
	sid, ok := m.ids[id]
	if !ok || sid.Status != StatusActive {
		return SafetyID{}, httpx.ErrNotFound
	}
	now := time.Now()
	sid.Status = StatusRevoked
	sid.RevokedAt = &now
	m.ids[id] = sid
	return sid, nil
}

type recordingEnqueuer struct {
	issued []SafetyID
}

func (r *recordingEnqueuer) SafetyIDIssued(ctx context.Context, sid SafetyID) error {
	r.issued = append(r.issued, sid)
	return nil
}

func TestIssue(t *testing.T) {
	repo := newMockRepository()
	enq := &recordingEnqueuer{}
	svc := NewService(repo, enq, nil)
	ctx := context.Background()

	sid, err := svc.Issue(ctx, "u-1", "e1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sid.Status)
	assert.True(t, strings.HasPrefix(sid.Code, "SID-"))

	require.Len(t, enq.issued, 1)
	assert.Equal(t, sid.ID, enq.issued[0].ID)
}

func TestIssueValidation(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "", "e1")
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.Issue(ctx, "u-1", " ")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestIssueSecondActivePerEditionIsDuplicate(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "u-1", "e1")
	require.NoError(t, err)

	_, err = svc.Issue(ctx, "u-1", "e1")
	assert.ErrorIs(t, err, httpx.ErrDuplicate)

	_, err = svc.Issue(ctx, "u-1", "e2")
	assert.NoError(t, err)
}

func TestRevokeThenReissue(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "u-1", "e1")
	require.NoError(t, err)

	revoked, err := svc.Revoke(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRevoked, revoked.Status)
	require.NotNil(t, revoked.RevokedAt)

	// Revoking twice is a not-found, not a silent success.
	_, err = svc.Revoke(ctx, first.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	second, err := svc.Issue(ctx, "u-1", "e1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, second.Code)

	list, err := svc.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGenerateCodeShape(t *testing.T) {
	code := generateCode()
	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "SID", parts[0])
	assert.Len(t, parts[1], 4)
	assert.Len(t, parts[2], 4)
	assert.NotEqual(t, code, generateCode())
}
