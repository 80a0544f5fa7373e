package safetyids

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Enqueuer hands the issued-identifier notification to the job queue.
type Enqueuer interface {
	SafetyIDIssued(ctx context.Context, sid SafetyID) error
}

// Service handles safety identifier business logic.
type Service struct {
	repo     RepositoryPort
	enqueuer Enqueuer
	logger   *slog.Logger
	newCode  func() string
}

// NewService builds Service instance. enqueuer may be nil.
func NewService(repo RepositoryPort, enqueuer Enqueuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, enqueuer: enqueuer, logger: logger, newCode: generateCode}
}

// Issue creates one active identifier for a user within an edition and
// enqueues the notification. An active identifier already held for the same
// edition surfaces as a duplicate.
func (s *Service) Issue(ctx context.Context, userID, editionID string) (SafetyID, error) {
	if strings.TrimSpace(userID) == "" {
		return SafetyID{}, fmt.Errorf("%w: user id is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(editionID) == "" {
		return SafetyID{}, fmt.Errorf("%w: edition id is required", httpx.ErrValidation)
	}
	sid := SafetyID{
		ID:        uuid.NewString(),
		UserID:    userID,
		EditionID: editionID,
		Code:      s.newCode(),
		Status:    StatusActive,
	}
	created, err := s.repo.Create(ctx, sid)
	if err != nil {
		return SafetyID{}, err
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.SafetyIDIssued(ctx, created); err != nil {
			s.logger.Warn("enqueue safety id notification",
				slog.String("safety_id", created.ID),
				slog.Any("error", err))
		}
	}
	return created, nil
}

// Get returns one identifier.
func (s *Service) Get(ctx context.Context, id string) (SafetyID, error) {
	return s.repo.Get(ctx, id)
}

// ListByUser returns a user's identifiers.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]SafetyID, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Revoke marks an identifier revoked. Revoking an already revoked or unknown
// identifier is a not-found.
func (s *Service) Revoke(ctx context.Context, id string) (SafetyID, error) {
	return s.repo.Revoke(ctx, id)
}

// generateCode produces the printable identifier handed to the holder.
func generateCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("SID-%s-%s", raw[:4], raw[4:8])
}
