package safetyids

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safetyid/safetyid-console/internal/platform/db"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// RepositoryPort defines data access methods for safety identifiers.
type RepositoryPort interface {
	Create(ctx context.Context, sid SafetyID) (SafetyID, error)
	Get(ctx context.Context, id string) (SafetyID, error)
	ListByUser(ctx context.Context, userID string) ([]SafetyID, error)
	Revoke(ctx context.Context, id string) (SafetyID, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sidColumns = `id, user_id, edition_id, code, status, issued_at, revoked_at`

// Create inserts one identifier. A partial unique index on
// (user_id, edition_id) WHERE status = 'active' enforces one active
// identifier per user and edition.
func (r *Repository) Create(ctx context.Context, sid SafetyID) (SafetyID, error) {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO safety_ids (id, user_id, edition_id, code, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sid.ID, sid.UserID, sid.EditionID, sid.Code, sid.Status, now)
	if err != nil {
		switch {
		case db.UniqueViolation(err):
			return SafetyID{}, httpx.ErrDuplicate
		case db.ForeignKeyViolation(err):
			return SafetyID{}, httpx.ErrValidation
		}
		return SafetyID{}, err
	}
	sid.IssuedAt = now
	return sid, nil
}

// Get fetches one identifier by id.
func (r *Repository) Get(ctx context.Context, id string) (SafetyID, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sidColumns+` FROM safety_ids WHERE id = $1`, id)
	sid, err := scanSafetyID(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SafetyID{}, httpx.ErrNotFound
	}
	return sid, err
}

// ListByUser returns a user's identifiers, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]SafetyID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sidColumns+` FROM safety_ids
		WHERE user_id = $1 ORDER BY issued_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []SafetyID
	for rows.Next() {
		sid, err := scanSafetyID(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, sid)
	}
	return list, rows.Err()
}

// Revoke marks an active identifier revoked.
func (r *Repository) Revoke(ctx context.Context, id string) (SafetyID, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE safety_ids
		SET status = $2, revoked_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+sidColumns,
		id, StatusRevoked, StatusActive)
	sid, err := scanSafetyID(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SafetyID{}, httpx.ErrNotFound
	}
	return sid, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSafetyID(row rowScanner) (SafetyID, error) {
	var sid SafetyID
	var issuedAt, revokedAt pgtype.Timestamptz
	if err := row.Scan(&sid.ID, &sid.UserID, &sid.EditionID, &sid.Code, &sid.Status, &issuedAt, &revokedAt); err != nil {
		return SafetyID{}, err
	}
	if issuedAt.Valid {
		sid.IssuedAt = issuedAt.Time
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		sid.RevokedAt = &t
	}
	return sid, nil
}
