package editions

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

// RepositoryPort defines data access methods for editions.
type RepositoryPort interface {
	List(ctx context.Context) ([]Edition, error)
	Get(ctx context.Context, id string) (Edition, error)
	Create(ctx context.Context, edition Edition) (Edition, error)
	Rename(ctx context.Context, id, name string) (Edition, error)
	Delete(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all editions ordered by name.
func (r *Repository) List(ctx context.Context) ([]Edition, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM editions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var editions []Edition
	for rows.Next() {
		e, err := scanEdition(rows)
		if err != nil {
			return nil, err
		}
		editions = append(editions, e)
	}
	return editions, rows.Err()
}

// Get fetches one edition by id.
func (r *Repository) Get(ctx context.Context, id string) (Edition, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM editions WHERE id = $1`, id)
	e, err := scanEdition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Edition{}, httpx.ErrNotFound
	}
	return e, err
}

// Create inserts a new edition.
func (r *Repository) Create(ctx context.Context, edition Edition) (Edition, error) {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO editions (id, name, created_at, updated_at) VALUES ($1, $2, $3, $3)`,
		edition.ID, edition.Name, now)
	if err != nil {
		if db.UniqueViolation(err) {
			return Edition{}, httpx.ErrDuplicate
		}
		return Edition{}, err
	}
	edition.CreatedAt = now
	edition.UpdatedAt = now
	return edition, nil
}

// Rename updates the edition name. Renaming is the only mutation allowed once
// the edition is referenced.
func (r *Repository) Rename(ctx context.Context, id, name string) (Edition, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE editions SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING id, name, created_at, updated_at`,
		id, name)
	e, err := scanEdition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Edition{}, httpx.ErrNotFound
	}
	return e, err
}

// Delete removes an edition. The reference check runs in the same
// repeatable-read transaction as the delete so a company or relationship row
// cannot land between the check and the removal.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var referenced bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM companies WHERE edition_id = $1)
			    OR EXISTS (SELECT 1 FROM user_companies WHERE edition_id = $1)`, id).Scan(&referenced)
		if err != nil {
			return err
		}
		if referenced {
			return ErrInUse
		}
		tag, err := tx.Exec(ctx, `DELETE FROM editions WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEdition(row rowScanner) (Edition, error) {
	var e Edition
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&e.ID, &e.Name, &createdAt, &updatedAt); err != nil {
		return Edition{}, err
	}
	if createdAt.Valid {
		e.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		e.UpdatedAt = updatedAt.Time
	}
	return e, nil
}
