package companies

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safetyid/safetyid-console/internal/platform/db"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Delete guard errors, also returned by the test double.
var (
	errHasChildren = fmt.Errorf("%w: company still parents other companies", httpx.ErrValidation)
	errReferenced  = fmt.Errorf("%w: company is referenced by user relationships", httpx.ErrValidation)
)

// RepositoryPort defines data access methods for companies.
type RepositoryPort interface {
	ListByEdition(ctx context.Context, editionID string) ([]Company, error)
	Get(ctx context.Context, id string) (Company, error)
	Create(ctx context.Context, company Company) (Company, error)
	Update(ctx context.Context, company Company) (Company, error)
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

const companyColumns = `id, name, edition_id, is_channel_partner, COALESCE(parent_company_id, ''), created_at, updated_at`

// ListByEdition returns every company of an edition, channels included,
// ordered by creation time so downstream filtering keeps a stable order.
func (r *Repository) ListByEdition(ctx context.Context, editionID string) ([]Company, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE edition_id = $1 ORDER BY created_at, id`, editionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Get fetches one company by id.
func (r *Repository) Get(ctx context.Context, id string) (Company, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, httpx.ErrNotFound
	}
	return c, err
}

// Create inserts a new company.
func (r *Repository) Create(ctx context.Context, company Company) (Company, error) {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO companies (id, name, edition_id, is_channel_partner, parent_company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $6)`,
		company.ID, company.Name, company.EditionID, company.IsChannelPartner, company.ParentCompanyID, now)
	if err != nil {
		if db.UniqueViolation(err) {
			return Company{}, httpx.ErrDuplicate
		}
		return Company{}, err
	}
	company.CreatedAt = now
	company.UpdatedAt = now
	return company, nil
}

// Update rewrites the mutable fields of a company.
func (r *Repository) Update(ctx context.Context, company Company) (Company, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE companies
		SET name = $2, is_channel_partner = $3, parent_company_id = NULLIF($4, ''), updated_at = NOW()
		WHERE id = $1
		RETURNING `+companyColumns,
		company.ID, company.Name, company.IsChannelPartner, company.ParentCompanyID)
	updated, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, httpx.ErrNotFound
	}
	return updated, err
}

// Delete removes a company. The child and relationship guards run in the same
// repeatable-read transaction as the delete so no row can slip in between the
// check and the removal.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var hasChildren, referenced bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM companies WHERE parent_company_id = $1),
			       EXISTS (SELECT 1 FROM user_companies WHERE company_id = $1)`, id).
			Scan(&hasChildren, &referenced)
		if err != nil {
			return err
		}
		if hasChildren {
			return errHasChildren
		}
		if referenced {
			return errReferenced
		}
		tag, err := tx.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
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

func scanCompany(row rowScanner) (Company, error) {
	var c Company
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&c.ID, &c.Name, &c.EditionID, &c.IsChannelPartner, &c.ParentCompanyID, &createdAt, &updatedAt); err != nil {
		return Company{}, err
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return c, nil
}
