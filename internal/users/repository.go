package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/db"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// RepositoryPort defines data access methods for users and their
// relationship rows.
type RepositoryPort interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
	CreateRelationship(ctx context.Context, rel Relationship) (Relationship, error)
	ListRelationships(ctx context.Context, userID string) ([]Relationship, error)
	ListOrphanUsers(ctx context.Context, olderThan time.Duration) ([]User, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, first_name, last_name, email, COALESCE(phone, ''), password_hash, role, status, created_at, updated_at`

// CreateUser inserts the user row. This is step one of the two-step creation;
// relationships follow separately and may partially fail.
func (r *Repository) CreateUser(ctx context.Context, user User) (User, error) {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $9)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.PasswordHash, string(user.Role), user.Status, now)
	if err != nil {
		if db.UniqueViolation(err) {
			return User{}, httpx.ErrDuplicate
		}
		return User{}, err
	}
	user.PasswordHash = ""
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

// GetUser fetches one user by id.
func (r *Repository) GetUser(ctx context.Context, id string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, httpx.ErrNotFound
	}
	return u, err
}

// ListUsers returns all users ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// UpdateUser rewrites the personal fields and status.
func (r *Repository) UpdateUser(ctx context.Context, user User) (User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = NULLIF($4, ''), status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.FirstName, user.LastName, user.Phone, user.Status)
	updated, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, httpx.ErrNotFound
	}
	return updated, err
}

// DeleteUser removes a user and, through ON DELETE CASCADE, its relationships.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// CreateRelationship inserts one user_companies row.
func (r *Repository) CreateRelationship(ctx context.Context, rel Relationship) (Relationship, error) {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_companies (id, user_id, edition_id, company_id, role, status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)`,
		rel.ID, rel.UserID, rel.EditionID, rel.CompanyID, string(rel.Role), rel.Status, now)
	if err != nil {
		if db.UniqueViolation(err) {
			return Relationship{}, httpx.ErrDuplicate
		}
		return Relationship{}, err
	}
	rel.CreatedAt = now
	return rel, nil
}

// ListRelationships returns the relationship rows of a user in creation order.
func (r *Repository) ListRelationships(ctx context.Context, userID string) ([]Relationship, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, COALESCE(edition_id, ''), COALESCE(company_id, ''), role, status, created_at
		FROM user_companies WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Relationship
	for rows.Next() {
		var rel Relationship
		var role string
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&rel.ID, &rel.UserID, &rel.EditionID, &rel.CompanyID, &role, &rel.Status, &createdAt); err != nil {
			return nil, err
		}
		rel.Role = hierarchy.Role(role)
		if createdAt.Valid {
			rel.CreatedAt = createdAt.Time
		}
		list = append(list, rel)
	}
	return list, rows.Err()
}

// ListOrphanUsers finds users older than the cutoff whose primary role needs
// relationship rows but who have none. These are leftovers of the
// partial-failure window in the two-step creation.
func (r *Repository) ListOrphanUsers(ctx context.Context, olderThan time.Duration) ([]User, error) {
	cutoff := time.Now().Add(-olderThan)
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.role <> $1
		  AND u.created_at < $2
		  AND NOT EXISTS (SELECT 1 FROM user_companies uc WHERE uc.user_id = u.id)
		ORDER BY u.created_at`, string(hierarchy.RoleSuperAdmin), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var role string
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash, &role, &u.Status, &createdAt, &updatedAt); err != nil {
		return User{}, err
	}
	u.Role = hierarchy.Role(role)
	if createdAt.Valid {
		u.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	}
	return u, nil
}
