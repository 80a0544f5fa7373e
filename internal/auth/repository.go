package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safetyid/safetyid-console/internal/hierarchy"
)

// Repository looks up accounts for authentication.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	var role string
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, status = 'active'
		FROM users WHERE lower(email) = lower($1)`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	a.Role = hierarchy.Role(role)
	return a, nil
}
