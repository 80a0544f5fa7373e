package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Authenticate validates email/password credentials and returns a signed token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", Account{}, ErrInvalidCredentials
	}
	if !account.IsActive {
		return "", Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", Account{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(Principal{UserID: account.ID, Email: account.Email, Role: account.Role})
	if err != nil {
		return "", Account{}, err
	}
	return token, account, nil
}
