package auth

import (
	"context"

	"github.com/safetyid/safetyid-console/internal/hierarchy"
)

// Account is the credential view of a user needed for login.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         hierarchy.Role
	IsActive     bool
}

// Principal describes the authenticated actor attached to a request.
type Principal struct {
	UserID string
	Email  string
	Role   hierarchy.Role
}

type contextKey struct{}

// ContextWithPrincipal stores the principal in the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext retrieves the principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
