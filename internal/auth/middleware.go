package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/safetyid/safetyid-console/internal/hierarchy"
	"github.com/safetyid/safetyid-console/internal/platform/httpx"
)

// Guard wires bearer-token authorization helpers for HTTP handlers.
type Guard struct {
	Tokens *TokenIssuer
	Logger *slog.Logger
}

// Authenticator parses the Authorization header and stores the principal in
// the request context. Requests without a valid token are rejected.
func (g Guard) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authorization header must be 'Bearer <token>'")
			return
		}
		principal, err := g.Tokens.Parse(parts[1])
		if err != nil {
			if g.Logger != nil {
				g.Logger.Warn("token rejected", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "the provided token is invalid or expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireRoles ensures the current principal holds one of the given roles.
// Super admins pass every check.
func (g Guard) RequireRoles(roles ...hierarchy.Role) func(http.Handler) http.Handler {
	allowed := make(map[hierarchy.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "no authenticated principal")
				return
			}
			if principal.Role == hierarchy.RoleSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[principal.Role]; ok {
				next.ServeHTTP(w, r)
				return
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
		})
	}
}
