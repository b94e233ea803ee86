package middleware

import (
	"context"
	"net/http"

	"github.com/go-account-api/internal/domain"
	jwtinfra "github.com/go-account-api/internal/infrastructure/jwt"
)

type contextKey string

const AccountIDKey contextKey = "accountID"

type accountGetter interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
}

// Auth returns middleware gating protected routes on the custom `token`
// header. It verifies the token, resolves the embedded account id and
// rejects blocked and deleted accounts before the handler runs. On success
// the account id is injected into the request context; the middleware has no
// other side effects.
func Auth(provider *jwtinfra.Provider, accounts accountGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get("token")
			if tokenStr == "" {
				writeEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "token required")
				return
			}
			claims, err := provider.Verify(tokenStr)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			a, err := accounts.Get(r.Context(), claims.UserID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			switch a.Status {
			case domain.StatusBlock:
				writeDomainError(w, domain.ErrAccountBlocked)
				return
			case domain.StatusDelete:
				writeDomainError(w, domain.ErrAccountDeleted)
				return
			}
			ctx := context.WithValue(r.Context(), AccountIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFromContext extracts the authenticated account id from the
// request context.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountIDKey).(string)
	return id, ok
}
