package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/teamcook/account-api/internal/api"
	"github.com/teamcook/account-api/internal/types"
)

type contextKey string

const accountKey contextKey = "account"

// AccountDirectory is the lookup the resolver needs to turn a verified token
// subject into a live account record.
type AccountDirectory interface {
	GetAccountByID(ctx context.Context, id string) (*types.Account, error)
}

// Authenticate resolves the identity for every protected request: it extracts
// the bearer token, verifies it, and loads the live account for the token's
// subject. Any failure — missing or malformed header, bad or expired token,
// account deleted after issuance — yields the same 401 with a Bearer
// challenge, so the response never reveals which check failed. The causes are
// distinguished in logs only.
func Authenticate(logger *slog.Logger, tokens TokenService, directory AccountDirectory) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.UnauthenticatedResponse(w, r)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.UnauthenticatedResponse(w, r)
				return
			}

			claims, err := tokens.Verify(headerParts[1])
			if err != nil {
				l.WarnContext(ctx, "Token verification failed", slog.Any("error", err))
				api.UnauthenticatedResponse(w, r)
				return
			}

			// The live record is authoritative; the token's role claim is
			// never trusted past this lookup. A subject whose account was
			// deleted after issuance fails here.
			account, err := directory.GetAccountByID(ctx, claims.Subject)
			if err != nil {
				l.WarnContext(ctx, "Token subject has no live account",
					slog.String("subject", claims.Subject), slog.Any("error", err))
				api.UnauthenticatedResponse(w, r)
				return
			}

			ctx = context.WithValue(ctx, accountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the authenticated account stored by Authenticate.
func AccountFromContext(ctx context.Context) (*types.Account, bool) {
	account, ok := ctx.Value(accountKey).(*types.Account)
	return account, ok
}

// ContextWithAccount injects an account the way Authenticate does. Used by
// handler tests to exercise protected endpoints without the middleware.
func ContextWithAccount(ctx context.Context, account *types.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}
