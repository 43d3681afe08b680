package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
)

type ctxKey string

const ctxKeyAccount ctxKey = "account"

func withAccount(ctx context.Context, a domain.Account) context.Context {
	return context.WithValue(ctx, ctxKeyAccount, a)
}

func accountFromContext(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(ctxKeyAccount).(domain.Account)
	return a, ok
}

// AccountLoader resolves the account behind an authenticated request.
type AccountLoader interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
}

// RequirePermission admits admins holding any of perms. Super admins always
// pass; with no perms any active admin passes. Must run after
// httpx.AuthnMiddleware.
func RequirePermission(accounts AccountLoader, perms ...domain.Permission) httpx.Middleware {
	required := make([]string, 0, len(perms))
	for _, p := range perms {
		required = append(required, string(p))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id := httpx.AccountIDFromContext(ctx)
			if id == "" {
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}
			acct, err := accounts.GetAccountByID(ctx, id)
			if errors.Is(err, service.ErrNotFound) {
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}
			if err != nil {
				writeError(w, r, err)
				return
			}

			if !acct.IsAdmin {
				authsdk.Forbidden("Unauthorized. Admin access required.").WriteError(w)
				return
			}
			if acct.SuspensionActive(time.Now()) {
				authsdk.AccountSuspended(acct.SuspendedUntil).WriteError(w)
				return
			}
			if len(perms) > 0 && !acct.HasAnyPermission(perms...) {
				authsdk.Forbidden("Insufficient permissions.", required...).WriteError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withAccount(ctx, acct)))
		})
	}
}

// RequireAdmin admits any active admin.
func RequireAdmin(accounts AccountLoader) httpx.Middleware {
	return RequirePermission(accounts)
}
