package middleware

import (
	"context"
	"net/http"
	"strings"
)

const AccountIDHeader = "X-Account-ID"

type accountIDKey struct{}

// AccountIdentity copies the account id set by the upstream gateway into the
// request context. Requests without the header pass through untouched.
func AccountIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(AccountIDHeader)); id != "" {
			r = r.WithContext(WithAccountID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, accountIDKey{}, id)
}

func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey{}).(string)
	return id, ok && id != ""
}
