package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey string

// AccountIDKey is the context key for the verified account id.
const AccountIDKey = contextKey("accountID")

// WithAccountID returns a copy of ctx carrying accountID.
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// AccountIDFromContext returns the account id placed by the middleware.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(AccountIDKey).(int64)
	return id, ok && id > 0
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// TokenSource pulls a raw token out of a request.
type TokenSource func(r *http.Request) string

// QueryToken reads the token from the "token" query parameter. Browsers
// cannot set headers on websocket upgrades, so /ws uses this source.
func QueryToken(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// Middleware rejects requests without a valid token: 401 when the token is
// absent, 403 when it is malformed, badly signed or expired.
func Middleware(issuer *Issuer, source TokenSource) func(http.Handler) http.Handler {
	if source == nil {
		source = BearerToken
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := issuer.Verify(source(r))
			if err != nil {
				status, code := http.StatusForbidden, "token_invalid"
				switch {
				case errors.Is(err, ErrTokenMissing):
					status, code = http.StatusUnauthorized, "token_missing"
				case errors.Is(err, ErrTokenExpired):
					code = "token_expired"
				}
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected request")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "code": code})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}
