package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxUserCredentials ctxKey = "CLUBTRACK_USER_CREDENTIALS"

// UserCredentials carries the identity claims of the authenticated caller.
type UserCredentials struct {
	PersonID int64
	Email    string
	Username string
}

// WithUser stores the credentials on the context.
func WithUser(ctx context.Context, creds *UserCredentials) context.Context {
	return context.WithValue(ctx, ctxUserCredentials, creds)
}

// UserFromContext retrieves the authenticated caller, if present.
func UserFromContext(ctx context.Context) (*UserCredentials, bool) {
	u, ok := ctx.Value(ctxUserCredentials).(*UserCredentials)
	return u, ok && u != nil
}

// VerifyFunc validates the incoming bearer token and returns the caller credentials.
type VerifyFunc func(ctx context.Context, token string) (*UserCredentials, error)

// RequireBearer rejects requests without a valid bearer credential before any
// handler logic runs. OPTIONS preflights pass through untouched.
func RequireBearer(verify VerifyFunc) func(http.Handler) http.Handler {
	if verify == nil {
		panic("auth.RequireBearer: verify func must not be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := ExtractBearerToken(r)
			if !found || token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_request", error_description="missing bearer token"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			creds, err := verify(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), creds)))
		})
	}
}

// ExtractBearerToken pulls the token from the Authorization header.
func ExtractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	const prefix = "Bearer "
	// Case-insensitive prefix match.
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}

	return strings.TrimSpace(authHeader[len(prefix):]), true
}
