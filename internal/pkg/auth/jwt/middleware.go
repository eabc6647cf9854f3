package jwt

import (
	"context"
	"net/http"

	"pawchat/internal/pkg/logx"
)

// Context key for storing the Claims struct, preventing collisions with other packages.
type contextKey string

const (
	// ContextAuthClaimsKey is the key used to store the parsed Claims (user identity) in the request Context.
	ContextAuthClaimsKey contextKey = "auth_claims"
)

// IdentityExtractorMiddleware attempts to extract and validate a session token
// from the request (cookie or Authorization header). It injects the Claims into
// the Context on success. It does NOT interrupt the request on failure or
// missing token; the user is treated as anonymous instead.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := SessionToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := ParseToken(tokenString, secretKey)
			if err != nil {
				logx.Warn("Invalid or expired session token, treating as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext safely extracts the authenticated Claims from the request Context.
// Where IdentityExtractorMiddleware is applied, a nil return means the user is anonymous.
func GetClaimsFromContext(r *http.Request) *Claims {
	claims, ok := r.Context().Value(ContextAuthClaimsKey).(*Claims)

	if !ok {
		return nil
	}

	return claims
}
