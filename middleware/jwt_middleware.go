package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"poi-map-server/utils/errors"
)

// UserIDKey is the request-context key carrying the authenticated user's
// public id.
const UserIDKey = "userID"

// JWTMiddleware guards mutating routes: it requires a valid HS256 bearer
// token and exposes the user id on the request context.
func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Preflight requests carry no credentials.
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				WriteError(w, errors.ErrUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.NewAPIError("INVALID_TOKEN", "Unexpected signing method", http.StatusUnauthorized)
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				WriteError(w, errors.ErrUnauthorized)
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				WriteError(w, errors.ErrUnauthorized)
				return
			}
			userID, ok := claims[UserIDKey].(string)
			if !ok || userID == "" {
				WriteError(w, errors.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
