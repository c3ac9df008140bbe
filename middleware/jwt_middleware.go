package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"pickmeup-server/session"
	"pickmeup-server/store"
	"pickmeup-server/utils/errors"
)

// JWTMiddleware authenticates the request and resolves the caller's profile
// into a session.Session on the request context. A token whose session was
// cleared by logout, or whose profile document is missing, is treated as
// unauthenticated.
func JWTMiddleware(jwtSecret string, users store.UserStore, sessions store.SessionCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
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
			uid, ok := claims["userID"].(string)
			if !ok || uid == "" {
				WriteError(w, errors.ErrUnauthorized)
				return
			}

			// explicit sign-out clears the session entry
			active, err := sessions.GetSession(r.Context(), uid)
			if err != nil {
				WriteError(w, err)
				return
			}
			if active != tokenString {
				WriteError(w, errors.ErrUnauthorized)
				return
			}

			user, err := users.GetByID(r.Context(), uid)
			if err != nil {
				if err == errors.ErrNotFound {
					// valid credential without a profile document
					log.Printf("No profile for authenticated uid %s, treating as unauthenticated", uid)
					WriteError(w, errors.ErrUnauthorized)
					return
				}
				WriteError(w, err)
				return
			}

			ctx := session.WithSession(r.Context(), session.Session{
				UID:      user.ID,
				Email:    user.Email,
				Username: user.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
