package jwtmiddleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linemk/agri-market/internal/clients/marketplace"
)

type contextKey string

const SessionIDKey contextKey = "sessionID"

// SessionLookup отдаёт токен upstream по id сессии.
type SessionLookup interface {
	Get(ctx context.Context, id string) (string, error)
}

// NewJWTMiddleware проверяет JWT шлюза, находит сессию и кладёт в контекст
// её id и токен upstream.
func NewJWTMiddleware(secret string, sessions SessionLookup) func(http.Handler) http.Handler {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization (формат: "Bearer <token>")
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			sessionID, err := token.Claims.GetSubject()
			if err != nil || sessionID == "" {
				http.Error(w, "invalid token claims: sub not found", http.StatusUnauthorized)
				return
			}

			// сессия могла быть закрыта раньше, чем истёк JWT
			upstreamToken, err := sessions.Get(r.Context(), sessionID)
			if err != nil {
				http.Error(w, "session expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
			ctx = marketplace.WithToken(ctx, upstreamToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext извлекает id сессии из контекста.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}
