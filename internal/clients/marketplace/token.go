package marketplace

import "context"

type tokenKey struct{}

// WithToken кладёт токен upstream в контекст запроса.
// Клиент сам по себе токена не хранит: один экземпляр обслуживает всех пользователей.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext достаёт токен upstream из контекста.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok && t != ""
}
