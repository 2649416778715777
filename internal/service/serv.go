package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	security "github.com/linemk/agri-market/internal/jwt-new"
)

// TokenAPI выдаёт токен upstream по логину и паролю.
type TokenAPI interface {
	ObtainToken(ctx context.Context, username, password string) (string, error)
}

// SessionStore хранит токен upstream под id сессии шлюза.
type SessionStore interface {
	Create(ctx context.Context, upstreamToken string) (string, error)
	Delete(ctx context.Context, id string) error
}

type AuthService struct {
	log      *slog.Logger
	api      TokenAPI
	sessions SessionStore
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, api TokenAPI, sessions SessionStore, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		api:      api,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, sessionID string) error
}

// Login получает токен upstream, заводит под него сессию и выдаёт JWT шлюза.
// Пароль дальше upstream не уходит и нигде не хранится.
func (a *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "auth.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("logging in via upstream")

	upstreamToken, err := a.api.ObtainToken(ctx, username, password)
	if err != nil {
		logger.Warn("upstream rejected credentials", slog.Any("error", err))
		return "", fmt.Errorf("%s: invalid credentials: %w", op, err)
	}

	sessionID, err := a.sessions.Create(ctx, upstreamToken)
	if err != nil {
		logger.Error("failed to create session", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to create session: %w", op, err)
	}

	token, err := security.NewToken(sessionID, username, a.tokenTTL, a.secret)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		// сессия без токена никому не нужна
		if delErr := a.sessions.Delete(ctx, sessionID); delErr != nil {
			logger.Error("failed to drop session", slog.Any("error", delErr))
		}
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully")
	return token, nil
}

// Logout удаляет сессию; токен upstream после этого недоступен шлюзу.
func (a *AuthService) Logout(ctx context.Context, sessionID string) error {
	const op = "auth.Logout"

	if sessionID == "" {
		return fmt.Errorf("%s: %w", op, ErrNoSession)
	}
	if err := a.sessions.Delete(ctx, sessionID); err != nil {
		a.log.Error("failed to delete session", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete session: %w", op, err)
	}
	return nil
}

// ExpireSession возвращает хук для клиента upstream: на 401 сессия
// из контекста удаляется, пользователю придётся войти заново.
func ExpireSession(log *slog.Logger, sessions SessionStore, sessionFromContext func(context.Context) (string, bool)) func(context.Context) {
	return func(ctx context.Context) {
		id, ok := sessionFromContext(ctx)
		if !ok {
			return
		}
		if err := sessions.Delete(context.WithoutCancel(ctx), id); err != nil {
			log.Error("failed to expire session", slog.Any("error", err))
			return
		}
		log.Info("session expired by upstream 401")
	}
}
