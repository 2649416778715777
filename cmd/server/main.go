package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/linemk/agri-market/internal/app"
	"github.com/linemk/agri-market/internal/cache"
	"github.com/linemk/agri-market/internal/clients/marketplace"
	"github.com/linemk/agri-market/internal/config"
	"github.com/linemk/agri-market/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/agri-market/internal/lib/logger"
	"github.com/linemk/agri-market/internal/service"
	"github.com/linemk/agri-market/internal/storage"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env), slog.String("upstream", cfg.Upstream.BaseURL))

	// загружаем объект приложения, конфигом и подключениями к postgres и redis
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	// хранилища: сессии и кэш в redis, журнал в postgres
	sessions := cache.NewSessionStore(application.Redis, cfg.Redis.SessionTTL)
	listingCache := cache.NewListingCache(application.Redis, cfg.Redis.ListingTTL)
	transitionRepo := storage.NewTransitionRepository(application.DB)
	unresolvedRepo := storage.NewUnresolvedRepository(application.DB)

	// клиент upstream: токен берётся из контекста запроса, 401 закрывает сессию
	api := marketplace.New(log, cfg.Upstream.BaseURL,
		marketplace.WithTimeout(cfg.Upstream.Timeout),
		marketplace.WithAuthScheme(cfg.Upstream.AuthScheme),
		marketplace.WithUnauthorizedHook(service.ExpireSession(log, sessions, jwtmiddleware.FromContext)),
	)

	retry := service.RetryPolicy{Attempts: cfg.Upstream.RetryAttempts, Delay: cfg.Upstream.RetryDelay}
	listings := service.NewListingLoader(log, api, listingCache)

	authService := service.NewAuthService(log, api, sessions, cfg.JWT.Secret, cfg.JWT.TTL())
	orderService := service.NewOrderService(log, api, listings, transitionRepo, unresolvedRepo, retry)
	messageService := service.NewMessageService(log, api)
	catalogService := service.NewCatalogService(log, api, listings)

	router := app.NewRouter(log, cfg.JWT.Secret, app.Services{
		Auth:       authService,
		Orders:     orderService,
		Messages:   messageService,
		Catalog:    catalogService,
		Unresolved: unresolvedRepo,
		Sessions:   sessions,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
