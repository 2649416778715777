package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linemk/agri-market/internal/app/handlers"
	"github.com/linemk/agri-market/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/agri-market/internal/lib/logger/handlers/urllog"
	"github.com/linemk/agri-market/internal/service"
)

// Services - всё, что нужно роутеру.
type Services struct {
	Auth       service.AuthServiceInterface
	Orders     handlers.OrderService
	Messages   service.MessageService
	Catalog    service.CatalogService
	Unresolved handlers.UnresolvedReporter
	Sessions   jwtmiddleware.SessionLookup
}

// NewRouter собирает HTTP API шлюза.
func NewRouter(log *slog.Logger, jwtSecret string, svc Services) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// эндпоинт для аутентификации
	router.Post("/api/auth", handlers.AuthHandler(log, svc.Auth))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(jwtSecret, svc.Sessions))

		r.Post("/api/logout", handlers.LogoutHandler(log, svc.Auth))

		// заказы
		r.Post("/api/orders", handlers.CreateOrderHandler(log, svc.Orders))
		r.Get("/api/orders/mine", handlers.MyOrdersHandler(log, svc.Orders))
		r.Get("/api/orders/sales", handlers.MySalesHandler(log, svc.Orders))
		r.Get("/api/orders/{id}", handlers.OrderHandler(log, svc.Orders))
		r.Post("/api/orders/{id}/status", handlers.OrderStatusHandler(log, svc.Orders))
		r.Get("/api/orders/{id}/transitions", handlers.OrderTransitionsHandler(log, svc.Orders))
		r.Get("/api/orders/{id}/history", handlers.OrderHistoryHandler(log, svc.Orders))

		// сообщения
		r.Get("/api/messages", handlers.MessagesHandler(log, svc.Messages))
		r.Post("/api/messages", handlers.SendMessageHandler(log, svc.Messages))
		r.Get("/api/messages/unread", handlers.UnreadMessagesHandler(log, svc.Messages))
		r.Get("/api/messages/threads", handlers.ThreadsHandler(log, svc.Messages))
		r.Post("/api/messages/{id}/read", handlers.MarkReadHandler(log, svc.Messages))

		// объявления и отзывы
		r.Get("/api/listings", handlers.ListingsHandler(log, svc.Catalog))
		r.Post("/api/listings", handlers.CreateListingHandler(log, svc.Catalog))
		r.Get("/api/listings/{id}", handlers.ListingHandler(log, svc.Catalog))
		r.Patch("/api/listings/{id}", handlers.UpdateListingHandler(log, svc.Catalog))
		r.Delete("/api/listings/{id}", handlers.DeleteListingHandler(log, svc.Catalog))
		r.Get("/api/listings/{id}/reviews", handlers.ListingReviewsHandler(log, svc.Catalog))
		r.Post("/api/reviews", handlers.CreateReviewHandler(log, svc.Catalog))
		r.Get("/api/users/{id}/reviews", handlers.UserReviewsHandler(log, svc.Catalog))

		// каталог
		r.Get("/api/catalog/categories", handlers.CategoriesHandler(log, svc.Catalog))
		r.Get("/api/catalog/waste-types", handlers.WasteTypesHandler(log, svc.Catalog))
		r.Get("/api/catalog/waste-types/{id}", handlers.WasteTypeHandler(log, svc.Catalog))
		r.Get("/api/catalog/documents", handlers.DocumentsHandler(log, svc.Catalog))

		if svc.Unresolved != nil {
			r.Get("/api/reports/unresolved", handlers.UnresolvedReportHandler(log, svc.Unresolved))
		}
	})

	return router
}
