package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/agri-market/internal/domain/models"
)

// OrderService - часть service.OrderService, нужная обработчикам.
type OrderService interface {
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, target models.OrderStatus, notes string) (*models.Order, error)
	AllowedNext(ctx context.Context, id int64) (*models.Order, []models.OrderStatus, error)
	MyOrders(ctx context.Context) ([]*models.Order, error)
	MySales(ctx context.Context) ([]*models.Order, error)
	History(ctx context.Context, id int64) ([]*models.StatusTransition, error)
}

// StatusView - статус с подписью для интерфейса.
type StatusView struct {
	Status models.OrderStatus `json:"status"`
	Label  string             `json:"label"`
}

func statusView(s models.OrderStatus) StatusView {
	return StatusView{Status: s, Label: s.Label()}
}

// TransitionsResponse - текущий статус заказа и доступные переходы.
type TransitionsResponse struct {
	OrderID int64        `json:"order_id"`
	Current StatusView   `json:"current"`
	Allowed []StatusView `json:"allowed"`
}

// StatusRequest - тело POST /api/orders/{id}/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=1000"`
}

// OrderHandler обрабатывает GET /api/orders/{id}: заказ с восстановленными связями.
func OrderHandler(log *slog.Logger, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		order, err := orders.GetOrderByID(r.Context(), id)
		if err != nil {
			logger.Error("failed to get order", slog.Int64("orderID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// CreateOrderHandler обрабатывает POST /api/orders.
func CreateOrderHandler(log *slog.Logger, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req models.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		order, err := orders.CreateOrder(r.Context(), req)
		if err != nil {
			logger.Error("failed to create order", slog.Int64("listingID", req.Listing), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, order)
	}
}

// OrderStatusHandler обрабатывает POST /api/orders/{id}/status.
func OrderStatusHandler(log *slog.Logger, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderStatusHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		var req StatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}
		// неизвестный статус не должен превратиться в pending
		if !models.IsValidStatus(req.Status) {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}

		order, err := orders.UpdateStatus(r.Context(), id, models.ParseOrderStatus(req.Status), req.Notes)
		if err != nil {
			logger.Error("failed to update status", slog.Int64("orderID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// OrderTransitionsHandler обрабатывает GET /api/orders/{id}/transitions.
func OrderTransitionsHandler(log *slog.Logger, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderTransitionsHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		order, next, err := orders.AllowedNext(r.Context(), id)
		if err != nil {
			logger.Error("failed to get transitions", slog.Int64("orderID", id), slog.Any("error", err))
			writeError(w, err)
			return
		}

		resp := TransitionsResponse{
			OrderID: order.ID,
			Current: statusView(order.Status),
			Allowed: make([]StatusView, 0, len(next)),
		}
		for _, s := range next {
			resp.Allowed = append(resp.Allowed, statusView(s))
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// OrderHistoryHandler обрабатывает GET /api/orders/{id}/history.
func OrderHistoryHandler(log *slog.Logger, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderHistoryHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		history, err := orders.History(r.Context(), id)
		if err != nil {
			logger.Error("failed to get history", slog.Int64("orderID", id), slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if history == nil {
			history = []*models.StatusTransition{}
		}
		writeJSON(w, logger, http.StatusOK, history)
	}
}

// MyOrdersHandler обрабатывает GET /api/orders/mine.
func MyOrdersHandler(log *slog.Logger, orders OrderService) http.HandlerFunc {
	return ordersList(log, "handlers.MyOrdersHandler", orders.MyOrders)
}

// MySalesHandler обрабатывает GET /api/orders/sales.
func MySalesHandler(log *slog.Logger, orders OrderService) http.HandlerFunc {
	return ordersList(log, "handlers.MySalesHandler", orders.MySales)
}

func ordersList(log *slog.Logger, op string, fetch func(context.Context) ([]*models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", op))

		list, err := fetch(r.Context())
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(w, err)
			return
		}
		if list == nil {
			list = []*models.Order{}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}
