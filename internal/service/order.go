package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/normalize"
	"github.com/linemk/agri-market/internal/storage"
)

// OrderAPI - часть клиента upstream, нужная заказам.
type OrderAPI interface {
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus, notes string) (*models.Order, error)
	MyOrders(ctx context.Context) ([]*models.Order, error)
	MySales(ctx context.Context) ([]*models.Order, error)
	GetUser(ctx context.Context, id int64) (*models.UserProfile, error)
}

type ListingSource interface {
	Load(ctx context.Context, id int64) (*models.Listing, error)
	Invalidate(ctx context.Context, id int64)
}

type OrderService interface {
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	RepairOrderData(ctx context.Context, raw *models.Order) *models.Order
	RequestTransition(ctx context.Context, order *models.Order, target models.OrderStatus, notes string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, target models.OrderStatus, notes string) (*models.Order, error)
	AllowedNext(ctx context.Context, id int64) (*models.Order, []models.OrderStatus, error)
	MyOrders(ctx context.Context) ([]*models.Order, error)
	MySales(ctx context.Context) ([]*models.Order, error)
	History(ctx context.Context, id int64) ([]*models.StatusTransition, error)
}

type orderService struct {
	log         *slog.Logger
	api         OrderAPI
	listings    ListingSource
	transitions storage.TransitionStorage
	unresolved  storage.UnresolvedStorage
	retry       RetryPolicy
}

// NewOrderService; transitions и unresolved могут быть nil, тогда журнал не ведётся.
func NewOrderService(
	log *slog.Logger,
	api OrderAPI,
	listings ListingSource,
	transitions storage.TransitionStorage,
	unresolved storage.UnresolvedStorage,
	retry RetryPolicy,
) OrderService {
	return &orderService{
		log:         log,
		api:         api,
		listings:    listings,
		transitions: transitions,
		unresolved:  unresolved,
		retry:       retry,
	}
}

// GetOrderByID читает заказ с ограниченным повтором и чинит связи.
func (s *orderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	const op = "service.OrderService.GetOrderByID"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", id))

	var raw *models.Order
	err := s.retry.Do(ctx, logger, func(ctx context.Context) error {
		o, err := s.api.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		raw = o
		return nil
	})
	if err != nil {
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}

	return s.RepairOrderData(ctx, raw), nil
}

// CreateOrder оформляет заказ текущего пользователя. Ответ upstream плоский,
// поэтому связи сразу проходят через RepairOrderData.
func (s *orderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("listingID", req.Listing))

	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validateStruct(req); err != nil {
		logger.Warn("invalid order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	logger.Info("order created", slog.Int64("orderID", created.ID), slog.String("status", created.Status.String()))
	return s.RepairOrderData(ctx, created), nil
}

// RepairOrderData нормализует заказ локально, а для каждого поля, которое
// осталось заглушкой, делает не больше одного дополнительного запроса.
// Ошибки дозагрузки не возвращаются: результатом всегда будет лучшее, что есть.
func (s *orderService) RepairOrderData(ctx context.Context, raw *models.Order) *models.Order {
	const op = "service.OrderService.RepairOrderData"
	if raw == nil {
		return nil
	}
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", raw.ID))

	normalized, unresolved := normalize.Order(raw)
	if unresolved.Empty() {
		return normalized
	}
	logger.Debug("order needs repair",
		slog.String("unresolved", unresolved.String()),
		slog.String("listing", raw.Listing.Kind().String()),
		slog.String("seller", raw.Seller.Kind().String()),
	)

	patched := raw.Clone()
	fetched := false

	// объявление чинит и себя, и продавца
	listingID, hasListing := raw.ListingID()
	if hasListing && (unresolved.Has(normalize.ListingDetails) || unresolved.Has(normalize.SellerDetails)) {
		l, err := s.listings.Load(ctx, listingID)
		if err != nil {
			logger.Warn("failed to fetch listing", slog.Int64("listingID", listingID), slog.Any("error", err))
		} else {
			patched.ListingDetails = l
			fetched = true
		}
	}

	// без объявления продавца можно взять только по id
	if !hasListing && unresolved.Has(normalize.SellerDetails) {
		if sellerID, ok := raw.SellerID(); ok {
			if u, ok := s.fetchUser(ctx, logger, sellerID); ok {
				patched.SellerDetails = u
				fetched = true
			}
		}
	}

	if unresolved.Has(normalize.BuyerDetails) {
		if buyerID, ok := raw.Buyer.ID(); ok {
			if u, ok := s.fetchUser(ctx, logger, buyerID); ok {
				patched.BuyerDetails = u
				fetched = true
			}
		}
	}

	if fetched {
		normalized, unresolved = normalize.Order(patched)
	}
	if !unresolved.Empty() {
		logger.Warn("order relations left unresolved", slog.String("fields", unresolved.String()))
		s.recordUnresolved(ctx, logger, "order", raw.ID, unresolved)
	}
	return normalized
}

func (s *orderService) fetchUser(ctx context.Context, logger *slog.Logger, id int64) (*models.UserProfile, bool) {
	u, err := s.api.GetUser(ctx, id)
	if err != nil {
		// не-администратору upstream чужие профили не отдаёт
		logger.Warn("failed to fetch user", slog.Int64("userID", id), slog.Any("error", err))
		return nil, false
	}
	return u, true
}

func (s *orderService) recordUnresolved(ctx context.Context, logger *slog.Logger, entity string, id int64, u normalize.Unresolved) {
	if s.unresolved == nil {
		return
	}
	if err := s.unresolved.Record(ctx, entity, id, u.Fields()); err != nil {
		logger.Error("failed to record unresolved relations", slog.Any("error", err))
	}
}

// RequestTransition проверяет переход локально и только потом идёт в upstream.
// Запрещённый переход возвращает *models.InvalidTransitionError без сетевого вызова.
func (s *orderService) RequestTransition(ctx context.Context, order *models.Order, target models.OrderStatus, notes string) (*models.Order, error) {
	const op = "service.OrderService.RequestTransition"
	if order == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrValidation)
	}
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("orderID", order.ID),
		slog.String("from", order.Status.String()),
		slog.String("to", target.String()),
	)

	if err := models.ValidateTransition(order.Status, target); err != nil {
		logger.Warn("transition rejected")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.api.UpdateOrderStatus(ctx, order.ID, target, notes)
	if err != nil {
		logger.Error("failed to update order status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update order status: %w", op, err)
	}

	s.journal(ctx, logger, &models.StatusTransition{
		OrderID: order.ID,
		From:    order.Status,
		To:      updated.Status,
		Notes:   notes,
	})

	// завершённый заказ снимает объявление с продажи
	if updated.Status == models.StatusCompleted {
		if listingID, ok := updated.ListingID(); ok {
			s.listings.Invalidate(ctx, listingID)
		}
	}

	logger.Info("order status updated")
	return s.RepairOrderData(ctx, updated), nil
}

func (s *orderService) journal(ctx context.Context, logger *slog.Logger, t *models.StatusTransition) {
	if s.transitions == nil {
		return
	}
	if _, err := s.transitions.Record(ctx, t); err != nil {
		logger.Error("failed to record status transition", slog.Any("error", err))
	}
}

// UpdateStatus читает актуальный статус заказа и запрашивает переход.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, target models.OrderStatus, notes string) (*models.Order, error) {
	const op = "service.OrderService.UpdateStatus"

	current, err := s.api.GetOrder(ctx, id)
	if err != nil {
		s.log.Error("failed to get order", slog.String("op", op), slog.Int64("orderID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	return s.RequestTransition(ctx, current, target, notes)
}

// AllowedNext возвращает заказ и статусы, в которые его можно перевести.
func (s *orderService) AllowedNext(ctx context.Context, id int64) (*models.Order, []models.OrderStatus, error) {
	const op = "service.OrderService.AllowedNext"

	o, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, models.AllowedTransitions(o.Status), nil
}

func (s *orderService) MyOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.MyOrders"
	return s.list(ctx, op, s.api.MyOrders)
}

func (s *orderService) MySales(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.MySales"
	return s.list(ctx, op, s.api.MySales)
}

func (s *orderService) list(ctx context.Context, op string, fetch func(context.Context) ([]*models.Order, error)) ([]*models.Order, error) {
	logger := s.log.With(slog.String("op", op))

	raw, err := fetch(ctx)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}

	out := make([]*models.Order, 0, len(raw))
	for _, o := range raw {
		if o == nil {
			continue
		}
		out = append(out, s.RepairOrderData(ctx, o))
	}
	return out, nil
}

// History - переходы заказа, сделанные через шлюз.
func (s *orderService) History(ctx context.Context, id int64) ([]*models.StatusTransition, error) {
	const op = "service.OrderService.History"

	if s.transitions == nil {
		return []*models.StatusTransition{}, nil
	}
	list, err := s.transitions.ListByOrder(ctx, id)
	if err != nil {
		s.log.Error("failed to list transitions", slog.String("op", op), slog.Int64("orderID", id), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
