package marketplace

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/agri-market/internal/domain/models"
)

func orderPath(id int64) string {
	return fmt.Sprintf("%s/orders/%d/", marketplacePrefix, id)
}

// GetOrder - GET /orders/{id}/. Статус уже нормализован при декодировании.
func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	if err := c.do(ctx, http.MethodGet, orderPath(id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus - POST /orders/{id}/update_status/. Upstream принимает
// статус в верхнем регистре.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus, notes string) (*models.Order, error) {
	req := models.UpdateOrderStatusRequest{Status: status.Wire(), Notes: notes}

	var o models.Order
	if err := c.do(ctx, http.MethodPost, orderPath(id)+"update_status/", nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// MyOrders - заказы текущего пользователя как покупателя.
func (c *Client) MyOrders(ctx context.Context) ([]*models.Order, error) {
	return getList[*models.Order](ctx, c, marketplacePrefix+"/orders/my_orders/", nil)
}

// MySales - заказы на объявления текущего пользователя.
func (c *Client) MySales(ctx context.Context) ([]*models.Order, error) {
	return getList[*models.Order](ctx, c, marketplacePrefix+"/orders/my_sales/", nil)
}

// CreateOrder - POST /orders/. Upstream отвечает плоским заказом:
// listing и buyer приходят id.
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var o models.Order
	if err := c.do(ctx, http.MethodPost, marketplacePrefix+"/orders/", nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
