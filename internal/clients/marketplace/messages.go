package marketplace

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/agri-market/internal/domain/models"
)

func (c *Client) SendMessage(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	var m models.Message
	if err := c.do(ctx, http.MethodPost, marketplacePrefix+"/messages/", nil, req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MyMessages - входящие и исходящие, новые первыми.
func (c *Client) MyMessages(ctx context.Context) ([]*models.Message, error) {
	return getList[*models.Message](ctx, c, marketplacePrefix+"/messages/my_messages/", nil)
}

func (c *Client) UnreadMessages(ctx context.Context) ([]*models.Message, error) {
	return getList[*models.Message](ctx, c, marketplacePrefix+"/messages/unread/", nil)
}

func (c *Client) MarkMessageRead(ctx context.Context, id int64) (*models.Message, error) {
	var m models.Message
	path := fmt.Sprintf("%s/messages/%d/mark_as_read/", marketplacePrefix, id)
	if err := c.do(ctx, http.MethodPost, path, nil, struct{}{}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
