package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linemk/agri-market/internal/domain/models"
)

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	return getList[models.Category](ctx, c, catalogPrefix+"/categories/", nil)
}

func (c *Client) WasteTypes(ctx context.Context) ([]models.WasteType, error) {
	return getList[models.WasteType](ctx, c, catalogPrefix+"/types/", nil)
}

func (c *Client) GetWasteType(ctx context.Context, id int64) (*models.WasteType, error) {
	var w models.WasteType
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/types/%d/", catalogPrefix, id), nil, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// WasteTypesByCategory - by_category отвечает голым массивом.
func (c *Client) WasteTypesByCategory(ctx context.Context, categoryID int64) ([]models.WasteType, error) {
	q := url.Values{"category_id": {strconv.FormatInt(categoryID, 10)}}
	return getList[models.WasteType](ctx, c, catalogPrefix+"/types/by_category/", q)
}

// Documents - справочные документы, опционально по типу отходов.
func (c *Client) Documents(ctx context.Context, wasteType int64) ([]models.ResourceDocument, error) {
	q := url.Values{}
	if wasteType > 0 {
		q.Set("waste_type", strconv.FormatInt(wasteType, 10))
	}
	return getList[models.ResourceDocument](ctx, c, catalogPrefix+"/documents/", q)
}
