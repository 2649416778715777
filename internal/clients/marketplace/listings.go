package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linemk/agri-market/internal/domain/models"
)

func listingPath(id int64) string {
	return fmt.Sprintf("%s/listings/%d/", marketplacePrefix, id)
}

func (c *Client) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	var l models.Listing
	if err := c.do(ctx, http.MethodGet, listingPath(id), nil, nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) CreateListing(ctx context.Context, req models.ListingRequest) (*models.Listing, error) {
	var l models.Listing
	if err := c.do(ctx, http.MethodPost, marketplacePrefix+"/listings/", nil, req, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateListing - PATCH /listings/{id}/; править может только продавец.
func (c *Client) UpdateListing(ctx context.Context, id int64, patch models.ListingPatch) (*models.Listing, error) {
	var l models.Listing
	if err := c.do(ctx, http.MethodPatch, listingPath(id), nil, patch, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteListing - DELETE /listings/{id}/, upstream отвечает 204.
func (c *Client) DeleteListing(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, listingPath(id), nil, nil, nil)
}

// Listings - все объявления; search и wasteType опциональны.
func (c *Client) Listings(ctx context.Context, search string, wasteType int64) ([]*models.Listing, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if wasteType > 0 {
		q.Set("waste_type", strconv.FormatInt(wasteType, 10))
	}
	return getList[*models.Listing](ctx, c, marketplacePrefix+"/listings/", q)
}

func (c *Client) ActiveListings(ctx context.Context) ([]*models.Listing, error) {
	return getList[*models.Listing](ctx, c, marketplacePrefix+"/listings/active/", nil)
}

func (c *Client) ListingsByCountry(ctx context.Context, country string) ([]*models.Listing, error) {
	q := url.Values{"country": {country}}
	return getList[*models.Listing](ctx, c, marketplacePrefix+"/listings/by_country/", q)
}

func (c *Client) MyListings(ctx context.Context) ([]*models.Listing, error) {
	return getList[*models.Listing](ctx, c, marketplacePrefix+"/listings/my_listings/", nil)
}

// Reviews возвращает отзывы; upstream фильтр по объявлению не поддерживает,
// поэтому фильтруем сами.
func (c *Client) Reviews(ctx context.Context, listingID int64) ([]models.Review, error) {
	q := url.Values{}
	if listingID > 0 {
		q.Set("listing", strconv.FormatInt(listingID, 10))
	}
	all, err := getList[models.Review](ctx, c, marketplacePrefix+"/reviews/", q)
	if err != nil {
		return nil, err
	}
	if listingID <= 0 {
		return all, nil
	}
	out := make([]models.Review, 0, len(all))
	for _, r := range all {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateReviewRequest - тело POST /reviews/.
type CreateReviewRequest struct {
	ListingID int64  `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (*models.Review, error) {
	var r models.Review
	if err := c.do(ctx, http.MethodPost, marketplacePrefix+"/reviews/", nil, req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
