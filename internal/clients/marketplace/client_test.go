package marketplace_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linemk/agri-market/internal/clients/marketplace"
	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc, opts ...marketplace.Option) *marketplace.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return marketplace.New(log, srv.URL, opts...)
}

func TestGetOrder_DecodesAndSendsToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/marketplace/orders/12/", r.URL.Path)
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":12,"listing":5,"buyer":{"id":9,"username":"b"},"seller":null,"status":"SHIPPED","total_price":"40.00"}`)
	})

	o, err := c.GetOrder(marketplace.WithToken(context.Background(), "abc"), 12)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, o.Status)
	assert.Equal(t, models.RefUnresolved, o.Listing.Kind())
	assert.True(t, o.Buyer.IsResolved())
	assert.True(t, o.Seller.IsMissing())
	assert.Equal(t, models.Amount("40.00"), o.TotalPrice)
}

func TestGetOrder_NoTokenNoHeader(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":1}`)
	})

	_, err := c.GetOrder(context.Background(), 1)
	require.NoError(t, err)
}

func TestUpdateOrderStatus_SendsUppercase(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/marketplace/orders/3/update_status/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ACCEPTED", body["status"])
		assert.Equal(t, "ok", body["notes"])

		_, _ = io.WriteString(w, `{"id":3,"status":"accepted"}`)
	})

	o, err := c.UpdateOrderStatus(context.Background(), 3, models.StatusAccepted, "ok")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, o.Status)
}

func TestErrors_MapStatusCodes(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		body      string
		target    error
		retryable bool
	}{
		{"not found", http.StatusNotFound, `{"detail":"Not found."}`, marketplace.ErrNotFound, true},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Invalid token."}`, marketplace.ErrUnauthorized, false},
		{"forbidden", http.StatusForbidden, `{"detail":"nope"}`, marketplace.ErrForbidden, false},
		{"server error", http.StatusBadGateway, `oops`, nil, true},
		{"bad request", http.StatusBadRequest, `{"status":["Invalid status"]}`, marketplace.ErrBadRequest, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := c.GetOrder(context.Background(), 1)
			require.Error(t, err)

			var apiErr *marketplace.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.code, apiErr.StatusCode)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
			assert.Equal(t, tc.retryable, marketplace.IsRetryable(err))
		})
	}
}

func TestErrors_DetailExtracted(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"detail":"Only the seller can update the order status"}`)
	})

	_, err := c.UpdateOrderStatus(context.Background(), 1, models.StatusShipped, "")
	var apiErr *marketplace.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Only the seller can update the order status", apiErr.Detail)
}

func TestUnauthorizedHook(t *testing.T) {
	calls := 0
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, marketplace.WithUnauthorizedHook(func(ctx context.Context) { calls++ }))

	_, err := c.MyOrders(context.Background())
	assert.ErrorIs(t, err, marketplace.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestLists_EnvelopeAndBareArray(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/marketplace/messages/my_messages/":
			_, _ = io.WriteString(w, `{"count":2,"next":null,"previous":null,"results":[{"id":1,"sender":3,"recipient":4},{"id":2}]}`)
		case "/api/waste-catalog/types/by_category/":
			assert.Equal(t, "4", r.URL.Query().Get("category_id"))
			_, _ = io.WriteString(w, `[{"id":10,"name":"Straw","category":4}]`)
		case "/api/marketplace/orders/my_sales/":
			_, _ = io.WriteString(w, `{"count":0,"results":null}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	msgs, err := c.MyMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	id, ok := msgs[0].Receiver.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)

	types, err := c.WasteTypesByCategory(ctx, 4)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Straw", types[0].Name)

	sales, err := c.MySales(ctx)
	require.NoError(t, err)
	assert.NotNil(t, sales)
	assert.Empty(t, sales)
}

func TestReviews_FilteredByListing(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"listing_id":5,"rating":4},{"id":2,"listing_id":6,"rating":2}]`)
	})

	reviews, err := c.Reviews(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, int64(1), reviews[0].ID)
}

func TestObtainToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api-token-auth/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"non_field_errors":["Unable to log in"]}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"t0k"}`)
	})

	token, err := c.ObtainToken(context.Background(), "farmer1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t0k", token)

	_, err = c.ObtainToken(context.Background(), "farmer1", "wrong")
	assert.Error(t, err)
}

func TestAuthScheme(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":1,"username":"me"}`)
	}, marketplace.WithAuthScheme("Bearer"))

	u, err := c.Me(marketplace.WithToken(context.Background(), "abc"))
	require.NoError(t, err)
	assert.Equal(t, "me", u.Username)
}

func TestListingWrites(t *testing.T) {
	var seen []string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPatch:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"featured": true}, body)
			_, _ = io.WriteString(w, `{"id":5,"title":"Straw","featured":true}`)
		default:
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":21,"title":"New"}`)
		}
	})
	ctx := context.Background()

	created, err := c.CreateListing(ctx, models.ListingRequest{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(21), created.ID)

	featured := true
	updated, err := c.UpdateListing(ctx, 5, models.ListingPatch{Featured: &featured})
	require.NoError(t, err)
	assert.True(t, updated.Featured)

	require.NoError(t, c.DeleteListing(ctx, 5))

	assert.Equal(t, []string{
		"POST /api/marketplace/listings/",
		"PATCH /api/marketplace/listings/5/",
		"DELETE /api/marketplace/listings/5/",
	}, seen)
}

func TestCreateOrder_Path(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/marketplace/orders/", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":60,"status":"PENDING","listing":5,"buyer":3}`)
	})

	o, err := c.CreateOrder(context.Background(), models.CreateOrderRequest{Listing: 5, Quantity: "1", ShippingAddress: "a"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, models.RefUnresolved, o.Listing.Kind())
}
