package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/agri-market/internal/cache"
	"github.com/linemk/agri-market/internal/clients/marketplace"
	"github.com/linemk/agri-market/internal/domain/models"
	"github.com/linemk/agri-market/internal/service"
	"github.com/linemk/agri-market/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// upstream - фейковый API маркетплейса со счётчиком вызовов по пути.
type upstream struct {
	mu     sync.Mutex
	calls  map[string]int
	routes map[string]http.HandlerFunc
	srv    *httptest.Server
}

func newUpstream(t *testing.T) *upstream {
	u := &upstream{calls: map[string]int{}, routes: map[string]http.HandlerFunc{}}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		u.mu.Lock()
		u.calls[key]++
		h, ok := u.routes[key]
		u.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not found."}`)
			return
		}
		h(w, r)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) handle(method, path string, h http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = h
}

func (u *upstream) json(method, path string, code int, body string) {
	u.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	})
}

func (u *upstream) count(method, path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[method+" "+path]
}

func (u *upstream) client() *marketplace.Client {
	return marketplace.New(discardLogger(), u.srv.URL)
}

type fakeTransitionRepo struct {
	mu      sync.Mutex
	records []*models.StatusTransition
	err     error
}

var _ storage.TransitionStorage = (*fakeTransitionRepo)(nil)

func (f *fakeTransitionRepo) Record(ctx context.Context, t *models.StatusTransition) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, t)
	return int64(len(f.records)), nil
}

func (f *fakeTransitionRepo) ListByOrder(ctx context.Context, orderID int64) ([]*models.StatusTransition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.StatusTransition
	for _, r := range f.records {
		if r.OrderID == orderID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeUnresolvedRepo struct {
	mu      sync.Mutex
	entries map[int64][]string // ключ: id сущности
}

var _ storage.UnresolvedStorage = (*fakeUnresolvedRepo)(nil)

func newFakeUnresolvedRepo() *fakeUnresolvedRepo {
	return &fakeUnresolvedRepo{entries: map[int64][]string{}}
}

func (f *fakeUnresolvedRepo) Record(ctx context.Context, entity string, entityID int64, fields []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entityID] = append(f.entries[entityID], fields...)
	return nil
}

func (f *fakeUnresolvedRepo) Summary(ctx context.Context) ([]storage.UnresolvedCount, error) {
	return nil, nil
}

var fastRetry = service.RetryPolicy{Attempts: 2, Delay: time.Millisecond}

func newOrderService(u *upstream, transitions storage.TransitionStorage, unresolved storage.UnresolvedStorage) service.OrderService {
	c := u.client()
	loader := service.NewListingLoader(discardLogger(), c, nil)
	return service.NewOrderService(discardLogger(), c, loader, transitions, unresolved, fastRetry)
}

func TestRequestTransition_InvalidMakesNoNetworkCall(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodPost, "/api/marketplace/orders/1/update_status/", http.StatusOK, `{"id":1,"status":"shipped"}`)
	journal := &fakeTransitionRepo{}
	svc := newOrderService(u, journal, nil)

	order := &models.Order{ID: 1, Status: models.StatusPending}
	_, err := svc.RequestTransition(context.Background(), order, models.StatusShipped, "")

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	var invalid *models.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusPending, invalid.From)
	assert.Equal(t, models.StatusShipped, invalid.To)

	assert.Equal(t, 0, u.count(http.MethodPost, "/api/marketplace/orders/1/update_status/"))
	assert.Empty(t, journal.records)
}

func TestRequestTransition_FromTerminal(t *testing.T) {
	u := newUpstream(t)
	svc := newOrderService(u, nil, nil)

	for _, target := range models.AllStatuses {
		_, err := svc.RequestTransition(context.Background(), &models.Order{ID: 2, Status: models.StatusCompleted}, target, "")
		assert.ErrorIs(t, err, models.ErrInvalidTransition, target)
	}
	assert.Equal(t, 0, u.count(http.MethodPost, "/api/marketplace/orders/2/update_status/"))
}

func TestRequestTransition_Success(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodPost, "/api/marketplace/orders/1/update_status/", http.StatusOK,
		`{"id":1,"status":"ACCEPTED","listing":{"id":5,"title":"Straw","seller":{"id":7,"username":"farmer1"}},"buyer":9,"buyer_username":"buyer9","seller":7}`)

	// журнал пишется в настоящий репозиторий поверх sqlmock
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("INSERT INTO status_transitions").
		WithArgs(int64(1), "pending", "accepted", "please confirm").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	svc := newOrderService(u, storage.NewTransitionRepository(db), nil)

	out, err := svc.RequestTransition(context.Background(), &models.Order{ID: 1, Status: models.StatusPending}, models.StatusAccepted, "please confirm")
	require.NoError(t, err)

	assert.Equal(t, models.StatusAccepted, out.Status)
	assert.Equal(t, "farmer1", out.SellerDetails.Username)
	assert.Equal(t, "buyer9", out.BuyerDetails.Username)
	assert.Equal(t, "Straw", out.ListingDetails.Title)
	assert.Equal(t, 1, u.count(http.MethodPost, "/api/marketplace/orders/1/update_status/"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestTransition_UpstreamErrorNotRetried(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodPost, "/api/marketplace/orders/1/update_status/", http.StatusBadGateway, `upstream down`)
	journal := &fakeTransitionRepo{}
	svc := newOrderService(u, journal, nil)

	_, err := svc.RequestTransition(context.Background(), &models.Order{ID: 1, Status: models.StatusAccepted}, models.StatusShipped, "")

	var apiErr *marketplace.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, 1, u.count(http.MethodPost, "/api/marketplace/orders/1/update_status/"))
	assert.Empty(t, journal.records)
}

func TestRequestTransition_JournalFailureIgnored(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodPost, "/api/marketplace/orders/1/update_status/", http.StatusOK, `{"id":1,"status":"pending","seller":{"id":7,"username":"s"},"buyer":{"id":9,"username":"b"},"listing":{"id":5,"title":"x"}}`)
	svc := newOrderService(u, &fakeTransitionRepo{err: errors.New("db down")}, nil)

	out, err := svc.RequestTransition(context.Background(), &models.Order{ID: 1, Status: models.StatusCancelled}, models.StatusPending, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, out.Status)
}

func TestUpdateStatus_ReadsCurrentStatus(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodGet, "/api/marketplace/orders/1/", http.StatusOK, `{"id":1,"status":"Pending"}`)
	svc := newOrderService(u, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, models.StatusShipped, "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, 1, u.count(http.MethodGet, "/api/marketplace/orders/1/"))
	assert.Equal(t, 0, u.count(http.MethodPost, "/api/marketplace/orders/1/update_status/"))
}

func TestRepairOrderData_FetchesListingForSeller(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodGet, "/api/marketplace/listings/5/", http.StatusOK,
		`{"id":5,"title":"Olive pomace","seller":{"id":7,"username":"farmer1"}}`)
	u.json(http.MethodGet, "/api/users/9/", http.StatusForbidden, `{"detail":"You do not have permission to perform this action."}`)
	unresolved := newFakeUnresolvedRepo()
	svc := newOrderService(u, nil, unresolved)

	raw := &models.Order{
		ID:      42,
		Listing: models.IDRef[models.Listing](5),
		Buyer:   models.IDRef[models.UserProfile](9),
		Seller:  models.MissingRef[models.UserProfile](),
	}
	out := svc.RepairOrderData(context.Background(), raw)

	require.NotNil(t, out.SellerDetails)
	assert.Equal(t, "farmer1", out.SellerDetails.Username)
	sellerID, ok := out.Seller.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), sellerID)
	assert.Equal(t, "Olive pomace", out.ListingDetails.Title)

	// покупателя upstream не отдал: остаётся заглушка
	assert.Equal(t, "User #9", out.BuyerDetails.Username)
	assert.Equal(t, []string{"buyer_details"}, unresolved.entries[42])

	// не больше одного запроса на поле
	assert.Equal(t, 1, u.count(http.MethodGet, "/api/marketplace/listings/5/"))
	assert.Equal(t, 1, u.count(http.MethodGet, "/api/users/9/"))

	// вход не изменён
	assert.Nil(t, raw.SellerDetails)
	assert.True(t, raw.Seller.IsMissing())
}

func TestRepairOrderData_FetchFailureKeepsPlaceholders(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodGet, "/api/marketplace/listings/5/", http.StatusInternalServerError, `boom`)
	unresolved := newFakeUnresolvedRepo()
	svc := newOrderService(u, nil, unresolved)

	out := svc.RepairOrderData(context.Background(), &models.Order{
		ID:            43,
		Listing:       models.IDRef[models.Listing](5),
		Seller:        models.IDRef[models.UserProfile](7),
		Buyer:         models.IDRef[models.UserProfile](9),
		BuyerUsername: "buyer9",
	})

	assert.Equal(t, "User #7", out.SellerDetails.Username)
	assert.Equal(t, "Détails indisponibles", out.ListingDetails.Title)
	assert.Equal(t, "buyer9", out.BuyerDetails.Username)
	assert.ElementsMatch(t, []string{"listing_details", "seller_details"}, unresolved.entries[43])
	assert.Equal(t, 1, u.count(http.MethodGet, "/api/marketplace/listings/5/"))
	assert.Equal(t, 0, u.count(http.MethodGet, "/api/users/9/"))
}

func TestRepairOrderData_NoFetchWhenResolvedLocally(t *testing.T) {
	u := newUpstream(t)
	unresolved := newFakeUnresolvedRepo()
	svc := newOrderService(u, nil, unresolved)

	out := svc.RepairOrderData(context.Background(), &models.Order{
		ID:      44,
		Listing: models.ObjectRef(&models.Listing{ID: 5, Title: "x", Seller: models.ObjectRef(&models.UserProfile{ID: 7, Username: "farmer1"})}),
		Seller:  models.IDRef[models.UserProfile](7),
		Buyer:   models.ObjectRef(&models.UserProfile{ID: 9, Username: "b"}),
	})

	assert.Equal(t, "farmer1", out.SellerDetails.Username)
	assert.Empty(t, unresolved.entries)
	u.mu.Lock()
	assert.Empty(t, u.calls)
	u.mu.Unlock()
}

func TestGetOrderByID_RetriesNotFound(t *testing.T) {
	u := newUpstream(t)
	var mu sync.Mutex
	attempts := 0
	u.handle(http.MethodGet, "/api/marketplace/orders/7/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()
		if n < 3 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"id":7,"status":"SHIPPED","seller":{"id":1,"username":"s"},"buyer":{"id":2,"username":"b"},"listing":{"id":3,"title":"t"}}`)
	})
	svc := newOrderService(u, nil, nil)

	out, err := svc.GetOrderByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, out.Status)
	assert.Equal(t, 3, u.count(http.MethodGet, "/api/marketplace/orders/7/"))
}

func TestGetOrderByID_RetryBounded(t *testing.T) {
	u := newUpstream(t)
	svc := newOrderService(u, nil, nil)

	_, err := svc.GetOrderByID(context.Background(), 8)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	// первая попытка и два повтора
	assert.Equal(t, 3, u.count(http.MethodGet, "/api/marketplace/orders/8/"))
}

func TestGetOrderByID_ClientErrorNotRetried(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodGet, "/api/marketplace/orders/9/", http.StatusForbidden, `{"detail":"no"}`)
	svc := newOrderService(u, nil, nil)

	_, err := svc.GetOrderByID(context.Background(), 9)
	assert.ErrorIs(t, err, marketplace.ErrForbidden)
	assert.Equal(t, 1, u.count(http.MethodGet, "/api/marketplace/orders/9/"))
}

func TestRetryPolicy_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := service.RetryPolicy{Attempts: 5, Delay: time.Hour}

	calls := 0
	err := policy.Do(ctx, discardLogger(), func(ctx context.Context) error {
		calls++
		cancel()
		return marketplace.ErrNotFound
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestMySales_NormalizesEveryOrder(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodGet, "/api/marketplace/orders/my_sales/", http.StatusOK,
		`{"count":2,"results":[{"id":1,"status":"pending","listing":{"id":5,"title":"x","seller":{"id":7,"username":"me"}},"buyer":9,"buyer_username":"b","seller":7},{"id":2,"status":"DELIVERED","listing":5,"listing_title":"x","buyer":{"id":9,"username":"b"},"seller":{"id":7,"username":"me"}}]}`)
	svc := newOrderService(u, nil, newFakeUnresolvedRepo())

	orders, err := svc.MySales(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.NotNil(t, o.ListingDetails)
		assert.NotNil(t, o.BuyerDetails)
		assert.NotNil(t, o.SellerDetails)
	}
	assert.Equal(t, models.StatusDelivered, orders[1].Status)
}

func TestAllowedNext(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodGet, "/api/marketplace/orders/1/", http.StatusOK, `{"id":1,"status":"ACCEPTED","seller":{"id":1,"username":"s"},"buyer":{"id":2,"username":"b"},"listing":{"id":3,"title":"t"}}`)
	svc := newOrderService(u, nil, nil)

	o, next, err := svc.AllowedNext(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, o.Status)
	assert.Equal(t, []models.OrderStatus{models.StatusShipped, models.StatusCancelled}, next)
}

func TestHistory(t *testing.T) {
	journal := &fakeTransitionRepo{}
	_, _ = journal.Record(context.Background(), &models.StatusTransition{OrderID: 1, From: models.StatusPending, To: models.StatusAccepted})
	_, _ = journal.Record(context.Background(), &models.StatusTransition{OrderID: 2, From: models.StatusPending, To: models.StatusRejected})
	svc := newOrderService(newUpstream(t), journal, nil)

	list, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusAccepted, list[0].To)
}

func TestListingLoader_CoalescesConcurrentFetches(t *testing.T) {
	u := newUpstream(t)
	u.handle(http.MethodGet, "/api/marketplace/listings/5/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = io.WriteString(w, `{"id":5,"title":"Straw"}`)
	})
	loader := service.NewListingLoader(discardLogger(), u.client(), nil)

	var wg sync.WaitGroup
	results := make([]*models.Listing, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := loader.Load(context.Background(), 5)
			assert.NoError(t, err)
			results[i] = l
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, u.count(http.MethodGet, "/api/marketplace/listings/5/"))
	for _, l := range results {
		require.NotNil(t, l)
		assert.Equal(t, "Straw", l.Title)
	}
	assert.NotSame(t, results[0], results[1])
}

type mapListingCache struct {
	mu    sync.Mutex
	items map[int64]*models.Listing
}

func (m *mapListingCache) Get(ctx context.Context, id int64) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.items[id]; ok {
		return l.Clone(), nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mapListingCache) Set(ctx context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[l.ID] = l.Clone()
	return nil
}

func (m *mapListingCache) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func TestListingLoader_UsesCache(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodGet, "/api/marketplace/listings/5/", http.StatusOK, `{"id":5,"title":"Straw"}`)
	c := &mapListingCache{items: map[int64]*models.Listing{}}
	loader := service.NewListingLoader(discardLogger(), u.client(), c)

	for i := 0; i < 3; i++ {
		l, err := loader.Load(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Straw", l.Title)
	}
	assert.Equal(t, 1, u.count(http.MethodGet, "/api/marketplace/listings/5/"))
}

func TestRequestTransition_CompletedInvalidatesListing(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodPost, "/api/marketplace/orders/42/update_status/", http.StatusOK,
		`{"id":42,"status":"COMPLETED","listing":{"id":5,"title":"Straw","seller":{"id":7,"username":"farmer1"}},"buyer":{"id":3,"username":"b"}}`)
	c := &mapListingCache{items: map[int64]*models.Listing{5: {ID: 5, Title: "Straw"}}}
	c2 := u.client()
	svc := service.NewOrderService(discardLogger(), c2, service.NewListingLoader(discardLogger(), c2, c), nil, nil, fastRetry)

	_, err := svc.RequestTransition(context.Background(), &models.Order{ID: 42, Status: models.StatusDelivered}, models.StatusCompleted, "")
	require.NoError(t, err)

	_, err = c.Get(context.Background(), 5)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCreateOrder_RepairsFlatResponse(t *testing.T) {
	u := newUpstream(t)
	u.handle(http.MethodPost, "/api/marketplace/orders/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["listing"])
		assert.Equal(t, "2.50", body["quantity"])
		assert.Equal(t, "Sfax, route de Tunis", body["shipping_address"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":60,"status":"PENDING","listing":5,"listing_title":"Straw","buyer":3,"buyer_username":"buyer1","quantity":"2.50","total_price":"25.00"}`)
	})
	u.json(http.MethodGet, "/api/marketplace/listings/5/", http.StatusOK, `{"id":5,"title":"Straw","seller":{"id":7,"username":"farmer1"}}`)
	svc := newOrderService(u, nil, nil)

	o, err := svc.CreateOrder(context.Background(), models.CreateOrderRequest{
		Listing:         5,
		Quantity:        "2.50",
		ShippingAddress: "  Sfax, route de Tunis ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, "buyer1", o.BuyerDetails.Username)
	assert.Equal(t, "farmer1", o.SellerDetails.Username)
	assert.Equal(t, 1, u.count(http.MethodPost, "/api/marketplace/orders/"))
	assert.Equal(t, 1, u.count(http.MethodGet, "/api/marketplace/listings/5/"))
}

func TestCreateOrder_ValidationMakesNoNetworkCall(t *testing.T) {
	u := newUpstream(t)
	svc := newOrderService(u, nil, nil)

	tests := []struct {
		name string
		req  models.CreateOrderRequest
	}{
		{"no listing", models.CreateOrderRequest{Quantity: "1", ShippingAddress: "a"}},
		{"zero quantity", models.CreateOrderRequest{Listing: 5, Quantity: "0", ShippingAddress: "a"}},
		{"negative quantity", models.CreateOrderRequest{Listing: 5, Quantity: "-2", ShippingAddress: "a"}},
		{"not a number", models.CreateOrderRequest{Listing: 5, Quantity: "lots", ShippingAddress: "a"}},
		{"blank address", models.CreateOrderRequest{Listing: 5, Quantity: "1", ShippingAddress: "   "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), tc.req)
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}
	assert.Equal(t, 0, u.count(http.MethodPost, "/api/marketplace/orders/"))
}

func TestCreateOrder_UpstreamRejects(t *testing.T) {
	u := newUpstream(t)
	u.json(http.MethodPost, "/api/marketplace/orders/", http.StatusBadRequest, `["This listing is not active"]`)
	svc := newOrderService(u, nil, nil)

	_, err := svc.CreateOrder(context.Background(), models.CreateOrderRequest{Listing: 5, Quantity: "1", ShippingAddress: "a"})
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
	// создание не повторяется
	assert.Equal(t, 1, u.count(http.MethodPost, "/api/marketplace/orders/"))
}

func TestRetryPolicy_ZeroAttemptsCallsOnce(t *testing.T) {
	calls := 0
	err := service.RetryPolicy{}.Do(context.Background(), discardLogger(), func(ctx context.Context) error {
		calls++
		return marketplace.ErrNotFound
	})
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_ReturnsOriginalError(t *testing.T) {
	upErr := &marketplace.APIError{StatusCode: http.StatusServiceUnavailable, Method: http.MethodGet, Path: "/x"}
	calls := 0
	err := fastRetry.Do(context.Background(), discardLogger(), func(ctx context.Context) error {
		calls++
		return upErr
	})

	var got *marketplace.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, http.StatusServiceUnavailable, got.StatusCode)
	assert.Equal(t, 3, calls)
}
