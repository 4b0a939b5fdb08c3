package query

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/finstinct-storefront/internal/backend"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeBackend) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func newTestQueryHandler(t *testing.T) (*Handler, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{calls: map[string]int{}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.calls[r.Method+" "+r.URL.Path]++
		fb.mu.Unlock()

		switch r.Method + " " + r.URL.Path {
		case "GET /api/Product":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Collar","price":199}]`))
		case "GET /api/Product/getProduct/1", "PUT /api/Product/update/1", "POST /api/Product/addProduct":
			_, _ = w.Write([]byte(`{"id":1,"name":"Collar","price":199}`))
		case "DELETE /api/Product/delete/1":
			w.WriteHeader(http.StatusNoContent)
		case "GET /api/Order":
			_, _ = w.Write([]byte(`[{"id":5,"orderStatus":1,"paymentStatus":1,"total":199}]`))
		case "GET /api/Order/5", "POST /api/Order/addOrder":
			_, _ = w.Write([]byte(`{"id":5,"orderStatus":1,"paymentStatus":1,"total":199}`))
		case "PUT /api/Order/status/5":
			_, _ = w.Write([]byte(`{"id":5,"orderStatus":4,"paymentStatus":2,"total":199}`))
		case "POST /api/Order/order/5":
			_, _ = w.Write([]byte(`{"url":"https://pay.example/cs_1","sessionId":"cs_1"}`))
		case "POST /api/Order/validate", "POST /api/Payment":
			_, _ = w.Write([]byte(`{"success":true}`))
		case "GET /api/Payment/history/9", "GET /api/Payment":
			_, _ = w.Write([]byte(`[{"id":1,"userId":9,"amount":199,"status":2}]`))
		case "GET /api/User":
			_, _ = w.Write([]byte(`[{"id":9,"email":"a@example.com"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	api := backend.NewClient(srv.URL, backend.WithHTTPClient(srv.Client()))
	return NewHandler(NewCache(time.Minute), api), fb
}

func paymentRequest() backend.PaymentRequest {
	return backend.PaymentRequest{
		UserID:     9,
		Amount:     decimal.NewFromInt(199),
		SuccessURL: "http://shop.test/checkout/success",
		CancelURL:  "http://shop.test/checkout/cancel",
	}
}

// ============================================
// Product Query Tests
// ============================================

func TestHandler_ProductsCached(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		products, err := h.Products(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, products, 1)
	}
	assert.Equal(t, 1, fb.count("GET", "/api/Product"))
}

func TestHandler_ProductMutationsInvalidate(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	_, _ = h.Products(ctx, "p1")
	_, _ = h.Product(ctx, "p1", 1)

	_, err := h.UpdateProduct(ctx, "p1", 1, backend.ProductInput{Name: "Collar", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	_, _ = h.Products(ctx, "p1")
	_, _ = h.Product(ctx, "p1", 1)
	assert.Equal(t, 2, fb.count("GET", "/api/Product"))
	assert.Equal(t, 2, fb.count("GET", "/api/Product/getProduct/1"))

	_, err = h.CreateProduct(ctx, "p1", backend.ProductInput{Name: "Tag", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, _ = h.Products(ctx, "p1")
	assert.Equal(t, 3, fb.count("GET", "/api/Product"))

	require.NoError(t, h.DeleteProduct(ctx, "p1", 1))
	_, _ = h.Products(ctx, "p1")
	_, _ = h.Product(ctx, "p1", 1)
	assert.Equal(t, 4, fb.count("GET", "/api/Product"))
	assert.Equal(t, 3, fb.count("GET", "/api/Product/getProduct/1"))
}

// ============================================
// Order Query Tests
// ============================================

func TestHandler_CreateOrderInvalidatesOrders(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	_, _ = h.Orders(ctx, "p1")
	_, err := h.CreateOrder(ctx, "p1", backend.CreateOrderRequest{
		Products: []backend.OrderLine{{ProductID: 1, Quantity: 1}},
		UserID:   9,
	})
	require.NoError(t, err)
	_, _ = h.Orders(ctx, "p1")

	assert.Equal(t, 2, fb.count("GET", "/api/Order"))
}

func TestHandler_PayForOrderInvalidates(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	_, _ = h.Orders(ctx, "p1")
	_, _ = h.Order(ctx, "p1", 5)
	_, _ = h.PaymentHistory(ctx, "p1", 9)

	ps, err := h.PayForOrder(ctx, "p1", 5, paymentRequest())
	require.NoError(t, err)
	assert.Equal(t, "cs_1", ps.ID())

	_, _ = h.Orders(ctx, "p1")
	_, _ = h.Order(ctx, "p1", 5)
	_, _ = h.PaymentHistory(ctx, "p1", 9)

	assert.Equal(t, 2, fb.count("GET", "/api/Order"))
	assert.Equal(t, 2, fb.count("GET", "/api/Order/5"))
	assert.Equal(t, 2, fb.count("GET", "/api/Payment/history/9"))
}

func TestHandler_UpdateOrderStatusInvalidates(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	_, _ = h.Orders(ctx, "p1")
	_, _ = h.Order(ctx, "p1", 5)
	_, err := h.UpdateOrderStatus(ctx, "p1", 5, 4)
	require.NoError(t, err)
	_, _ = h.Orders(ctx, "p1")
	_, _ = h.Order(ctx, "p1", 5)

	assert.Equal(t, 2, fb.count("GET", "/api/Order"))
	assert.Equal(t, 2, fb.count("GET", "/api/Order/5"))
}

// ============================================
// Payment Query Tests
// ============================================

func TestHandler_PaymentMutationsInvalidate(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	_, _ = h.PaymentHistory(ctx, "p1", 9)
	_, _ = h.Payments(ctx, "p1")
	_, _ = h.Orders(ctx, "p1")

	_, err := h.MakePayment(ctx, "p1", paymentRequest())
	require.NoError(t, err)
	_, _ = h.PaymentHistory(ctx, "p1", 9)
	_, _ = h.Payments(ctx, "p1")
	_, _ = h.Orders(ctx, "p1")

	_, err = h.VerifyPayment(ctx, "p1", 5, "cs_1")
	require.NoError(t, err)
	_, _ = h.PaymentHistory(ctx, "p1", 9)

	assert.Equal(t, 3, fb.count("GET", "/api/Payment/history/9"))
	assert.Equal(t, 2, fb.count("GET", "/api/Payment"))
	assert.Equal(t, 2, fb.count("GET", "/api/Order"))
}

func TestHandler_MutationsOnlyTouchOwnScope(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	_, _ = h.Orders(ctx, "p1")
	_, _ = h.Orders(ctx, "p2")
	_, err := h.UpdateOrderStatus(ctx, "p1", 5, 4)
	require.NoError(t, err)
	_, _ = h.Orders(ctx, "p2")

	assert.Equal(t, 2, fb.count("GET", "/api/Order"))
}

func TestHandler_FailedMutationKeepsCache(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	_, _ = h.Orders(ctx, "p1")
	_, err := h.UpdateOrderStatus(ctx, "p1", 5, 99)
	require.ErrorIs(t, err, backend.ErrInvalidRequest)
	_, _ = h.Orders(ctx, "p1")

	assert.Equal(t, 1, fb.count("GET", "/api/Order"))
}

func TestHandler_UsersAndForget(t *testing.T) {
	h, fb := newTestQueryHandler(t)
	ctx := context.Background()

	users, err := h.Users(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, users, 1)

	h.Forget("p1")
	_, _ = h.Users(ctx, "p1")
	assert.Equal(t, 2, fb.count("GET", "/api/User"))
}
