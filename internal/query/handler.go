package query

import (
	"context"
	"fmt"
	"io"

	"github.com/example/finstinct-storefront/internal/backend"
)

// Cache keys
const (
	KeyUsers          = "users"
	KeyProducts       = "products"
	KeyProduct        = "product"
	KeyOrders         = "orders"
	KeyOrder          = "order"
	KeyPaymentHistory = "paymentHistory"
	KeyPayments       = "payments"
)

func productKey(id int64) string        { return fmt.Sprintf("%s/%d", KeyProduct, id) }
func orderKey(id int64) string          { return fmt.Sprintf("%s/%d", KeyOrder, id) }
func paymentHistoryKey(id int64) string { return fmt.Sprintf("%s/%d", KeyPaymentHistory, id) }

// Handler serves page data through the cache and invalidates it after
// mutations. scope is the browser profile id.
type Handler struct {
	cache    *Cache
	users    *backend.UserService
	products *backend.ProductService
	orders   *backend.OrderService
	payments *backend.PaymentService
	blobs    *backend.BlobService
}

func NewHandler(cache *Cache, api *backend.Client) *Handler {
	return &Handler{
		cache:    cache,
		users:    backend.NewUserService(api),
		products: backend.NewProductService(api),
		orders:   backend.NewOrderService(api),
		payments: backend.NewPaymentService(api),
		blobs:    backend.NewBlobService(api),
	}
}

// Users

func (h *Handler) Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResponse, error) {
	return h.users.Login(ctx, req)
}

func (h *Handler) Register(ctx context.Context, req backend.RegisterRequest) error {
	return h.users.Register(ctx, req)
}

func (h *Handler) Users(ctx context.Context, scope string) ([]backend.User, error) {
	return Fetch(ctx, h.cache, scope, KeyUsers, h.users.List)
}

// Forget drops everything cached for scope, used on sign-in and sign-out
func (h *Handler) Forget(scope string) {
	h.cache.Forget(scope)
}

// Products

func (h *Handler) Products(ctx context.Context, scope string) ([]backend.Product, error) {
	return Fetch(ctx, h.cache, scope, KeyProducts, h.products.List)
}

func (h *Handler) Product(ctx context.Context, scope string, id int64) (*backend.Product, error) {
	return Fetch(ctx, h.cache, scope, productKey(id), func(ctx context.Context) (*backend.Product, error) {
		return h.products.Get(ctx, id)
	})
}

func (h *Handler) CreateProduct(ctx context.Context, scope string, in backend.ProductInput) (*backend.Product, error) {
	p, err := h.products.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(scope, KeyProducts)
	return p, nil
}

func (h *Handler) UpdateProduct(ctx context.Context, scope string, id int64, in backend.ProductInput) (*backend.Product, error) {
	p, err := h.products.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(scope, KeyProducts, productKey(id))
	return p, nil
}

func (h *Handler) DeleteProduct(ctx context.Context, scope string, id int64) error {
	if err := h.products.Delete(ctx, id); err != nil {
		return err
	}
	h.cache.Invalidate(scope, KeyProducts, productKey(id))
	return nil
}

func (h *Handler) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	return h.blobs.Upload(ctx, filename, file)
}

// Orders

func (h *Handler) Orders(ctx context.Context, scope string) ([]backend.Order, error) {
	return Fetch(ctx, h.cache, scope, KeyOrders, h.orders.List)
}

func (h *Handler) Order(ctx context.Context, scope string, id int64) (*backend.Order, error) {
	return Fetch(ctx, h.cache, scope, orderKey(id), func(ctx context.Context) (*backend.Order, error) {
		return h.orders.Get(ctx, id)
	})
}

func (h *Handler) CreateOrder(ctx context.Context, scope string, req backend.CreateOrderRequest) (*backend.Order, error) {
	o, err := h.orders.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(scope, KeyOrders)
	return o, nil
}

func (h *Handler) PayForOrder(ctx context.Context, scope string, orderID int64, req backend.PaymentRequest) (*backend.PaymentSession, error) {
	ps, err := h.orders.Pay(ctx, orderID, req)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(scope, KeyOrders, orderKey(orderID), KeyPaymentHistory)
	return ps, nil
}

func (h *Handler) UpdateOrderStatus(ctx context.Context, scope string, orderID int64, status int) (*backend.Order, error) {
	o, err := h.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(scope, KeyOrders, orderKey(orderID))
	return o, nil
}

// Payments

func (h *Handler) PaymentHistory(ctx context.Context, scope string, userID int64) ([]backend.PaymentHistory, error) {
	return Fetch(ctx, h.cache, scope, paymentHistoryKey(userID), func(ctx context.Context) ([]backend.PaymentHistory, error) {
		return h.payments.History(ctx, userID)
	})
}

func (h *Handler) Payments(ctx context.Context, scope string) ([]backend.PaymentHistory, error) {
	return Fetch(ctx, h.cache, scope, KeyPayments, h.payments.All)
}

func (h *Handler) MakePayment(ctx context.Context, scope string, req backend.PaymentRequest) (*backend.PaymentResult, error) {
	res, err := h.payments.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(scope, KeyPaymentHistory, KeyPayments, KeyOrders)
	return res, nil
}

func (h *Handler) VerifyPayment(ctx context.Context, scope string, orderID int64, sessionID string) (*backend.PaymentResult, error) {
	res, err := h.payments.Verify(ctx, orderID, sessionID)
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(scope, KeyPaymentHistory, KeyPayments, KeyOrders, orderKey(orderID))
	return res, nil
}
