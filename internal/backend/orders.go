package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Order status codes accepted by the status update endpoint
const (
	minOrderStatus = 1
	maxOrderStatus = 9
)

// OrderService wraps /api/Order
type OrderService struct {
	client *Client
}

func NewOrderService(c *Client) *OrderService {
	return &OrderService{client: c}
}

func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := s.client.checkRequest(req); err != nil {
		return nil, err
	}
	var o Order
	if err := s.client.doJSON(ctx, http.MethodPost, "/api/Order/addOrder", req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*Order, error) {
	var o Order
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/Order/%d", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/Order", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Pay asks the backend to open a payment session for the order
func (s *OrderService) Pay(ctx context.Context, orderID int64, req PaymentRequest) (*PaymentSession, error) {
	if err := s.client.checkRequest(req); err != nil {
		return nil, err
	}
	var ps PaymentSession
	if err := s.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/Order/order/%d", orderID), req, &ps); err != nil {
		return nil, err
	}
	return &ps, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status int) (*Order, error) {
	if status < minOrderStatus || status > maxOrderStatus {
		return nil, &ValidationError{Message: fmt.Sprintf("order status must be between %d and %d", minOrderStatus, maxOrderStatus)}
	}
	var o Order
	path := fmt.Sprintf("/api/Order/status/%d?updatedStatus=%d", orderID, status)
	if err := s.client.doJSON(ctx, http.MethodPut, path, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
