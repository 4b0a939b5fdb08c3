package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// PaymentService wraps /api/Payment and order verification
type PaymentService struct {
	client *Client
}

func NewPaymentService(c *Client) *PaymentService {
	return &PaymentService{client: c}
}

func (s *PaymentService) Submit(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if err := s.client.checkRequest(req); err != nil {
		return nil, err
	}
	var res PaymentResult
	if err := s.client.doJSON(ctx, http.MethodPost, "/api/Payment", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *PaymentService) History(ctx context.Context, userID int64) ([]PaymentHistory, error) {
	var history []PaymentHistory
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/Payment/history/%d", userID), nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *PaymentService) All(ctx context.Context) ([]PaymentHistory, error) {
	var history []PaymentHistory
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/Payment", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

type verifyRequest struct {
	OrderID         int64  `json:"orderId"`
	StripeSessionID string `json:"stripeSessionId"`
}

// Verify asks the backend to confirm a processor session for an order.
// An empty body counts as success.
func (s *PaymentService) Verify(ctx context.Context, orderID int64, sessionID string) (*PaymentResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &ValidationError{Message: "stripeSessionId is required"}
	}

	req, err := newJSONRequest(ctx, http.MethodPost, s.client.baseURL+"/api/Order/validate", verifyRequest{
		OrderID:         orderID,
		StripeSessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}
	data, err := s.client.send(req)
	if err != nil {
		return nil, err
	}

	var res PaymentResult
	if len(strings.TrimSpace(string(data))) == 0 {
		return &res, nil
	}
	if err := res.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: verify payment: %v", ErrInvalidResponse, err)
	}
	return &res, nil
}
