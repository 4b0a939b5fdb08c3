package order

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced       = "OrderPlaced"
	EventPaymentInitiated  = "PaymentInitiated"
	EventPaymentVerified   = "PaymentVerified"
	EventCheckoutCancelled = "CheckoutCancelled"
)

// Event is the envelope published for every storefront event
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OrderID    int64           `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent wraps payload in an envelope with a fresh id
func NewEvent(eventType string, orderID int64, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// Key is the partition key; events of one order stay ordered
func (e Event) Key() string {
	return fmt.Sprintf("order-%d", e.OrderID)
}

type LineItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderPlaced struct {
	OrderID  int64           `json:"order_id"`
	UserID   int64           `json:"user_id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Items    []LineItem      `json:"items"`
	Total    decimal.Decimal `json:"total"`
	PlacedAt time.Time       `json:"placed_at"`
}

type PaymentInitiated struct {
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	SessionID   string          `json:"session_id"`
	InitiatedAt time.Time       `json:"initiated_at"`
}

type PaymentVerified struct {
	OrderID    int64     `json:"order_id"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SessionID  string    `json:"session_id"`
	VerifiedAt time.Time `json:"verified_at"`
}

type CheckoutCancelled struct {
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	SessionID   string    `json:"session_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}
