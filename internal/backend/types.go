package backend

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/finstinct-storefront/internal/catalog"
)

func init() {
	// The backend and the persisted cart both carry prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Role values carried by User.Role
const (
	RoleUser  = 1
	RoleAdmin = 2
)

type User struct {
	ID    int64  `json:"id" validate:"gt=0"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  int    `json:"role,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// LoginResponse is the login payload. The backend has answered both with a
// nested user object and with the user fields at the top level, so both are
// decoded and the session resolves them.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID *int64 `json:"userId,omitempty"`
	ID     *int64 `json:"id,omitempty"`
	User   *User  `json:"user,omitempty" validate:"-"`

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  int    `json:"role,omitempty"`
}

type Product struct {
	ID          int64           `json:"id" validate:"gt=0"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	ImageURL    string          `json:"imageURL,omitempty"`
	DeviceID    string          `json:"deviceId,omitempty"`
}

// DisplayImage prefers imageURL, then the legacy image field, then a stock
// catalog image picked by id.
func (p Product) DisplayImage() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	if p.Image != "" {
		return p.Image
	}
	return catalog.DefaultProductImage(p.ID)
}

// ProductInput is the body of product create and update calls
type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Image       string          `json:"image,omitempty"`
	ImageURL    string          `json:"imageURL,omitempty"`
	DeviceID    string          `json:"deviceId,omitempty"`
}

type OrderItem struct {
	ProductID   int64           `json:"productId" validate:"gt=0"`
	Quantity    int             `json:"quantity"`
	ProductName string          `json:"productName,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              int64           `json:"id" validate:"gt=0"`
	Items           []OrderItem     `json:"items,omitempty" validate:"dive"`
	OrderItems      []OrderItem     `json:"orderItems,omitempty" validate:"dive"`
	OrderStatus     int             `json:"orderStatus"`
	PaymentStatus   int             `json:"paymentStatus"`
	StripeSessionID *string         `json:"stripeSessionId,omitempty"`
	PaymentIntentID *string         `json:"paymentIntentId,omitempty"`
	UserID          int64           `json:"userId,omitempty"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

// LineItems returns items, falling back to the legacy orderItems field
func (o Order) LineItems() []OrderItem {
	if len(o.Items) > 0 {
		return o.Items
	}
	return o.OrderItems
}

// Created parses createdAt, which may lack a zone
func (o Order) Created() (time.Time, bool) {
	return parseTimestamp(o.CreatedAt)
}

// OrderLine is one product of a new order
type OrderLine struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=1"`
}

type CreateOrderRequest struct {
	Products []OrderLine `json:"products" validate:"required,min=1,dive"`
	UserID   int64       `json:"userId" validate:"gt=0"`
}

type PaymentRequest struct {
	UserID     int64           `json:"userId" validate:"gt=0"`
	Amount     decimal.Decimal `json:"amount" validate:"gte=0"`
	SuccessURL string          `json:"successURL" validate:"required,url"`
	CancelURL  string          `json:"cancelURL" validate:"required,url"`
}

// PaymentSession is the answer to a pay-for-order call
type PaymentSession struct {
	URL             string `json:"url,omitempty"`
	PaymentURL      string `json:"paymentUrl,omitempty"`
	SessionID       string `json:"sessionId,omitempty"`
	StripeSessionID string `json:"stripeSessionId,omitempty"`
}

// RedirectURL is where the browser goes to pay; empty when none was issued
func (s PaymentSession) RedirectURL() string {
	if s.URL != "" {
		return s.URL
	}
	return s.PaymentURL
}

// ID returns the processor session id
func (s PaymentSession) ID() string {
	if s.SessionID != "" {
		return s.SessionID
	}
	return s.StripeSessionID
}

// PaymentResult is the answer to payment submit and verify calls. The
// backend sends either an object or a bare message string.
type PaymentResult struct {
	Success       *bool  `json:"success,omitempty"`
	Message       string `json:"message,omitempty"`
	OrderStatus   int    `json:"orderStatus,omitempty"`
	PaymentStatus int    `json:"paymentStatus,omitempty"`
}

func (r *PaymentResult) UnmarshalJSON(data []byte) error {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		*r = PaymentResult{Message: msg}
		return nil
	}
	type plain PaymentResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = PaymentResult(p)
	return nil
}

// Failed reports an explicit success=false
func (r PaymentResult) Failed() bool {
	return r.Success != nil && !*r.Success
}

type PaymentHistory struct {
	ID        int64           `json:"id" validate:"gt=0"`
	UserID    int64           `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    int             `json:"status,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

func (p PaymentHistory) Created() (time.Time, bool) {
	return parseTimestamp(p.CreatedAt)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
