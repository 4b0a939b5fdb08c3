package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/domain/cart"
	"github.com/example/finstinct-storefront/internal/domain/order"
	"github.com/example/finstinct-storefront/internal/domain/session"
	"github.com/example/finstinct-storefront/internal/infrastructure/kafka"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
)

const (
	SuccessPath = "/checkout/success"
	CancelPath  = "/checkout/cancel"

	defaultPublishTimeout = 2 * time.Second
)

var (
	ErrEmptyCart          = errors.New("checkout: cart is empty")
	ErrNoRedirect         = errors.New("checkout: backend issued no payment url")
	ErrNoPaymentSession   = errors.New("checkout: no payment session to verify")
	ErrVerificationFailed = errors.New("checkout: payment verification failed")
)

// Orders is the slice of the query layer checkout needs
type Orders interface {
	CreateOrder(ctx context.Context, scope string, req backend.CreateOrderRequest) (*backend.Order, error)
	PayForOrder(ctx context.Context, scope string, orderID int64, req backend.PaymentRequest) (*backend.PaymentSession, error)
	VerifyPayment(ctx context.Context, scope string, orderID int64, sessionID string) (*backend.PaymentResult, error)
}

// Relay places orders and relays payment sessions issued by the backend.
// Payment state itself is decided by the backend.
type Relay struct {
	orders         Orders
	publisher      kafka.Publisher
	logger         *zap.Logger
	publishTimeout time.Duration
}

func NewRelay(orders Orders, publisher kafka.Publisher, logger *zap.Logger) *Relay {
	return &Relay{
		orders:         orders,
		publisher:      publisher,
		logger:         logger,
		publishTimeout: defaultPublishTimeout,
	}
}

// PlaceOrder turns the cart into a backend order and empties the cart
func (r *Relay) PlaceOrder(ctx context.Context, profile *store.Profile, sess session.Session, c *cart.Cart) (*backend.Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := c.Items()
	total := c.TotalPrice()

	o, err := r.orders.CreateOrder(ctx, profile.ID(), backend.CreateOrderRequest{
		Products: c.OrderLines(),
		UserID:   sess.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := c.Clear(ctx); err != nil {
		r.logger.Warn("order created but cart not cleared",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
	}

	lines := make([]order.LineItem, 0, len(items))
	for _, it := range items {
		line := order.LineItem{ProductID: it.ProductID, Quantity: it.Quantity}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.UnitPrice = it.Product.Price
		}
		lines = append(lines, line)
	}
	if !o.Total.IsZero() {
		total = o.Total
	}

	r.publish(ctx, order.EventOrderPlaced, o.ID, order.OrderPlaced{
		OrderID:  o.ID,
		UserID:   sess.UserID,
		Email:    sess.User.Email,
		Name:     sess.User.Name,
		Items:    lines,
		Total:    total,
		PlacedAt: time.Now().UTC(),
	})
	return o, nil
}

// Begin opens a payment session for o, remembers the correlation keys and
// returns the URL to send the browser to. ErrNoRedirect means the backend
// accepted the request but issued no URL.
func (r *Relay) Begin(ctx context.Context, profile *store.Profile, sess session.Session, o backend.Order, origin string) (string, error) {
	origin = strings.TrimRight(origin, "/")

	ps, err := r.orders.PayForOrder(ctx, profile.ID(), o.ID, backend.PaymentRequest{
		UserID:     sess.UserID,
		Amount:     o.Total,
		SuccessURL: origin + SuccessPath,
		CancelURL:  origin + CancelPath,
	})
	if err != nil {
		return "", fmt.Errorf("initiate payment: %w", err)
	}

	if id := ps.ID(); id != "" {
		if err := profile.SetString(ctx, store.KeyStripeSessionID, id); err != nil {
			return "", fmt.Errorf("remember payment session: %w", err)
		}
	}
	if err := profile.SetString(ctx, store.KeyOrderID, strconv.FormatInt(o.ID, 10)); err != nil {
		return "", fmt.Errorf("remember order: %w", err)
	}

	r.publish(ctx, order.EventPaymentInitiated, o.ID, order.PaymentInitiated{
		OrderID:     o.ID,
		UserID:      sess.UserID,
		Amount:      o.Total,
		SessionID:   ps.ID(),
		InitiatedAt: time.Now().UTC(),
	})

	url := ps.RedirectURL()
	if url == "" {
		return "", ErrNoRedirect
	}
	return url, nil
}

// Result describes a verified payment
type Result struct {
	OrderID   int64
	SessionID string
	Message   string
}

// Complete verifies the payment the browser returned from. The session id
// comes from storage, then from the session_id query parameter; the order
// id likewise from storage, then order_id. Keys are cleared only on success.
func (r *Relay) Complete(ctx context.Context, profile *store.Profile, sess *session.Session, querySessionID, queryOrderID string) (Result, error) {
	sessionID, err := storedOrQuery(ctx, profile, store.KeyStripeSessionID, querySessionID)
	if err != nil {
		return Result{}, err
	}
	if sessionID == "" {
		return Result{}, ErrNoPaymentSession
	}

	rawOrderID, err := storedOrQuery(ctx, profile, store.KeyOrderID, queryOrderID)
	if err != nil {
		return Result{}, err
	}
	orderID, _ := strconv.ParseInt(rawOrderID, 10, 64)

	res, err := r.orders.VerifyPayment(ctx, profile.ID(), orderID, sessionID)
	if err != nil {
		return Result{}, fmt.Errorf("verify payment: %w", err)
	}
	if res.Failed() {
		return Result{}, fmt.Errorf("%w: %s", ErrVerificationFailed, res.Message)
	}

	if err := profile.Remove(ctx, store.KeyStripeSessionID, store.KeyOrderID); err != nil {
		r.logger.Warn("payment verified but correlation keys not cleared", zap.Error(err))
	}

	evt := order.PaymentVerified{
		OrderID:    orderID,
		SessionID:  sessionID,
		VerifiedAt: time.Now().UTC(),
	}
	if sess != nil {
		evt.UserID = sess.UserID
		evt.Email = sess.User.Email
		evt.Name = sess.User.Name
	}
	r.publish(ctx, order.EventPaymentVerified, orderID, evt)

	return Result{OrderID: orderID, SessionID: sessionID, Message: res.Message}, nil
}

// Cancel forgets the pending payment session
func (r *Relay) Cancel(ctx context.Context, profile *store.Profile, sess *session.Session) error {
	sessionID, _, err := profile.GetString(ctx, store.KeyStripeSessionID)
	if err != nil {
		return err
	}
	rawOrderID, _, err := profile.GetString(ctx, store.KeyOrderID)
	if err != nil {
		return err
	}

	if err := profile.Remove(ctx, store.KeyStripeSessionID, store.KeyOrderID); err != nil {
		return fmt.Errorf("clear payment session: %w", err)
	}

	if sessionID == "" && rawOrderID == "" {
		return nil
	}
	orderID, _ := strconv.ParseInt(rawOrderID, 10, 64)
	evt := order.CheckoutCancelled{
		OrderID:     orderID,
		SessionID:   sessionID,
		CancelledAt: time.Now().UTC(),
	}
	if sess != nil {
		evt.UserID = sess.UserID
	}
	r.publish(ctx, order.EventCheckoutCancelled, orderID, evt)
	return nil
}

func storedOrQuery(ctx context.Context, profile *store.Profile, key, fromQuery string) (string, error) {
	value, ok, err := profile.GetString(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if ok && value != "" {
		return value, nil
	}
	return strings.TrimSpace(fromQuery), nil
}

// publish never fails the caller and waits at most publishTimeout for the
// broker; events are best effort
func (r *Relay) publish(ctx context.Context, eventType string, orderID int64, payload any) {
	evt, err := order.NewEvent(eventType, orderID, payload)
	if err != nil {
		r.logger.Error("build event failed", zap.String("type", eventType), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()
	if err := r.publisher.Publish(ctx, evt.Key(), evt); err != nil {
		r.logger.Warn("publish event failed",
			zap.String("type", eventType),
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
	}
}
