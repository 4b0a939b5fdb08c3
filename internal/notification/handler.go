package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/domain/order"
	"github.com/example/finstinct-storefront/internal/email"
)

// Mailer sends customer e-mails
type Mailer interface {
	SendOrderConfirmation(to, name string, orderID int64, total decimal.Decimal, items []email.OrderItem) error
	SendPaymentReceipt(to, name string, orderID int64, sessionID string) error
}

// Handler processes storefront events for sending notifications
type Handler struct {
	mailer Mailer
	logger *zap.Logger
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer, logger *zap.Logger) *Handler {
	return &Handler{
		mailer: mailer,
		logger: logger,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("unmarshal event %s: %w", key, err)
	}

	switch event.Type {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(event)
	case order.EventPaymentVerified:
		return h.handlePaymentVerified(event)
	default:
		h.logger.Debug("ignoring event", zap.String("type", event.Type), zap.String("id", event.ID))
		return nil
	}
}

func (h *Handler) handleOrderPlaced(event order.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		return fmt.Errorf("unmarshal %s: %w", event.Type, err)
	}

	log := h.logger.With(zap.Int64("order_id", e.OrderID), zap.Int64("user_id", e.UserID))
	if e.Email == "" {
		log.Warn("order placed without customer email; skipping confirmation")
		return nil
	}

	items := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		items[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
	}

	if err := h.mailer.SendOrderConfirmation(e.Email, e.Name, e.OrderID, e.Total, items); err != nil {
		return fmt.Errorf("send order confirmation to %s: %w", e.Email, err)
	}

	log.Info("order confirmation sent", zap.String("to", e.Email))
	return nil
}

func (h *Handler) handlePaymentVerified(event order.Event) error {
	var e order.PaymentVerified
	if err := json.Unmarshal(event.Data, &e); err != nil {
		return fmt.Errorf("unmarshal %s: %w", event.Type, err)
	}

	log := h.logger.With(zap.Int64("order_id", e.OrderID))
	if e.Email == "" {
		log.Warn("payment verified without customer email; skipping receipt")
		return nil
	}

	if err := h.mailer.SendPaymentReceipt(e.Email, e.Name, e.OrderID, e.SessionID); err != nil {
		return fmt.Errorf("send payment receipt to %s: %w", e.Email, err)
	}

	log.Info("payment receipt sent", zap.String("to", e.Email))
	return nil
}
