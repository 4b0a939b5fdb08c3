package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/checkout"
	"github.com/example/finstinct-storefront/internal/domain/order"
	"github.com/example/finstinct-storefront/internal/domain/session"
)

// Orders lists the visitor's orders, newest first
func (h *Handlers) Orders(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	orders, err := h.queries.Orders(r.Context(), st.profile.ID())
	if err != nil {
		h.fail(w, r, err, "Orders", "/orders")
		return
	}
	orders = slices.Clone(orders)
	slices.Reverse(orders)
	h.render(w, r, http.StatusOK, "orders", "Your Orders", orders)
}

type orderPage struct {
	Order   *backend.Order
	Items   []backend.OrderItem
	Payable bool
}

func (h *Handlers) Order(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "Order", "/orders")
		return
	}
	o, err := h.queries.Order(r.Context(), st.profile.ID(), id)
	if err != nil {
		h.fail(w, r, err, "Order", "/orders")
		return
	}
	h.render(w, r, http.StatusOK, "order", fmt.Sprintf("Order ORD-%d", o.ID), orderPage{
		Order:   o,
		Items:   o.LineItems(),
		Payable: order.PaymentStatus(o.PaymentStatus).Payable(),
	})
}

// PayOrder opens a payment session and sends the browser to the processor
func (h *Handlers) PayOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "Order", "/orders")
		return
	}
	back := fmt.Sprintf("/orders/%d", id)

	o, err := h.queries.Order(ctx, st.profile.ID(), id)
	if err != nil {
		h.fail(w, r, err, "Order", "/orders")
		return
	}
	if !order.PaymentStatus(o.PaymentStatus).Payable() {
		h.redirect(w, r, back, "This order has already been paid.")
		return
	}

	sess, _ := st.session.Current()
	redirectURL, err := h.relay.Begin(ctx, st.profile, sess, *o, h.origin)
	switch {
	case errors.Is(err, checkout.ErrNoRedirect):
		h.redirect(w, r, "/payment-history", "Payment initiated.")
	case err != nil:
		h.failTo(w, r, err, back)
	default:
		http.Redirect(w, r, redirectURL, http.StatusSeeOther)
	}
}

type checkoutPage struct {
	Success   bool
	Cancelled bool
	OrderID   int64
	Message   string
}

// CheckoutSuccess verifies the payment the processor returned from
func (h *Handlers) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)
	q := r.URL.Query()

	res, err := h.relay.Complete(ctx, st.profile, currentSession(st.session), q.Get("session_id"), q.Get("order_id"))
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.fail(w, r, err, "Payment", "/orders")
			return
		}

		page := checkoutPage{Message: "We could not verify your payment. If you were charged, contact support."}
		switch {
		case errors.Is(err, checkout.ErrNoPaymentSession):
			page.Message = "No payment session found."
		case errors.Is(err, checkout.ErrVerificationFailed):
			h.logger.Warn("payment verification rejected", zap.Error(err))
		default:
			h.logger.Error("payment verification failed", zap.Error(err))
			page.Message = userMessage(err)
		}
		h.render(w, r, http.StatusOK, "checkout", "Payment", page)
		return
	}

	message := res.Message
	if message == "" {
		message = "Your payment was successful."
	}
	h.render(w, r, http.StatusOK, "checkout", "Payment successful", checkoutPage{
		Success: true,
		OrderID: res.OrderID,
		Message: message,
	})
}

// CheckoutCancel forgets the pending payment
func (h *Handlers) CheckoutCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	if err := h.relay.Cancel(ctx, st.profile, currentSession(st.session)); err != nil {
		h.logger.Warn("cancel checkout failed", zap.Error(err))
	}
	h.render(w, r, http.StatusOK, "checkout", "Payment cancelled", checkoutPage{
		Cancelled: true,
		Message:   "Your payment was cancelled. You have not been charged.",
	})
}

func (h *Handlers) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	payments, err := h.queries.PaymentHistory(r.Context(), st.profile.ID(), st.session.UserID())
	if err != nil {
		h.fail(w, r, err, "Payment history", "/payment-history")
		return
	}
	h.render(w, r, http.StatusOK, "payments", "Payment History", payments)
}

func currentSession(s *session.Store) *session.Session {
	sess, ok := s.Current()
	if !ok {
		return nil
	}
	return &sess
}
