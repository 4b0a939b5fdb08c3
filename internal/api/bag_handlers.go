package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/finstinct-storefront/internal/checkout"
	"github.com/example/finstinct-storefront/internal/domain/cart"
)

type bagPage struct {
	Items      []cart.Item
	TotalItems int
	Total      decimal.Decimal
	SignedIn   bool
}

func (h *Handlers) Bag(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	h.render(w, r, http.StatusOK, "bag", "Your Bag", bagPage{
		Items:      st.cart.Items(),
		TotalItems: st.cart.TotalItems(),
		Total:      st.cart.TotalPrice(),
		SignedIn:   st.session.IsAuthenticated(),
	})
}

// UpdateBagItem sets the quantity of a line; zero or less removes it
func (h *Handlers) UpdateBagItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	id, err := pathID(r)
	if err != nil {
		h.redirect(w, r, "/bag", "")
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil {
		h.redirect(w, r, "/bag", "Quantity must be a whole number.")
		return
	}
	if err := st.cart.UpdateQuantity(ctx, id, quantity); err != nil {
		h.failTo(w, r, err, "/bag")
		return
	}
	h.redirect(w, r, "/bag", "")
}

func (h *Handlers) RemoveBagItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	id, err := pathID(r)
	if err != nil {
		h.redirect(w, r, "/bag", "")
		return
	}
	if err := st.cart.RemoveItem(ctx, id); err != nil {
		h.failTo(w, r, err, "/bag")
		return
	}
	h.redirect(w, r, "/bag", "")
}

func (h *Handlers) ClearBag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := stateFrom(ctx).cart.Clear(ctx); err != nil {
		h.failTo(w, r, err, "/bag")
		return
	}
	h.redirect(w, r, "/bag", "Your bag is empty.")
}

// CheckoutBag places an order for the bag and shows it
func (h *Handlers) CheckoutBag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	sess, ok := st.session.Current()
	if !ok {
		h.redirect(w, r, signinPath+"?next="+url.QueryEscape("/bag"), "Please sign in to check out.")
		return
	}

	o, err := h.relay.PlaceOrder(ctx, st.profile, sess, st.cart)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			h.redirect(w, r, "/bag", "Your bag is empty.")
			return
		}
		h.failTo(w, r, err, "/bag")
		return
	}
	h.redirect(w, r, fmt.Sprintf("/orders/%d", o.ID), fmt.Sprintf("Order ORD-%d created.", o.ID))
}
