package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/finstinct-storefront/internal/domain/cart"
)

func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	products, err := h.queries.Products(r.Context(), st.profile.ID())
	if err != nil {
		h.fail(w, r, err, "Products", "/products")
		return
	}
	h.render(w, r, http.StatusOK, "products", "Products", products)
}

func (h *Handlers) Product(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "Product", "/products")
		return
	}
	product, err := h.queries.Product(r.Context(), st.profile.ID(), id)
	if err != nil {
		h.fail(w, r, err, "Product", "/products")
		return
	}
	h.render(w, r, http.StatusOK, "product", product.Name, product)
}

// AddToBag adds the product to the bag. Quantity defaults to 1.
func (h *Handlers) AddToBag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "Product", "/products")
		return
	}
	back := fmt.Sprintf("/products/%d", id)

	quantity := 1
	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			h.redirect(w, r, back, "Quantity must be a whole number.")
			return
		}
	}

	product, err := h.queries.Product(ctx, st.profile.ID(), id)
	if err != nil {
		h.fail(w, r, err, "Product", "/products")
		return
	}

	if err := st.cart.AddItem(ctx, *product, quantity); err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			h.redirect(w, r, back, "Quantity must be at least 1.")
		case errors.Is(err, cart.ErrQuantityTooLarge):
			h.redirect(w, r, back, "That quantity is too large.")
		case errors.Is(err, cart.ErrInvalidProduct):
			h.redirect(w, r, back, "This product cannot be added to the bag.")
		default:
			h.failTo(w, r, err, back)
		}
		return
	}
	h.redirect(w, r, "/bag", product.Name+" added to your bag.")
}
