package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/domain/order"
)

// The form body may carry the image plus the text fields
const (
	maxUploadBytes      = 10 << 20
	maxProductFormBytes = maxUploadBytes + 1<<20
)

// Admin tabs
const (
	tabProducts = "products"
	tabOrders   = "orders"
	tabPayments = "payments"
	tabUsers    = "users"
)

type adminPage struct {
	Tab      string
	Products []backend.Product
	Editing  *backend.Product
	Orders   []backend.Order
	Statuses []order.Status
	Payments []backend.PaymentHistory
	Users    []backend.User
}

// Admin renders one dashboard tab, fetching only what that tab shows
func (h *Handlers) Admin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := stateFrom(ctx).profile.ID()
	q := r.URL.Query()

	page := adminPage{Tab: q.Get("tab")}
	var err error
	switch page.Tab {
	case tabOrders:
		page.Orders, err = h.queries.Orders(ctx, scope)
		page.Statuses = order.AllStatuses()
	case tabPayments:
		page.Payments, err = h.queries.Payments(ctx, scope)
	case tabUsers:
		page.Users, err = h.queries.Users(ctx, scope)
	default:
		page.Tab = tabProducts
		page.Products, err = h.queries.Products(ctx, scope)
		if err == nil && q.Get("edit") != "" {
			id, _ := strconv.ParseInt(q.Get("edit"), 10, 64)
			for i := range page.Products {
				if page.Products[i].ID == id {
					page.Editing = &page.Products[i]
				}
			}
		}
	}
	if err != nil {
		h.fail(w, r, err, "Page", "/admin?tab="+page.Tab)
		return
	}
	h.render(w, r, http.StatusOK, "admin", "Admin", page)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	back := "/admin?tab=" + tabProducts

	in, err := h.productInput(w, r)
	if err != nil {
		h.failTo(w, r, err, back)
		return
	}
	p, err := h.queries.CreateProduct(ctx, stateFrom(ctx).profile.ID(), in)
	if err != nil {
		h.failTo(w, r, err, back)
		return
	}
	h.redirect(w, r, back, fmt.Sprintf("Product %q created.", p.Name))
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "Product", "/admin")
		return
	}
	back := fmt.Sprintf("/admin?tab=%s&edit=%d", tabProducts, id)

	in, err := h.productInput(w, r)
	if err != nil {
		h.failTo(w, r, err, back)
		return
	}
	if _, err := h.queries.UpdateProduct(ctx, stateFrom(ctx).profile.ID(), id, in); err != nil {
		h.failTo(w, r, err, back)
		return
	}
	h.redirect(w, r, "/admin?tab="+tabProducts, "Product updated.")
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	back := "/admin?tab=" + tabProducts

	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "Product", "/admin")
		return
	}
	if err := h.queries.DeleteProduct(ctx, stateFrom(ctx).profile.ID(), id); err != nil {
		h.failTo(w, r, err, back)
		return
	}
	h.redirect(w, r, back, "Product deleted.")
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	back := "/admin?tab=" + tabOrders

	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err, "Order", "/admin")
		return
	}
	status, err := strconv.Atoi(strings.TrimSpace(r.FormValue("status")))
	if err != nil {
		h.redirect(w, r, back, "Choose a valid status.")
		return
	}
	if _, err := h.queries.UpdateOrderStatus(ctx, stateFrom(ctx).profile.ID(), id, status); err != nil {
		h.failTo(w, r, err, back)
		return
	}
	h.redirect(w, r, back, fmt.Sprintf("Order ORD-%d is now %s.", id, order.Status(status).Label()))
}

// productInput reads the product form. An uploaded image takes precedence
// over the image URL field.
func (h *Handlers) productInput(w http.ResponseWriter, r *http.Request) (backend.ProductInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProductFormBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return backend.ProductInput{}, &backend.ValidationError{Message: "upload is too large or malformed"}
	}

	in := backend.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		ImageURL:    strings.TrimSpace(r.FormValue("imageURL")),
		DeviceID:    strings.TrimSpace(r.FormValue("deviceId")),
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		return in, &backend.ValidationError{Message: "price must be a number"}
	}
	in.Price = price

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil
	case err != nil:
		return in, &backend.ValidationError{Message: "could not read the uploaded image"}
	}
	defer file.Close()

	url, err := h.queries.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		return in, fmt.Errorf("upload image: %w", err)
	}
	h.logger.Info("product image uploaded", zap.String("url", url))
	in.ImageURL = url
	return in, nil
}
