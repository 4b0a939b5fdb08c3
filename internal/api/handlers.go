package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/api/middleware"
	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/checkout"
	"github.com/example/finstinct-storefront/internal/domain/cart"
	"github.com/example/finstinct-storefront/internal/domain/session"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
	"github.com/example/finstinct-storefront/internal/query"
)

const signinPath = "/signin"

var errBadID = errors.New("invalid id")

type Handlers struct {
	queries *query.Handler
	relay   *checkout.Relay
	views   *Renderer
	origin  string
	logger  *zap.Logger
}

// NewHandlers wires page handlers. origin is the public base URL handed to
// the payment processor for its return links.
func NewHandlers(queries *query.Handler, relay *checkout.Relay, views *Renderer, origin string, logger *zap.Logger) *Handlers {
	return &Handlers{
		queries: queries,
		relay:   relay,
		views:   views,
		origin:  origin,
		logger:  logger,
	}
}

// requestState is the per-request state placed in context by middleware
type requestState struct {
	profile *store.Profile
	session *session.Store
	cart    *cart.Cart
}

func stateFrom(ctx context.Context) requestState {
	p, _ := middleware.GetProfile(ctx)
	s, _ := middleware.GetSession(ctx)
	c, _ := middleware.GetCart(ctx)
	return requestState{profile: p, session: s, cart: c}
}

// render fills the layout fields and writes page
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	ctx := r.Context()
	st := stateFrom(ctx)

	v := view{Title: title, Path: r.URL.Path, Data: data}
	if st.session != nil {
		if sess, ok := st.session.Current(); ok {
			user := sess.User
			v.User = &user
			v.IsAdmin = st.session.IsAdmin()
		}
	}
	if st.cart != nil {
		v.CartCount = st.cart.TotalItems()
	}
	if st.profile != nil {
		flash, _, err := st.profile.TakeString(ctx, store.KeyFlash)
		if err != nil {
			h.logger.Warn("read flash failed", zap.Error(err))
		}
		v.Flash = flash
	}

	if err := h.views.Render(w, status, page, v); err != nil {
		h.logger.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// flash leaves a one-shot message for the next rendered page
func (h *Handlers) flash(ctx context.Context, message string) {
	p, ok := middleware.GetProfile(ctx)
	if !ok {
		return
	}
	if err := p.SetString(ctx, store.KeyFlash, message); err != nil {
		h.logger.Warn("store flash failed", zap.Error(err))
	}
}

func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, to, message string) {
	if message != "" {
		h.flash(r.Context(), message)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

type notice struct {
	Heading  string
	Message  string
	Back     string
	BackText string
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request, what, back string) {
	h.render(w, r, http.StatusNotFound, "notice", "Not found", notice{
		Heading:  what + " not found",
		Message:  "The " + what + " you are looking for does not exist.",
		Back:     back,
		BackText: "Go back",
	})
}

// Forbidden is served to signed-in visitors without the admin role
func (h *Handlers) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, "notice", "Access denied", notice{
		Heading:  "Access denied",
		Message:  "You do not have permission to view this page.",
		Back:     "/",
		BackText: "Back to home",
	})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "Page", "/")
}

// fail funnels backend errors for pages. An expired session wins over any
// page-level handling: the authenticator has already cleared it, so the
// visitor is sent to sign in.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, what, back string) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		h.redirect(w, r, signinPath, "Your session has expired. Please sign in again.")
	case errors.Is(err, backend.ErrNotFound), errors.Is(err, errBadID):
		h.notFound(w, r, what, back)
	default:
		h.logger.Error("page failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.render(w, r, http.StatusBadGateway, "notice", "Something went wrong", notice{
			Heading:  "Something went wrong",
			Message:  userMessage(err),
			Back:     back,
			BackText: "Try again",
		})
	}
}

// failTo handles a failed form post by flashing the error on the page the
// form came from.
func (h *Handlers) failTo(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, backend.ErrUnauthorized) {
		h.redirect(w, r, signinPath, "Your session has expired. Please sign in again.")
		return
	}
	if !errors.Is(err, backend.ErrInvalidRequest) {
		h.logger.Warn("form action failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	h.redirect(w, r, back, userMessage(err))
}

// userMessage turns err into text fit for a visitor
func userMessage(err error) string {
	var apiErr *backend.APIError
	var valErr *backend.ValidationError
	switch {
	case errors.As(err, &valErr):
		return capitalize(valErr.Message) + "."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, backend.ErrInvalidResponse):
		return "The server sent an unexpected response. Please try again."
	default:
		return "We could not reach the server. Please try again."
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
