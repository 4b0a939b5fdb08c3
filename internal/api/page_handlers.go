package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/catalog"
)

const featuredCount = 3

type homePage struct {
	Featured []backend.Product
	Gallery  []catalog.Image
}

// Home shows the hero and a few products. A backend outage degrades to a
// page without products rather than an error.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())

	products, err := h.queries.Products(r.Context(), st.profile.ID())
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.fail(w, r, err, "Page", "/")
			return
		}
		h.logger.Warn("home products unavailable", zap.Error(err))
	}
	if len(products) > featuredCount {
		products = products[:featuredCount]
	}

	h.render(w, r, http.StatusOK, "home", "Track. Monitor. Connect.", homePage{
		Featured: products,
		Gallery:  catalog.ByFolder(catalog.FolderMilitary),
	})
}

func (h *Handlers) Features(w http.ResponseWriter, r *http.Request) {
	hero, _ := catalog.RandomFromFolder(catalog.FolderAI)
	h.render(w, r, http.StatusOK, "features", "Features", struct {
		Hero     catalog.Image
		Features []feature
	}{hero, features})
}

func (h *Handlers) Specifications(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "specifications", "Specifications", struct {
		Hero   catalog.Image
		Groups []specGroup
	}{catalog.Random(), specifications})
}

func (h *Handlers) Support(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "support", "Support", faqs)
}

// Account shows the signed-in user
func (h *Handlers) Account(w http.ResponseWriter, r *http.Request) {
	sess, _ := stateFrom(r.Context()).session.Current()
	h.render(w, r, http.StatusOK, "account", "Account", sess.User)
}
