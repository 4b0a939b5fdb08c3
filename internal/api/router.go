package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/api/middleware"
	"github.com/example/finstinct-storefront/internal/auth"
	"github.com/example/finstinct-storefront/internal/catalog"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
	"github.com/example/finstinct-storefront/internal/logger"
)

type RouterConfig struct {
	Handlers      *Handlers
	Tokens        *auth.ProfileTokens
	Store         store.Store
	SecureCookies bool
	// StaticDir holds the catalog image folders; empty disables serving them
	StaticDir string
	Logger    *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handlers
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.HTTPMiddleware(cfg.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.Health)

	if cfg.StaticDir != "" {
		files := http.FileServer(http.Dir(cfg.StaticDir))
		for _, folder := range []catalog.Folder{catalog.FolderAI, catalog.FolderMilitary, catalog.FolderPearl} {
			r.Handle("/"+string(folder)+"/*", files)
		}
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Profile(cfg.Tokens, cfg.Store, cfg.SecureCookies, cfg.Logger))
		r.Use(middleware.State(cfg.Logger))

		r.NotFound(h.NotFound)

		r.Get("/", h.Home)
		r.Get("/features", h.Features)
		r.Get("/specifications", h.Specifications)
		r.Get("/support", h.Support)

		r.Get("/products", h.Products)
		r.Get("/products/{id}", h.Product)
		r.Post("/products/{id}/add", h.AddToBag)

		r.Route("/bag", func(r chi.Router) {
			r.Get("/", h.Bag)
			r.Post("/items/{id}", h.UpdateBagItem)
			r.Post("/items/{id}/remove", h.RemoveBagItem)
			r.Post("/clear", h.ClearBag)
			r.Post("/checkout", h.CheckoutBag)
		})

		r.Get("/signin", h.SignInPage)
		r.Post("/signin", h.SignIn)
		r.Get("/register", h.RegisterPage)
		r.Post("/register", h.Register)
		r.Post("/signout", h.SignOut)

		r.Get("/checkout/success", h.CheckoutSuccess)
		r.Get("/checkout/cancel", h.CheckoutCancel)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(signinPath))

			r.Get("/account", h.Account)
			r.Get("/orders", h.Orders)
			r.Get("/orders/{id}", h.Order)
			r.Post("/orders/{id}/pay", h.PayOrder)
			r.Get("/payment-history", h.PaymentHistory)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(signinPath, http.HandlerFunc(h.Forbidden)))

			r.Get("/", h.Admin)
			r.Post("/products", h.CreateProduct)
			r.Post("/products/{id}", h.UpdateProduct)
			r.Post("/products/{id}/delete", h.DeleteProduct)
			r.Post("/orders/{id}/status", h.UpdateOrderStatus)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
