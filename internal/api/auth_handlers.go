package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/auth"
	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/domain/session"
)

type signinForm struct {
	Email string
	Next  string
	Error string
}

type registerForm struct {
	Email string
	Name  string
	Phone string
	Error string
}

func (h *Handlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signin", "Sign In", signinForm{Next: safeNext(r.URL.Query().Get("next"))})
}

// SignIn logs in against the backend and stores the session. A 401 here
// means bad credentials, not an expired session.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	form := signinForm{
		Email: strings.TrimSpace(r.FormValue("email")),
		Next:  safeNext(r.FormValue("next")),
	}

	resp, err := h.queries.Login(ctx, backend.LoginRequest{
		Email:    form.Email,
		Password: r.FormValue("password"),
	})
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, backend.ErrUnauthorized):
			status, form.Error = http.StatusUnauthorized, "Invalid email or password."
		case errors.Is(err, backend.ErrInvalidRequest):
			status, form.Error = http.StatusBadRequest, userMessage(err)
		default:
			h.logger.Warn("login failed", zap.Error(err))
			form.Error = userMessage(err)
		}
		h.render(w, r, status, "signin", "Sign In", form)
		return
	}

	if err := st.session.Login(ctx, *resp); err != nil {
		if errors.Is(err, session.ErrInvalidLoginPayload) {
			h.logger.Error("unusable login response", zap.Error(err))
			form.Error = "Login failed. Please try again."
			h.render(w, r, http.StatusBadGateway, "signin", "Sign In", form)
			return
		}
		h.fail(w, r, err, "Page", "/signin")
		return
	}
	h.queries.Forget(st.profile.ID())

	next := form.Next
	if next == "" {
		next = "/"
	}
	h.redirect(w, r, next, "Welcome back!")
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "Create Account", registerForm{})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Email: strings.TrimSpace(r.FormValue("email")),
		Name:  strings.TrimSpace(r.FormValue("name")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
	}
	password := r.FormValue("password")

	if err := auth.ValidatePassword(password, r.FormValue("confirmPassword")); err != nil {
		form.Error = capitalize(err.Error()) + "."
		h.render(w, r, http.StatusBadRequest, "register", "Create Account", form)
		return
	}

	err := h.queries.Register(r.Context(), backend.RegisterRequest{
		Email:    form.Email,
		Password: password,
		Name:     form.Name,
		Phone:    form.Phone,
	})
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.failTo(w, r, err, "/register")
			return
		}
		status := http.StatusBadGateway
		if errors.Is(err, backend.ErrInvalidRequest) {
			status = http.StatusBadRequest
		} else {
			h.logger.Warn("registration failed", zap.Error(err))
		}
		form.Error = userMessage(err)
		h.render(w, r, status, "register", "Create Account", form)
		return
	}
	h.redirect(w, r, signinPath, "Account created. Please sign in.")
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	if err := st.session.Logout(ctx); err != nil {
		h.failTo(w, r, err, "/")
		return
	}
	h.queries.Forget(st.profile.ID())
	h.redirect(w, r, "/", "You have been signed out.")
}

// safeNext keeps post-login redirects on this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
