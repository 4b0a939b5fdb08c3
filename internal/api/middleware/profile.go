package middleware

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/auth"
	"github.com/example/finstinct-storefront/internal/domain/cart"
	"github.com/example/finstinct-storefront/internal/domain/session"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
)

// ProfileCookie carries the signed profile token
const ProfileCookie = "profile"

type contextKey string

const (
	ProfileContextKey contextKey = "profile"
	SessionContextKey contextKey = "session"
	CartContextKey    contextKey = "cart"
)

// Profile resolves the browser profile from its signed cookie, minting a new
// one when the cookie is missing, tampered with or expired. Tokens past half
// their lifetime are reissued.
func Profile(tokens *auth.ProfileTokens, s store.Store, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var profileID string

			if c, err := r.Cookie(ProfileCookie); err == nil {
				claims, err := tokens.Validate(c.Value)
				switch {
				case err != nil:
					logger.Debug("rejecting profile cookie", zap.Error(err))
				case tokens.NeedsRefresh(claims):
					profileID = claims.Subject
					token, _, err := tokens.Issue(profileID)
					if err != nil {
						logger.Error("refresh profile token failed", zap.Error(err))
					} else {
						setProfileCookie(w, token, tokens, secure)
					}
				default:
					profileID = claims.Subject
				}
			}

			if profileID == "" {
				id, token, _, err := tokens.NewProfile()
				if err != nil {
					logger.Error("issue profile token failed", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				profileID = id
				setProfileCookie(w, token, tokens, secure)
			}

			ctx := context.WithValue(r.Context(), ProfileContextKey, store.NewProfile(s, profileID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setProfileCookie(w http.ResponseWriter, token string, tokens *auth.ProfileTokens, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     ProfileCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// State hydrates the session and cart of the request's profile
func State(logger *zap.Logger) func(http.Handler) http.Handler {
	sessionLog := logger.Named("session")
	cartLog := logger.Named("cart")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := GetProfile(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			sess, err := session.Open(r.Context(), profile, sessionLog)
			if err != nil {
				logger.Error("open session failed", zap.String("profile", profile.ID()), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			c, err := cart.Open(r.Context(), profile, cartLog)
			if err != nil {
				logger.Error("open cart failed", zap.String("profile", profile.ID()), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, sess)
			ctx = context.WithValue(ctx, CartContextKey, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession sends signed-out visitors to signinPath, remembering where
// they were headed.
func RequireSession(signinPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok || !sess.IsAuthenticated() {
				http.Redirect(w, r, signinPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin lets only admin sessions through. Signed-in non-admins are
// served forbidden.
func RequireAdmin(signinPath string, forbidden http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireSession(signinPath)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := GetSession(r.Context())
			if !sess.IsAdmin() {
				forbidden.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func GetProfile(ctx context.Context) (*store.Profile, bool) {
	p, ok := ctx.Value(ProfileContextKey).(*store.Profile)
	return p, ok
}

func GetSession(ctx context.Context) (*session.Store, bool) {
	s, ok := ctx.Value(SessionContextKey).(*session.Store)
	return s, ok
}

func GetCart(ctx context.Context) (*cart.Cart, bool) {
	c, ok := ctx.Value(CartContextKey).(*cart.Cart)
	return c, ok
}

// SessionAuthenticator hands the backend client the bearer token of the
// request's session and signs the session out when the backend rejects it.
type SessionAuthenticator struct {
	Logger *zap.Logger
}

func (a SessionAuthenticator) BearerToken(ctx context.Context) (string, bool) {
	sess, ok := GetSession(ctx)
	if !ok {
		return "", false
	}
	token := sess.Token()
	return token, token != ""
}

func (a SessionAuthenticator) Unauthorized(ctx context.Context) {
	sess, ok := GetSession(ctx)
	if !ok {
		return
	}
	if err := sess.Logout(ctx); err != nil && a.Logger != nil {
		a.Logger.Warn("clear rejected session failed", zap.Error(err))
	}
}
