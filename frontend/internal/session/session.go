// Package session keeps the visitor's self-declared identity in a signed cookie.
// Handlers read it from the request context; only Provider writes it.
package session

import (
	"context"
	"net/http"

	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/jwt"
)

const CookieName = "tl_user"

type ctxKey struct{}

type Provider struct {
	codec         jwt.IdentityCodec
	secureCookies bool
}

func NewProvider(codec jwt.IdentityCodec, secureCookies bool) *Provider {
	return &Provider{codec: codec, secureCookies: secureCookies}
}

// Middleware loads the identity once per request. A missing or tampered
// cookie leaves the request anonymous; a tampered one is also cleared.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := p.codec.DecodeToken(cookie.Value)
		if err != nil {
			p.Logout(w)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Login persists id until Logout.
func (p *Provider) Login(w http.ResponseWriter, id domain.Identity) error {
	token, err := p.codec.NewToken(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   10 * 365 * 24 * 60 * 60,
	})
	return nil
}

func (p *Provider) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   p.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity loaded by Middleware.
func FromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	return id, ok && !id.IsZero()
}
