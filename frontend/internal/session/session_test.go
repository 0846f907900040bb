package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/jwt"
)

func newProvider() *Provider {
	return NewProvider(jwt.New([]byte("0123456789abcdef0123456789abcdef")), false)
}

func TestLoginThenMiddleware(t *testing.T) {
	p := newProvider()
	id := domain.Identity{Email: "guest@example.com", Name: "게스트"}

	rec := httptest.NewRecorder()
	require.NoError(t, p.Login(rec, id))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	var got domain.Identity
	var ok bool
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestMiddleware_Anonymous(t *testing.T) {
	p := newProvider()
	var ok bool
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestMiddleware_TamperedCookieIsCleared(t *testing.T) {
	p := newProvider()
	var ok bool
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "edited-by-hand"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, ok)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogout(t *testing.T) {
	rec := httptest.NewRecorder()
	newProvider().Logout(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}
