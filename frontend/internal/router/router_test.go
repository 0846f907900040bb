package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastelink/tastelink/frontend/internal/handler"
	"github.com/tastelink/tastelink/frontend/internal/session"
	"github.com/tastelink/tastelink/frontend/internal/setup"
	"github.com/tastelink/tastelink/shared/config"
	"github.com/tastelink/tastelink/shared/jwt"
)

// newTestRouter wires the routes without a store. Only requests that are
// answered before reaching the post service are exercised here.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.Public.Server.StaticPath = t.TempDir()

	sessions := session.NewProvider(jwt.New([]byte("0123456789abcdef0123456789abcdef")), false)
	h := handler.New(nil, cfg.Public, nil, nil, nil, sessions, "")
	return New(&setup.Dependencies{Handler: h, Config: cfg, Sessions: sessions})
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestMutationWithoutCSRFTokenIsRejected(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/post/1/join", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAnonymousVisitorIsSentToLogin(t *testing.T) {
	r := newTestRouter(t)

	t.Run("page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/create", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?next="+url.QueryEscape("/create"), rec.Header().Get("Location"))
	})

	t.Run("mutation with a valid token", func(t *testing.T) {
		form := url.Values{"csrf_token": {"token-value"}}
		req := httptest.NewRequest(http.MethodPost, "/post/1/join", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "tl_csrf", Value: "token-value"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?next="))
	})
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}
