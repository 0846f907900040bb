package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/tastelink/tastelink/shared/logger"
)

const (
	csrfCookieName = "tl_csrf"
	CSRFFormField  = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
	csrfTokenBytes = 32
)

type csrfContextKey struct{}

// CSRF implements the double-submit cookie pattern for every form on the site.
type CSRF struct {
	SecureCookies bool
}

func newCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func tokensMatch(cookieToken, submitted string) bool {
	if cookieToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) == 1
}

// Issue makes sure the browser holds a token cookie and exposes the token to templates.
func (c CSRF) Issue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
			token = cookie.Value
		} else {
			token, err = newCSRFToken()
			if err != nil {
				logger.Log.Error("generating csrf token", "error", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   c.SecureCookies,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   86400,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)))
	})
}

// Verify rejects unsafe requests whose form field (or header) does not echo the cookie.
func (c CSRF) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil {
			logger.Log.Warn("csrf cookie missing", "path", r.URL.Path)
			http.Error(w, "CSRF token missing", http.StatusForbidden)
			return
		}

		submitted := r.Header.Get(CSRFHeader)
		if submitted == "" {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}
			submitted = r.PostFormValue(CSRFFormField)
		}

		if !tokensMatch(cookie.Value, submitted) {
			logger.Log.Warn("csrf token mismatch", "path", r.URL.Path)
			http.Error(w, "CSRF token invalid", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CSRFToken returns the token stored by Issue.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}
