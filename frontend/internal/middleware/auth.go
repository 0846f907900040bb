package middleware

import (
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/tastelink/tastelink/frontend/internal/session"
)

const (
	flashCookieError = "flash_error"
	loginRequiredMsg = "로그인이 필요합니다."
)

// RequireIdentity sends anonymous visitors to /login and brings them back
// afterwards through the next parameter.
func RequireIdentity(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.FromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			redirectToLogin(w, r, secureCookies, loginRequiredMsg)
		})
	}
}

// returnPath is where login should send the visitor back to. Form posts
// return to the page the form was on.
func returnPath(r *http.Request) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return r.URL.RequestURI()
	}
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return ref.RequestURI()
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, secureCookies bool, errorMsg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieError,
		Value:    base64.StdEncoding.EncodeToString([]byte(errorMsg)),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login?next="+url.QueryEscape(returnPath(r)), http.StatusSeeOther)
}
