package middleware

import (
	"net/http"
)

// KakaoMapsCSP allows the Kakao Maps SDK, its tiles and remote post images.
const KakaoMapsCSP = "default-src 'self'; " +
	"script-src 'self' https://dapi.kakao.com https://*.daumcdn.net 'unsafe-eval'; " +
	"img-src 'self' data: https:; " +
	"style-src 'self' 'unsafe-inline'; " +
	"connect-src 'self' https://dapi.kakao.com; " +
	"frame-ancestors 'none'"

// SecurityHeadersWithCSP adds security headers; csp is skipped when empty
// and HSTS is only sent when isHTTPS is set.
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// the place finder centers on the visitor
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(self), payment=()")
			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
