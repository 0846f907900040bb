package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	frontend_mw "github.com/tastelink/tastelink/frontend/internal/middleware"
	"github.com/tastelink/tastelink/frontend/internal/session"
	"github.com/tastelink/tastelink/frontend/internal/setup"
	mw "github.com/tastelink/tastelink/shared/middleware"
	"github.com/tastelink/tastelink/shared/middleware/metrics"
	rl "github.com/tastelink/tastelink/shared/middleware/ratelimiter"
)

const defaultMutationRPS = 2

func identityKey(r *http.Request) (string, error) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		return "", errors.New("anonymous")
	}
	return "id:" + id.Key(), nil
}

// New wires every route. Mutations are CSRF checked, need an identity and
// are rate limited per identity.
func New(deps *setup.Dependencies) *chi.Mux {
	h := deps.Handler
	pub := deps.Config.Public
	csrf := frontend_mw.CSRF{SecureCookies: pub.Security.SecureCookies}

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(pub.Security.SecureCookies, mw.KakaoMapsCSP))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(pub.Server.StaticPath))))

	// Place search JSON may be called by other front ends.
	r.With(cors.Handler(cors.Options{
		AllowedOrigins: pub.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}), mw.RateLimit(rl.NewUserRateLimiter(5, 10, time.Hour), mw.GetIP)).Get("/map/search", h.MapSearchHandler)

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.Middleware)
		r.Use(csrf.Issue)
		r.Use(csrf.Verify)
		r.NotFound(h.NotFoundHandler)

		r.Get("/", h.IndexGetHandler)
		r.Get("/map", h.MapGetHandler)
		r.Get("/post/{id}", h.PostGetHandler)

		r.Get("/login", h.LoginGetHandler)
		r.Post("/login", h.LoginPostHandler)
		r.Post("/login/guest", h.GuestLoginHandler)
		r.Post("/logout", h.LogoutHandler)

		r.Group(func(r chi.Router) {
			r.Use(frontend_mw.RequireIdentity(pub.Security.SecureCookies))

			r.Get("/create", h.CreateGetHandler)
			r.Get("/post/{id}/edit", h.EditGetHandler)

			r.Group(func(r chi.Router) {
				perSecond := pub.Security.MutationRPS
				if perSecond <= 0 {
					perSecond = defaultMutationRPS
				}
				limiter := rl.NewUserRateLimiter(perSecond, pub.Security.MutationBurst, time.Hour)
				r.Use(mw.RateLimit(limiter, mw.PreferKey(identityKey, mw.GetIP)))

				r.Post("/create", h.CreatePostHandler)
				r.Post("/post/{id}/edit", h.EditPostHandler)
				r.Post("/post/{id}/delete", h.DeletePostHandler)
				r.Post("/post/{id}/join", h.JoinHandler)
				r.Post("/post/{id}/cancel", h.CancelHandler)
				r.Post("/post/{id}/like", h.LikeHandler)
				r.Post("/post/{id}/reviews", h.ReviewAddHandler)
				r.Post("/post/{id}/reviews/delete", h.ReviewDeleteHandler)
			})
		})
	})

	return r
}
