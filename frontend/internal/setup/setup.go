package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tastelink/tastelink/frontend/internal/apiclient"
	"github.com/tastelink/tastelink/frontend/internal/cache"
	"github.com/tastelink/tastelink/frontend/internal/handler"
	"github.com/tastelink/tastelink/frontend/internal/kakao"
	"github.com/tastelink/tastelink/frontend/internal/markdown"
	"github.com/tastelink/tastelink/frontend/internal/service"
	"github.com/tastelink/tastelink/frontend/internal/session"
	"github.com/tastelink/tastelink/shared/config"
	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/jwt"
	"github.com/tastelink/tastelink/shared/logger"
)

const templateReloadInterval = 5 * time.Second

type Dependencies struct {
	Handler    *handler.Handler
	Config     *config.Config
	Sessions   *session.Provider
	Store      *apiclient.APIClient
	Posts      *cache.Posts
	CancelFunc context.CancelFunc
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	// Create cancellable context for background tasks
	ctx, cancel := context.WithCancel(context.Background())

	loc := cfg.Public.Location()
	domain.LocalZone = loc

	store := apiclient.New(cfg.Public.Store.BaseURL, apiclient.Options{
		Timeout: cfg.Public.Store.Timeout,
		RPS:     cfg.Public.Store.RPS,
		Burst:   cfg.Public.Store.Burst,
	})

	if cfg.Public.SeedOnStart {
		seedCtx, seedCancel := context.WithTimeout(ctx, 10*time.Second)
		if _, err := service.NewSeeder(store).SeedIfEmpty(seedCtx); err != nil {
			logger.Log.Warn("seeding store failed", "error", err)
		}
		seedCancel()
	}

	posts := cache.NewPosts(store, cfg.Public.Listing.CacheTTL)
	if err := posts.Update(ctx); err != nil {
		logger.Log.Warn("initial post load failed, will retry in background", "error", err)
	}
	posts.StartBackgroundUpdate(ctx, cfg.Public.Listing.CacheRefreshInterval)

	postService := service.NewPostService(store, store, posts, service.Options{
		PageSize: cfg.Public.Listing.PageSize,
		Location: loc,
	})

	templates, err := handler.LoadTemplates(cfg.Public.Server.TemplatesPath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	places := kakao.New(cfg.Public.Map.KakaoBaseURL, cfg.Private.KakaoRestKey, cfg.Public.Store.Timeout)
	if !places.Configured() {
		logger.Log.Warn("KAKAO_REST_KEY not set, place search disabled")
	}

	sessions := session.NewProvider(jwt.New(cfg.SessionKey()), cfg.Public.Security.SecureCookies)

	h := handler.New(templates, cfg.Public, markdown.New(), postService, places, sessions, cfg.Private.KakaoJSKey)
	startTemplateReloader(ctx, h, cfg.Public.Server.TemplatesPath)

	return &Dependencies{
		Handler:    h,
		Config:     cfg,
		Sessions:   sessions,
		Store:      store,
		Posts:      posts,
		CancelFunc: cancel,
	}, nil
}

func startTemplateReloader(ctx context.Context, h *handler.Handler, dir string) {
	if os.Getenv("ENV") != "development" {
		return
	}
	ticker := time.NewTicker(templateReloadInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				templates, err := handler.LoadTemplates(dir)
				if err != nil {
					logger.Log.Error("reloading templates", "error", err)
					continue
				}
				h.SetTemplates(templates)
			}
		}
	}()
}
