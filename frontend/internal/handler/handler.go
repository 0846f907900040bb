package handler

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/tastelink/tastelink/frontend/internal/kakao"
	"github.com/tastelink/tastelink/frontend/internal/markdown"
	"github.com/tastelink/tastelink/frontend/internal/service"
	"github.com/tastelink/tastelink/frontend/internal/session"
	"github.com/tastelink/tastelink/shared/config"
	"github.com/tastelink/tastelink/shared/domain"
)

// PostService is what the pages need from the post service.
type PostService interface {
	List(ctx context.Context, page int) (domain.Page, error)
	Get(ctx context.Context, id string) (domain.Post, error)
	Create(ctx context.Context, id domain.Identity, form service.PostForm) (domain.Post, error)
	Update(ctx context.Context, id domain.Identity, postID string, form service.PostForm) (domain.Post, error)
	Delete(ctx context.Context, id domain.Identity, postID string) error
	CanEdit(p domain.Post, id domain.Identity) bool
	Join(ctx context.Context, id domain.Identity, postID string) (domain.Post, error)
	Cancel(ctx context.Context, id domain.Identity, postID string) (domain.Post, error)
	ToggleLike(ctx context.Context, id domain.Identity, postID string) (domain.Post, error)
	AddReview(ctx context.Context, id domain.Identity, postID, text string) (domain.Post, error)
	RemoveReview(ctx context.Context, id domain.Identity, postID string, index int, createdAt string) (domain.Post, error)
	Attendees(ctx context.Context, p domain.Post) []service.Attendee
	Location() *time.Location
}

// PlaceSearcher is the place finder backend.
type PlaceSearcher interface {
	SearchKeyword(ctx context.Context, q kakao.KeywordQuery) ([]kakao.Place, error)
	Geocode(ctx context.Context, address string) (kakao.LatLng, error)
}

type Handler struct {
	templatesMu   sync.RWMutex
	Templates     map[string]*template.Template
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	Posts         PostService
	Places        PlaceSearcher
	Sessions      *session.Provider
	KakaoJSKey    string
}

func New(templates map[string]*template.Template, publicCfg config.Public, textProcessor *markdown.TextProcessor, posts PostService, places PlaceSearcher, sessions *session.Provider, kakaoJSKey string) *Handler {
	return &Handler{
		Templates:     templates,
		Public:        publicCfg,
		TextProcessor: textProcessor,
		Posts:         posts,
		Places:        places,
		Sessions:      sessions,
		KakaoJSKey:    kakaoJSKey,
	}
}

// SetTemplates swaps the parsed templates while requests are served.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.templatesMu.Lock()
	defer h.templatesMu.Unlock()
	h.Templates = templates
}

func (h *Handler) lookupTemplate(name string) (*template.Template, bool) {
	h.templatesMu.RLock()
	defer h.templatesMu.RUnlock()
	tmpl, ok := h.Templates[name]
	return tmpl, ok
}

// Health is a liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) listingCapacity() int {
	if h.Public.Listing.DefaultCapacity > 0 {
		return h.Public.Listing.DefaultCapacity
	}
	return domain.ListingDefaultCapacity
}
