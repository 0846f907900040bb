package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/tastelink/tastelink/frontend/internal/kakao"
	"github.com/tastelink/tastelink/frontend/internal/markdown"
	"github.com/tastelink/tastelink/frontend/internal/service"
	"github.com/tastelink/tastelink/frontend/internal/session"
	"github.com/tastelink/tastelink/shared/config"
	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/jwt"
)

// --- Mocks ---

type MockPostService struct {
	listFunc         func(ctx context.Context, page int) (domain.Page, error)
	getFunc          func(ctx context.Context, id string) (domain.Post, error)
	createFunc       func(ctx context.Context, id domain.Identity, form service.PostForm) (domain.Post, error)
	updateFunc       func(ctx context.Context, id domain.Identity, postID string, form service.PostForm) (domain.Post, error)
	deleteFunc       func(ctx context.Context, id domain.Identity, postID string) error
	joinFunc         func(ctx context.Context, id domain.Identity, postID string) (domain.Post, error)
	cancelFunc       func(ctx context.Context, id domain.Identity, postID string) (domain.Post, error)
	toggleLikeFunc   func(ctx context.Context, id domain.Identity, postID string) (domain.Post, error)
	addReviewFunc    func(ctx context.Context, id domain.Identity, postID, text string) (domain.Post, error)
	removeReviewFunc func(ctx context.Context, id domain.Identity, postID string, index int, createdAt string) (domain.Post, error)
	attendeesFunc    func(ctx context.Context, p domain.Post) []service.Attendee

	mu    sync.Mutex
	calls []string
}

func (m *MockPostService) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *MockPostService) List(ctx context.Context, page int) (domain.Page, error) {
	m.record("List")
	if m.listFunc != nil {
		return m.listFunc(ctx, page)
	}
	return domain.Page{Page: 1, TotalPages: 1}, nil
}

func (m *MockPostService) Get(ctx context.Context, id string) (domain.Post, error) {
	m.record("Get")
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockPostService) Create(ctx context.Context, id domain.Identity, form service.PostForm) (domain.Post, error) {
	m.record("Create")
	if m.createFunc != nil {
		return m.createFunc(ctx, id, form)
	}
	return domain.Post{Id: "new"}, nil
}

func (m *MockPostService) Update(ctx context.Context, id domain.Identity, postID string, form service.PostForm) (domain.Post, error) {
	m.record("Update")
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, postID, form)
	}
	return domain.Post{Id: postID}, nil
}

func (m *MockPostService) Delete(ctx context.Context, id domain.Identity, postID string) error {
	m.record("Delete")
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, postID)
	}
	return nil
}

func (m *MockPostService) CanEdit(p domain.Post, id domain.Identity) bool {
	return !id.IsZero() && p.OwnedBy(id)
}

func (m *MockPostService) Join(ctx context.Context, id domain.Identity, postID string) (domain.Post, error) {
	m.record("Join")
	if m.joinFunc != nil {
		return m.joinFunc(ctx, id, postID)
	}
	return domain.Post{Id: postID}, nil
}

func (m *MockPostService) Cancel(ctx context.Context, id domain.Identity, postID string) (domain.Post, error) {
	m.record("Cancel")
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, postID)
	}
	return domain.Post{Id: postID}, nil
}

func (m *MockPostService) ToggleLike(ctx context.Context, id domain.Identity, postID string) (domain.Post, error) {
	m.record("ToggleLike")
	if m.toggleLikeFunc != nil {
		return m.toggleLikeFunc(ctx, id, postID)
	}
	return domain.Post{Id: postID}, nil
}

func (m *MockPostService) AddReview(ctx context.Context, id domain.Identity, postID, text string) (domain.Post, error) {
	m.record("AddReview")
	if m.addReviewFunc != nil {
		return m.addReviewFunc(ctx, id, postID, text)
	}
	return domain.Post{Id: postID}, nil
}

func (m *MockPostService) RemoveReview(ctx context.Context, id domain.Identity, postID string, index int, createdAt string) (domain.Post, error) {
	m.record("RemoveReview")
	if m.removeReviewFunc != nil {
		return m.removeReviewFunc(ctx, id, postID, index, createdAt)
	}
	return domain.Post{Id: postID}, nil
}

func (m *MockPostService) Attendees(ctx context.Context, p domain.Post) []service.Attendee {
	if m.attendeesFunc != nil {
		return m.attendeesFunc(ctx, p)
	}
	out := make([]service.Attendee, 0, len(p.Attendees))
	for _, a := range p.Attendees {
		out = append(out, service.Attendee{Entry: a, DisplayName: a})
	}
	return out
}

func (m *MockPostService) Location() *time.Location {
	return seoul
}

type MockPlaces struct {
	searchFunc  func(ctx context.Context, q kakao.KeywordQuery) ([]kakao.Place, error)
	geocodeFunc func(ctx context.Context, address string) (kakao.LatLng, error)
}

func (m *MockPlaces) SearchKeyword(ctx context.Context, q kakao.KeywordQuery) ([]kakao.Place, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, q)
	}
	return []kakao.Place{}, nil
}

func (m *MockPlaces) Geocode(ctx context.Context, address string) (kakao.LatLng, error) {
	if m.geocodeFunc != nil {
		return m.geocodeFunc(ctx, address)
	}
	return kakao.LatLng{}, nil
}

// --- Helpers ---

var (
	seoul = time.FixedZone("KST", 9*60*60)
	haram = domain.Identity{Name: "하람", Email: "haram@example.com"}
)

func testPublicConfig() config.Public {
	var pub config.Public
	pub.Listing.DefaultCapacity = 10
	pub.Map.DefaultLat = 37.5665
	pub.Map.DefaultLng = 126.978
	pub.Map.DefaultRadius = 3000
	pub.Map.DefaultKeyword = "맛집"
	return pub
}

func newTestHandler(t *testing.T, posts *MockPostService, places *MockPlaces) *Handler {
	t.Helper()
	templates, err := LoadTemplates("../../templates")
	require.NoError(t, err)
	if places == nil {
		places = &MockPlaces{}
	}
	sessions := session.NewProvider(jwt.New([]byte("0123456789abcdef0123456789abcdef")), false)
	return New(templates, testPublicConfig(), markdown.New(), posts, places, sessions, "")
}

func withIdentity(req *http.Request, id domain.Identity) *http.Request {
	return req.WithContext(session.WithIdentity(req.Context(), id))
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func flashFrom(t *testing.T, rec *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.MaxAge > 0 {
			return decodeFlash(t, c.Value)
		}
	}
	return ""
}

func decodeFlash(t *testing.T, value string) string {
	t.Helper()
	decoded, err := base64.StdEncoding.DecodeString(value)
	require.NoError(t, err)
	return string(decoded)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func intPtr(v int) *int { return &v }
