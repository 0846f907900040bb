package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tastelink/tastelink/frontend/internal/cache"
	"github.com/tastelink/tastelink/shared/domain"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
)

// --- Mocks ---

// MockPostStore mocks PostStore. Without a func override every call goes to
// an in-memory map so tests can follow a post through several mutations.
type MockPostStore struct {
	listPostsFunc   func(ctx context.Context) ([]domain.Post, error)
	getPostFunc     func(ctx context.Context, id string) (domain.Post, error)
	createPostFunc  func(ctx context.Context, p domain.Post) (domain.Post, error)
	replacePostFunc func(ctx context.Context, p domain.Post) (domain.Post, error)
	patchPostFunc   func(ctx context.Context, id string, fields map[string]any) (domain.Post, error)
	deletePostFunc  func(ctx context.Context, id string) error

	mu           sync.Mutex
	posts        map[string]domain.Post
	order        []string
	nextId       int
	replaceCalls int
	patchCalls   int
	patchArgs    map[string]any
}

func newMockStore(posts ...domain.Post) *MockPostStore {
	m := &MockPostStore{posts: make(map[string]domain.Post)}
	for _, p := range posts {
		m.put(p)
	}
	return m
}

func (m *MockPostStore) put(p domain.Post) {
	if _, ok := m.posts[p.Id]; !ok {
		m.order = append(m.order, p.Id)
	}
	m.posts[p.Id] = p.Clone()
}

func (m *MockPostStore) stored(id string) domain.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posts[id].Clone()
}

func (m *MockPostStore) ListPosts(ctx context.Context) ([]domain.Post, error) {
	if m.listPostsFunc != nil {
		return m.listPostsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Post, 0, len(m.order))
	for _, id := range m.order {
		if p, ok := m.posts[id]; ok {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *MockPostStore) GetPost(ctx context.Context, id string) (domain.Post, error) {
	if m.getPostFunc != nil {
		return m.getPostFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return domain.Post{}, internal_errors.ErrPostNotFound
	}
	return p.Clone(), nil
}

func (m *MockPostStore) CreatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	if m.createPostFunc != nil {
		return m.createPostFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextId++
	p = p.Clone()
	p.Id = fmt.Sprint(100 + m.nextId)
	m.put(p)
	return p.Clone(), nil
}

func (m *MockPostStore) ReplacePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	m.mu.Lock()
	m.replaceCalls++
	m.mu.Unlock()
	if m.replacePostFunc != nil {
		return m.replacePostFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.Id]; !ok {
		return domain.Post{}, internal_errors.ErrPostNotFound
	}
	m.put(p)
	return p.Clone(), nil
}

func (m *MockPostStore) PatchPost(ctx context.Context, id string, fields map[string]any) (domain.Post, error) {
	m.mu.Lock()
	m.patchCalls++
	m.patchArgs = fields
	m.mu.Unlock()
	if m.patchPostFunc != nil {
		return m.patchPostFunc(ctx, id, fields)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return domain.Post{}, internal_errors.ErrPostNotFound
	}
	p = p.Clone()
	for k, v := range fields {
		switch k {
		case "likes":
			p.Likes = v.(int)
		case "likedBy":
			p.LikedBy = append([]string{}, v.([]string)...)
		case "capacity":
			n := v.(int)
			p.Capacity = &n
		}
	}
	m.put(p)
	return p.Clone(), nil
}

func (m *MockPostStore) DeletePost(ctx context.Context, id string) error {
	if m.deletePostFunc != nil {
		return m.deletePostFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return internal_errors.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

// MockUserStore mocks UserStore.
type MockUserStore struct {
	listUsersFunc func(ctx context.Context) ([]domain.User, error)
}

func (m *MockUserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx)
	}
	return []domain.User{}, nil
}

var (
	haram = domain.Identity{Name: "하람", Email: "haram@example.com"}
	guest = domain.Identity{Name: "게스트", Email: "guest@example.com"}
	seoul = time.FixedZone("KST", 9*60*60)
	// fixedNow is 2025-10-16 10:00 in Seoul.
	fixedNow = time.Date(2025, 10, 16, 1, 0, 0, 0, time.UTC)
)

func newTestService(store *MockPostStore) *PostService {
	s := NewPostService(store, &MockUserStore{}, cache.NewPosts(store, time.Minute), Options{PageSize: 6, Location: seoul})
	s.now = func() time.Time { return fixedNow }
	return s
}

func intPtr(n int) *int { return &n }
