package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tastelink/tastelink/frontend/internal/cache"
	"github.com/tastelink/tastelink/shared/domain"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/logger"
	"github.com/tastelink/tastelink/shared/middleware/metrics"
)

// reviewTimeLayout matches what browsers produce with Date.toISOString.
const reviewTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type PostStore interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)
	GetPost(ctx context.Context, id string) (domain.Post, error)
	CreatePost(ctx context.Context, p domain.Post) (domain.Post, error)
	ReplacePost(ctx context.Context, p domain.Post) (domain.Post, error)
	PatchPost(ctx context.Context, id string, fields map[string]any) (domain.Post, error)
	DeletePost(ctx context.Context, id string) error
}

type UserStore interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type PostService struct {
	store    PostStore
	users    UserStore
	view     *cache.Posts
	inflight *InFlight
	pageSize int
	loc      *time.Location
	now      func() time.Time
	log      *slog.Logger
}

type Options struct {
	PageSize int
	Location *time.Location
}

func NewPostService(store PostStore, users UserStore, view *cache.Posts, opts Options) *PostService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &PostService{
		store:    store,
		users:    users,
		view:     view,
		inflight: NewInFlight(),
		pageSize: max(opts.PageSize, 1),
		loc:      loc,
		now:      time.Now,
		log:      logger.Component("post_service"),
	}
}

// Location is the zone dates are shown and validated in.
func (s *PostService) Location() *time.Location {
	return s.loc
}

// observe records how a mutation ended.
func (s *PostService) observe(action string, err error) {
	switch {
	case err == nil:
		metrics.ObserveMutation(action, metrics.OutcomeCommitted)
	case internal_errors.IsBusinessRule(err):
		metrics.ObserveMutation(action, metrics.OutcomeRejected)
		s.log.Debug("mutation rejected", "action", action, "reason", err)
	default:
		metrics.ObserveMutation(action, metrics.OutcomeFailed)
		s.log.Error("mutation failed", "action", action, "error", err)
	}
}

// List returns one page of the listing, newest first.
func (s *PostService) List(ctx context.Context, page int) (domain.Page, error) {
	posts, err := s.view.All(ctx)
	if err != nil {
		return domain.Page{}, err
	}
	domain.SortByCreatedDesc(posts)
	return domain.Paginate(posts, page, s.pageSize), nil
}

// Get reads the post from the store and refreshes the local view with it.
func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if errors.Is(err, internal_errors.ErrPostNotFound) {
		s.view.Remove(id)
	}
	if err != nil {
		return domain.Post{}, err
	}
	s.view.Put(p)
	return p, nil
}

func requireIdentity(id domain.Identity) error {
	if id.IsZero() {
		return internal_errors.ErrUnauthenticated
	}
	return nil
}

// Create stores a new post owned by id.
func (s *PostService) Create(ctx context.Context, id domain.Identity, form PostForm) (p domain.Post, err error) {
	defer func() { s.observe("create", err) }()
	if err := requireIdentity(id); err != nil {
		return domain.Post{}, err
	}
	now := s.now()
	in, err := parsePostForm(form, now, s.loc, true)
	if err != nil {
		return domain.Post{}, err
	}

	created := now.UTC()
	draft := in.apply(domain.Post{
		WriterEmail: id.Email,
		CreatedAt:   &created,
		Likes:       in.Likes,
	})
	saved, err := s.store.CreatePost(ctx, draft)
	if err != nil {
		return domain.Post{}, err
	}
	s.view.Put(saved)
	return saved, nil
}

// Update applies the edit form. Only the owner may edit; attendees, likes
// and reviews are carried over from a fresh read.
func (s *PostService) Update(ctx context.Context, id domain.Identity, postID string, form PostForm) (p domain.Post, err error) {
	defer func() { s.observe("update", err) }()
	if err := requireIdentity(id); err != nil {
		return domain.Post{}, err
	}
	in, err := parsePostForm(form, s.now(), s.loc, false)
	if err != nil {
		return domain.Post{}, err
	}
	fresh, err := s.Get(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if !fresh.OwnedBy(id) {
		return fresh, internal_errors.ErrForbidden
	}

	saved, err := s.store.ReplacePost(ctx, in.apply(fresh))
	if err != nil {
		return fresh, err
	}
	s.view.Put(saved)
	return saved, nil
}

// Delete removes the post; only the owner may.
func (s *PostService) Delete(ctx context.Context, id domain.Identity, postID string) (err error) {
	defer func() { s.observe("delete", err) }()
	if err := requireIdentity(id); err != nil {
		return err
	}
	fresh, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !fresh.OwnedBy(id) {
		return internal_errors.ErrForbidden
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.view.Remove(postID)
	return nil
}

// CanEdit reports whether id owns p.
func (s *PostService) CanEdit(p domain.Post, id domain.Identity) bool {
	return !id.IsZero() && p.OwnedBy(id)
}

// Join adds id to the attendees. The post is re-read right before the write
// and the fresh state is returned even when the join is refused. Nothing is
// shown locally before the store confirms.
func (s *PostService) Join(ctx context.Context, id domain.Identity, postID string) (p domain.Post, err error) {
	defer func() { s.observe("join", err) }()
	if err := requireIdentity(id); err != nil {
		return domain.Post{}, err
	}
	release, ok := s.inflight.Acquire(inflightKey(id.Key(), postID))
	if !ok {
		return domain.Post{}, internal_errors.ErrBusy
	}
	defer release()

	fresh, err := s.Get(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if fresh.HasAttendee(id) {
		return fresh, internal_errors.ErrAlreadyJoined
	}
	if domain.ResolveAttendance(fresh, 0).IsFull {
		return fresh, internal_errors.ErrPostFull
	}

	saved, err := s.store.ReplacePost(ctx, fresh.WithAttendee(id))
	if err != nil {
		return fresh, err
	}
	s.view.Put(saved)
	return saved, nil
}

// Cancel removes every attendee entry that refers to id, by name or email.
func (s *PostService) Cancel(ctx context.Context, id domain.Identity, postID string) (p domain.Post, err error) {
	defer func() { s.observe("cancel", err) }()
	if err := requireIdentity(id); err != nil {
		return domain.Post{}, err
	}
	release, ok := s.inflight.Acquire(inflightKey(id.Key(), postID))
	if !ok {
		return domain.Post{}, internal_errors.ErrBusy
	}
	defer release()

	fresh, err := s.Get(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	next, removed := fresh.WithoutAttendee(id)
	if removed == 0 {
		return fresh, internal_errors.ErrNotJoined
	}

	saved, err := s.store.ReplacePost(ctx, next)
	if err != nil {
		return fresh, err
	}
	s.view.Put(saved)
	return saved, nil
}

// postView lets a Mutation write into the post cache.
type postView struct {
	cache *cache.Posts
}

func (v postView) Show(p domain.Post) uint64 {
	return v.cache.Put(p)
}

func (v postView) Revert(token uint64, snapshot domain.Post) bool {
	return v.cache.RestoreIf(token, snapshot)
}

// ToggleLike flips id's like on the local view immediately, sends only
// likes and likedBy to the store and then adopts the store's answer. On
// failure the local view goes back to the snapshot.
func (s *PostService) ToggleLike(ctx context.Context, id domain.Identity, postID string) (domain.Post, error) {
	if err := requireIdentity(id); err != nil {
		s.observe("like", err)
		return domain.Post{}, err
	}

	snapshot, ok := s.view.Get(postID)
	if !ok {
		fresh, err := s.Get(ctx, postID)
		if err != nil {
			s.observe("like", err)
			return domain.Post{}, err
		}
		snapshot = fresh
	}

	optimistic := snapshot.ToggleLike(id)
	m := Begin[domain.Post](postView{cache: s.view}, snapshot, optimistic)

	confirmed, err := s.store.PatchPost(ctx, postID, map[string]any{
		"likes":   optimistic.Likes,
		"likedBy": optimistic.LikedBy,
	})
	if err != nil {
		if rbErr := m.Rollback(); rbErr != nil {
			s.log.Error("like rollback", "post", postID, "error", rbErr)
		}
		if errors.Is(err, internal_errors.ErrPostNotFound) {
			s.view.Remove(postID)
		}
		metrics.ObserveMutation("like", metrics.OutcomeRolledBack)
		s.log.Warn("like rolled back", "post", postID, "error", err)
		return m.Snapshot(), err
	}
	if err := m.Commit(confirmed); err != nil {
		return confirmed, err
	}
	metrics.ObserveMutation("like", metrics.OutcomeCommitted)
	return confirmed, nil
}

// AddReview appends a review written by id with a full-document replace.
func (s *PostService) AddReview(ctx context.Context, id domain.Identity, postID, text string) (p domain.Post, err error) {
	defer func() { s.observe("review_add", err) }()
	if err := requireIdentity(id); err != nil {
		return domain.Post{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Post{}, internal_errors.ErrEmptyReview
	}

	fresh, err := s.Get(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	review := domain.Review{
		Writer:    id.Key(),
		Text:      text,
		CreatedAt: s.now().UTC().Format(reviewTimeLayout),
	}
	saved, err := s.store.ReplacePost(ctx, fresh.WithReview(review))
	if err != nil {
		return fresh, err
	}
	s.view.Put(saved)
	return saved, nil
}

// RemoveReview deletes the review at index if id wrote it. createdAt, when
// given, guards against the list having shifted since the page was rendered.
func (s *PostService) RemoveReview(ctx context.Context, id domain.Identity, postID string, index int, createdAt string) (p domain.Post, err error) {
	defer func() { s.observe("review_remove", err) }()
	if err := requireIdentity(id); err != nil {
		return domain.Post{}, err
	}

	fresh, err := s.Get(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if index < 0 || index >= len(fresh.Reviews) || (createdAt != "" && fresh.Reviews[index].CreatedAt != createdAt) {
		return fresh, internal_errors.ErrReviewNotFound
	}
	next, ok := fresh.WithoutReview(index, createdAt, id)
	if !ok {
		return fresh, internal_errors.ErrForbidden
	}

	saved, err := s.store.ReplacePost(ctx, next)
	if err != nil {
		return fresh, err
	}
	s.view.Put(saved)
	return saved, nil
}

// Attendee is one attendees entry prepared for display.
type Attendee struct {
	Entry       string
	DisplayName string
	Profile     *domain.User
}

// Attendees resolves display names and profiles from the users resource.
// A failing users lookup only costs the profiles.
func (s *PostService) Attendees(ctx context.Context, p domain.Post) []Attendee {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.log.Warn("loading user profiles", "error", err)
		users = nil
	}
	out := make([]Attendee, 0, len(p.Attendees))
	for _, entry := range p.Attendees {
		a := Attendee{Entry: entry, DisplayName: domain.DisplayName(users, entry)}
		if u, ok := domain.FindProfile(users, entry); ok {
			a.Profile = &u
		}
		out = append(out, a)
	}
	return out
}
