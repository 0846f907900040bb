// Package cache holds the server's local view of the post collection.
// Listing pages render from it; mutations update it before and after they
// reach the remote store.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/logger"
)

type PostLister interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)
}

type entry struct {
	post domain.Post
	rev  uint64
}

type Posts struct {
	store PostLister
	ttl   time.Duration
	now   func() time.Time

	mu         sync.RWMutex
	entries    map[string]entry
	order      []string // store order, used as the tie-break for undated posts
	rev        uint64
	lastUpdate time.Time
}

func NewPosts(store PostLister, ttl time.Duration) *Posts {
	return &Posts{
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Update replaces the whole view with a fresh listing.
func (c *Posts) Update(ctx context.Context) error {
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries = make(map[string]entry, len(posts))
	c.order = c.order[:0]
	for _, p := range posts {
		c.rev++
		if _, dup := c.entries[p.Id]; !dup {
			c.order = append(c.order, p.Id)
		}
		c.entries[p.Id] = entry{post: p, rev: c.rev}
	}
	c.lastUpdate = c.now()
	c.mu.Unlock()

	logger.Log.Debug("post cache updated", "component", "post_cache", "entries", len(posts))
	return nil
}

func (c *Posts) stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate.IsZero() || c.now().Sub(c.lastUpdate) > c.ttl
}

// All returns every post in store order, refreshing first when the view is
// older than the ttl. A failed refresh falls back to the view already held,
// unless nothing was ever loaded.
func (c *Posts) All(ctx context.Context) ([]domain.Post, error) {
	if c.stale() {
		if err := c.Update(ctx); err != nil {
			c.mu.RLock()
			loaded := !c.lastUpdate.IsZero()
			c.mu.RUnlock()
			if !loaded {
				return nil, err
			}
			logger.Log.Warn("serving stale posts", "component", "post_cache", "error", err)
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Post, 0, len(c.order))
	for _, id := range c.order {
		if e, ok := c.entries[id]; ok {
			out = append(out, e.post)
		}
	}
	return out, nil
}

func (c *Posts) Get(id string) (domain.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e.post, ok
}

// Put stores p and returns its revision.
func (c *Posts) Put(p domain.Post) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rev++
	if _, ok := c.entries[p.Id]; !ok {
		c.order = append(c.order, p.Id)
	}
	c.entries[p.Id] = entry{post: p, rev: c.rev}
	return c.rev
}

func (c *Posts) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// RestoreIf puts snapshot back only if the entry still holds revision rev,
// so a rollback never clobbers a newer write or refresh.
func (c *Posts) RestoreIf(rev uint64, snapshot domain.Post) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[snapshot.Id]
	if !ok || e.rev != rev {
		return false
	}
	c.rev++
	c.entries[snapshot.Id] = entry{post: snapshot, rev: c.rev}
	return true
}

// StartBackgroundUpdate refreshes the view every interval until ctx is done.
func (c *Posts) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started post cache background updates",
		"component", "post_cache",
		"interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.Update(ctx); err != nil {
					logger.Log.Error("post cache update failed",
						"component", "post_cache",
						"error", err)
				}
			case <-ctx.Done():
				logger.Log.Info("post cache shutting down gracefully",
					"component", "post_cache")
				return
			}
		}
	}()
}
