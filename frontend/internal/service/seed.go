package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/logger"
)

type seedPost struct {
	title   string
	members int
	likes   int
	payment string
	image   string
}

var initialPosts = []seedPost{
	{"강남 스시 같이 드실 분", 3, 5, "n분의1", "https://images.unsplash.com/photo-1544025162-d76694265947?q=80&w=1400&auto=format&fit=crop"},
	{"홍대 고기파티", 5, 8, "각자결제", "https://images.unsplash.com/photo-1604908176997-431a1a5b9a5a?q=80&w=1400&auto=format&fit=crop"},
	{"신촌 찌개모임", 4, 2, "선결제", "https://images.unsplash.com/photo-1555939594-58d7cb561ad1?q=80&w=1400&auto=format&fit=crop"},
}

const seedWriter = "하람"

// Seeder fills an empty store with demo posts.
type Seeder struct {
	store PostStore
	now   func() time.Time
	log   *slog.Logger
}

func NewSeeder(store PostStore) *Seeder {
	return &Seeder{store: store, now: time.Now, log: logger.Component("seeder")}
}

// SeedIfEmpty creates the demo posts when the store holds none and reports
// how many were created. Callers only log the error.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (int, error) {
	existing, err := s.store.ListPosts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.log.Debug("store already has posts, skipping seed", "count", len(existing))
		return 0, nil
	}

	now := s.now().UTC()
	created := 0
	for _, seed := range initialPosts {
		capacity := seed.members
		p := domain.Post{
			Title:         seed.title,
			Writer:        seedWriter,
			PaymentMethod: seed.payment,
			Image:         seed.image,
			CreatedAt:     &now,
			EventDate:     &now,
			EndAt:         &now,
			Members:       seed.members,
			Capacity:      &capacity,
			Likes:         seed.likes,
		}
		if _, err := s.store.CreatePost(ctx, p); err != nil {
			return created, err
		}
		created++
	}
	s.log.Info("seeded store", "created", created)
	return created, nil
}
