// Package ratelimiter keeps one token bucket per client key.
package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter *rate.Limiter
	timer   *time.Timer
}

// UserRateLimiter hands out a token bucket per key and forgets keys that
// stay idle for expirationTime.
type UserRateLimiter struct {
	buckets        map[string]*bucket
	mu             sync.Mutex
	rate           rate.Limit
	burst          int
	expirationTime time.Duration
}

// NewUserRateLimiter allows perSecond events per key with the given burst.
func NewUserRateLimiter(perSecond float64, burst int, expirationTime time.Duration) *UserRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &UserRateLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate.Limit(perSecond),
		burst:          burst,
		expirationTime: expirationTime,
	}
}

func (u *UserRateLimiter) get(key string) *rate.Limiter {
	u.mu.Lock()
	defer u.mu.Unlock()

	b, ok := u.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(u.rate, u.burst)}
		u.buckets[key] = b
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(u.expirationTime, func() { u.forget(key, b) })
	return b.limiter
}

func (u *UserRateLimiter) forget(key string, b *bucket) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.buckets[key] == b {
		delete(u.buckets, key)
	}
}

// Allow reports whether key may perform one more event now.
func (u *UserRateLimiter) Allow(key string) bool {
	return u.get(key).Allow()
}

// Len returns the number of tracked keys.
func (u *UserRateLimiter) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.buckets)
}
