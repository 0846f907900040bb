package service

import (
	"sync"
)

// InFlight refuses a second join or cancel from the same identity on the
// same post while the first is still running. Other identities and other
// posts are not affected.
type InFlight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{busy: make(map[string]struct{})}
}

// Acquire marks key busy. ok is false when it already was; otherwise the
// caller must call release.
func (f *InFlight) Acquire(key string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.busy[key]; busy {
		return nil, false
	}
	f.busy[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.busy, key)
			f.mu.Unlock()
		})
	}, true
}

func inflightKey(identityKey, postID string) string {
	return identityKey + "|" + postID
}
