package service

import (
	"errors"
	"sync"
)

type MutationState int

const (
	Pending MutationState = iota
	Committed
	RolledBack
)

func (s MutationState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	}
	return "unknown"
}

var ErrMutationResolved = errors.New("mutation already resolved")

// View is the local state an optimistic mutation writes to. Show returns a
// token identifying the write; Revert undoes it only while that write is
// still the latest.
type View[T any] interface {
	Show(v T) uint64
	Revert(token uint64, snapshot T) bool
}

// Mutation shows a value locally before the remote store confirms it and
// keeps the pre-mutation snapshot until it is either committed or rolled back.
type Mutation[T any] struct {
	mu       sync.Mutex
	view     View[T]
	snapshot T
	token    uint64
	state    MutationState
}

// Begin shows optimistic right away and returns the pending mutation.
func Begin[T any](view View[T], snapshot, optimistic T) *Mutation[T] {
	return &Mutation[T]{
		view:     view,
		snapshot: snapshot,
		token:    view.Show(optimistic),
		state:    Pending,
	}
}

// Commit replaces the optimistic value with the confirmed one.
func (m *Mutation[T]) Commit(confirmed T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Pending {
		return ErrMutationResolved
	}
	m.view.Show(confirmed)
	m.state = Committed
	return nil
}

// Rollback restores the snapshot unless something newer was shown meanwhile.
func (m *Mutation[T]) Rollback() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Pending {
		return ErrMutationResolved
	}
	m.view.Revert(m.token, m.snapshot)
	m.state = RolledBack
	return nil
}

func (m *Mutation[T]) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mutation[T]) Snapshot() T {
	return m.snapshot
}
