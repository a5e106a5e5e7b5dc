package authflowrepo

import (
	"sync"

	apperrors "ssoproxy/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.RWMutex
	states map[string]*PendingAuth
}

// NewInMemoryRepo creates a new in-memory pending-authorization repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		states: make(map[string]*PendingAuth),
	}
}

// Upsert stores or updates a pending authorization
func (r *InMemoryRepo) Upsert(state string, pending *PendingAuth) error {
	if state == "" {
		return apperrors.Wrapf(apperrors.ErrStateNotFound, "empty state")
	}
	if pending == nil {
		return apperrors.Wrapf(apperrors.ErrStateNotFound, "nil pending authorization")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to prevent external modifications
	copied := *pending
	r.states[state] = &copied
	return nil
}

// Get retrieves a pending authorization by state parameter
func (r *InMemoryRepo) Get(state string) (*PendingAuth, error) {
	if state == "" {
		return nil, apperrors.Wrapf(apperrors.ErrStateNotFound, "empty state")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	pending, exists := r.states[state]
	if !exists {
		return nil, apperrors.ErrStateNotFound
	}

	copied := *pending
	return &copied, nil
}

// Delete removes a pending authorization
func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return apperrors.Wrapf(apperrors.ErrStateNotFound, "empty state")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, state)
	return nil
}
