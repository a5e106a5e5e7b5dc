package sessions

import (
	"sync"

	apperrors "ssoproxy/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Sessions live for the process lifetime only.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]*Session),
	}
}

// Get retrieves a session by ID. A copy is returned so callers cannot mutate
// stored state outside Update.
func (r *InMemoryRepo) Get(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrSessionNotFound, "empty session id")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

// Upsert creates or updates a session
func (r *InMemoryRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "empty session id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session.ID = sessionID
	r.sessions[sessionID] = &session
	return nil
}

// Update applies fn to the stored session under the write lock
func (r *InMemoryRepo) Update(sessionID string, fn func(*Session)) error {
	if sessionID == "" {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "empty session id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}

	fn(session)
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
