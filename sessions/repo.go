package sessions

// Repo defines the interface for session storage operations.
// Implementations must be safe for concurrent use: parallel requests
// belonging to the same session (e.g. multiple browser tabs) may read and
// mutate one entry at the same time.
type Repo interface {
	// Get retrieves a session by ID
	Get(sessionID string) (*Session, error)

	// Upsert creates or updates a session
	Upsert(sessionID string, session Session) error

	// Update applies fn to the stored session atomically, so a concurrent
	// token refresh cannot be lost
	Update(sessionID string, fn func(*Session)) error

	// Delete removes a session by ID
	Delete(sessionID string) error
}
