package authflowrepo

import "time"

// PendingAuth is the state recorded when a browser is challenged: where to
// send it back after the provider round-trip, keyed by the opaque state
// parameter carried through the redirect.
type PendingAuth struct {
	ReturnURL string
	CreatedAt time.Time
}

type Repo interface {
	Upsert(state string, pending *PendingAuth) error
	Get(state string) (*PendingAuth, error)
	Delete(state string) error
}
