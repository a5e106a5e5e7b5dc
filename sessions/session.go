package sessions

import (
	"time"

	"ssoproxy/grant"
)

// Session binds a caller's cookie to their Grant. Sessions are created on
// the first successful code exchange, mutated in place on token refresh and
// destroyed on logout or eviction. They are never proactively expired: the
// provider owns token lifetimes, so staleness is detected lazily on next use.
type Session struct {
	ID        string // cryptographically random, delivered as the cookie value
	Grant     grant.Grant
	CreatedAt time.Time
}
