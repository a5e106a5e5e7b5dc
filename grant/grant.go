package grant

// Claims holds the identity attributes the proxy forwards to upstream
// services. Every field is optional; extraction never fails on a missing
// claim and the header injector applies the documented fallbacks instead.
type Claims struct {
	Subject     string   // stable principal id ("sub")
	DisplayName string   // human-readable name, absent for machine callers
	Email       string
	PersonID    string   // external person/account identifier
	SessionID   string   // provider-side session id ("sid")
	Roles       []string // ordered role/group memberships
}

// Identified reports whether the claim set resolves to a usable identity.
// Callers with neither a display name nor a subject are forwarded without
// identity headers rather than rejected, to keep anonymous bearer flows
// working.
func (c Claims) Identified() bool {
	return c.DisplayName != "" || c.Subject != ""
}

// Grant is the resolved identity and token pair for one authenticated
// principal. A Grant is valid until the provider rejects its access token or
// the owning session is destroyed; the proxy performs no local expiry checks.
type Grant struct {
	AccessToken  string
	RefreshToken string
	Claims       Claims
}
