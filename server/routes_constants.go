package server

// Route path constants
// The proxy owns only the auth endpoints; every other path is forwarded
// upstream through the auth gate.
const (
	// RouteCallback completes the provider's authorization-code redirect
	RouteCallback = "/callback"

	// RouteLogout destroys the session and ends it at the provider
	RouteLogout = "/logout"
)
