package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteCallback, s.OAuthCallbackHandler())
	s.RegisterRouteFunc("POST "+RouteCallback, s.OAuthCallbackHandler()) // For form_post response mode
	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())

	// Everything else, any method, is proxied behind the auth gate.
	s.RegisterRouteFunc("/", ChainMiddleware(s.forward(), s.RequireGrant()))
}

// forward hands an authenticated request to the claim-injecting forwarder.
func (s *Server) forward() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.upstream.ServeHTTP(w, r)
	}
}

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}
