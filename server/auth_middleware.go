package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ssoproxy/grant"
	"ssoproxy/server/authflowrepo"
)

// RequireGrant is the authentication gate in front of the forwarder. For
// each request it produces one of:
//   - Pass: a Grant was resolved (bearer token or session cookie); it is
//     attached to the request context and handling continues.
//   - Challenge: a browser request with no credentials is redirected to the
//     provider's authorization endpoint, with the original URL recorded so
//     the callback can restore it.
//   - Reject: an invalid bearer token, or an unauthenticated upgrade
//     request, gets an authentication-failure status. No silent
//     pass-through.
//
// Resolution order: bearer token first (validated by provider introspection,
// no session created), then session cookie, then Challenge.
func (s *Server) RequireGrant() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				g, err := s.idp.Introspect(r.Context(), token)
				if err != nil {
					s.metrics.AuthRejections.Inc()
					log.Debug().Err(err).Msg("bearer token rejected")
					http.Error(w, "invalid bearer token", http.StatusUnauthorized)
					return
				}
				next(w, r.WithContext(grant.NewContext(r.Context(), g)))
				return
			}

			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				if session, err := s.sessions.Get(cookie.Value); err == nil {
					next(w, r.WithContext(grant.NewContext(r.Context(), &session.Grant)))
					return
				}
			}

			// Redirects are meaningless mid-handshake, so an upgrade
			// request with no grant is rejected before any upstream dial.
			if isUpgradeRequest(r) {
				s.metrics.AuthRejections.Inc()
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			s.challenge(w, r)
		}
	}
}

// challenge starts the authorization-code flow: record the original URL
// under a fresh state value, then send the browser to the provider.
func (s *Server) challenge(w http.ResponseWriter, r *http.Request) {
	state := generateRandomString(24)
	err := s.pending.Upsert(state, &authflowrepo.PendingAuth{
		ReturnURL: r.URL.RequestURI(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		http.Error(w, "failed to start authorization", http.StatusInternalServerError)
		return
	}

	s.metrics.AuthChallenges.Inc()
	http.Redirect(w, r, s.idp.AuthCodeURL(state), http.StatusFound)
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func isUpgradeRequest(r *http.Request) bool {
	for _, value := range r.Header.Values("Connection") {
		for _, token := range strings.Split(value, ",") {
			if strings.EqualFold(strings.TrimSpace(token), "upgrade") {
				return true
			}
		}
	}
	return false
}
