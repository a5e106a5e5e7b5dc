package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LogoutHandler destroys the caller's session. With the session gone, the
// old cookie resolves to nothing and the next request is challenged again.
// When the provider advertises an end-session endpoint the browser is sent
// there so the provider-side session ends too.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if err := s.sessions.Delete(cookie.Value); err != nil {
				log.Warn().Err(err).Msg("deleting session on logout")
			} else {
				s.metrics.SessionsEnded.Inc()
			}
		}
		s.clearSessionCookie(w, r)

		if endSessionURL := s.idp.EndSessionURL(s.config.GetGatewayURL()); endSessionURL != "" {
			http.Redirect(w, r, endSessionURL, http.StatusFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Logged out"))
	}
}
