package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ssoproxy/sessions"
)

// OAuthCallbackHandler completes the authorization-code exchange. It
// validates the state against the pending-authorization store, exchanges the
// single-use code for a Grant, creates the session bound to the caller's
// cookie and redirects back to the originally requested resource.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.FormValue works for both query params and POST form data
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")
		errorDesc := r.FormValue("error_description")

		// Check for authorization errors from the provider
		if errorParam != "" {
			http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errorParam, errorDesc), http.StatusUnauthorized)
			return
		}

		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		pending, err := s.pending.Get(state)
		if err != nil || pending == nil {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		// Clean up state after use
		if err := s.pending.Delete(state); err != nil {
			http.Error(w, "Invalid state parameter", http.StatusInternalServerError)
			return
		}

		// Exchange the authorization code for tokens and claims. Codes are
		// single-use: the provider rejects a replay, and so does this path.
		g, err := s.idp.Exchange(r.Context(), code)
		if err != nil {
			s.metrics.AuthRejections.Inc()
			log.Warn().Err(err).Msg("authorization code exchange failed")
			http.Error(w, "Authentication failed", http.StatusUnauthorized)
			return
		}

		sessionID := uuid.NewString()
		session := sessions.Session{
			ID:        sessionID,
			Grant:     *g,
			CreatedAt: time.Now(),
		}
		if err := s.sessions.Upsert(sessionID, session); err != nil {
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		s.metrics.SessionsCreated.Inc()
		s.setSessionCookie(w, r, sessionID)

		log.Info().
			Str("subject", g.Claims.Subject).
			Str("displayName", g.Claims.DisplayName).
			Msg("session established")

		// Redirect to the originally requested resource
		returnURL := pending.ReturnURL
		if returnURL == "" {
			returnURL = "/"
		}
		http.Redirect(w, r, returnURL, http.StatusSeeOther)
	}
}
