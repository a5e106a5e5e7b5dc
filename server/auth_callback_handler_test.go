package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ssoproxy/grant"
	"ssoproxy/idp/idpfakes"
	"ssoproxy/server/authflowrepo"
)

func seedPending(t *testing.T, repo *authflowrepo.InMemoryRepo, state, returnURL string) {
	t.Helper()
	require.NoError(t, repo.Upsert(state, &authflowrepo.PendingAuth{ReturnURL: returnURL, CreatedAt: time.Now()}))
}

func sessionCookieFrom(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == testSessionCookie {
			return cookie
		}
	}
	return nil
}

func TestOAuthCallbackHandler(t *testing.T) {
	t.Run("exchange creates session and restores original URL", func(t *testing.T) {
		fake := idpfakes.NewFakeClient()
		fake.Codes["code-1"] = &grant.Grant{
			AccessToken:  "at-1",
			RefreshToken: "rt-1",
			Claims:       grant.Claims{Subject: "u-1", DisplayName: "Jane Doe", Email: "jane@example.org"},
		}
		upstream := &upstreamSpy{}
		s, sessionRepo, pendingRepo := newTestServer(t, fake, upstream)
		seedPending(t, pendingRepo, "st-1", "/reports?year=2026")

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?code=code-1&state=st-1", nil))

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/reports?year=2026", w.Header().Get("Location"))

		cookie := sessionCookieFrom(w.Result())
		require.NotNil(t, cookie, "callback must set the session cookie")
		require.True(t, cookie.HttpOnly)

		session, err := sessionRepo.Get(cookie.Value)
		require.NoError(t, err)
		require.Equal(t, "u-1", session.Grant.Claims.Subject)
		require.Equal(t, "rt-1", session.Grant.RefreshToken)

		// State is single-use.
		_, err = pendingRepo.Get("st-1")
		require.Error(t, err)

		// The new cookie authenticates subsequent requests.
		r := httptest.NewRequest(http.MethodGet, "/reports", nil)
		r.AddCookie(&http.Cookie{Name: testSessionCookie, Value: cookie.Value})
		w = httptest.NewRecorder()
		s.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, upstream.calls)
	})

	t.Run("authorization code is single-use", func(t *testing.T) {
		fake := idpfakes.NewFakeClient()
		fake.Codes["code-1"] = &grant.Grant{Claims: grant.Claims{Subject: "u-1"}}
		s, _, pendingRepo := newTestServer(t, fake, &upstreamSpy{})

		seedPending(t, pendingRepo, "st-1", "/")
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?code=code-1&state=st-1", nil))
		require.Equal(t, http.StatusSeeOther, w.Code)

		// Replaying the code under a fresh state must be rejected, not
		// silently accepted.
		seedPending(t, pendingRepo, "st-2", "/")
		w = httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?code=code-1&state=st-2", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, 2, fake.ExchangeCalls)
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		fake := idpfakes.NewFakeClient()
		s, _, _ := newTestServer(t, fake, &upstreamSpy{})

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?code=code-1&state=forged", nil))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Zero(t, fake.ExchangeCalls, "exchange must not run without a known state")
	})

	t.Run("missing parameters", func(t *testing.T) {
		fake := idpfakes.NewFakeClient()
		s, _, _ := newTestServer(t, fake, &upstreamSpy{})

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback", nil))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("provider error parameter", func(t *testing.T) {
		fake := idpfakes.NewFakeClient()
		s, _, _ := newTestServer(t, fake, &upstreamSpy{})

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied&error_description=user+cancelled", nil))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "access_denied")
	})

	t.Run("empty return URL falls back to root", func(t *testing.T) {
		fake := idpfakes.NewFakeClient()
		fake.Codes["code-1"] = &grant.Grant{Claims: grant.Claims{Subject: "u-1"}}
		s, _, pendingRepo := newTestServer(t, fake, &upstreamSpy{})
		seedPending(t, pendingRepo, "st-1", "")

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?code=code-1&state=st-1", nil))

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/", w.Header().Get("Location"))
	})
}
