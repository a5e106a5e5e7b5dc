package proxy_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"ssoproxy/grant"
	"ssoproxy/proxy"
)

func TestFormatRoles(t *testing.T) {
	require.Equal(t, "a;b;", proxy.FormatRoles([]string{"a", "b"}))
	require.Equal(t, "admin;", proxy.FormatRoles([]string{"admin"}))
	require.Equal(t, "", proxy.FormatRoles(nil))
}

func TestInjectIdentity(t *testing.T) {
	t.Run("full claim set", func(t *testing.T) {
		h := http.Header{}
		proxy.InjectIdentity(h, &grant.Grant{Claims: grant.Claims{
			Subject:     "u-1",
			DisplayName: "Jane Doe",
			Email:       "jane@example.org",
			PersonID:    "12345",
			Roles:       []string{"a", "b"},
		}})

		require.Equal(t, "Jane Doe", h.Get(proxy.HeaderDisplayName))
		require.Equal(t, "a;b;", h.Get(proxy.HeaderRoles))
		require.Equal(t, "jane@example.org", h.Get(proxy.HeaderEmail))
		require.Equal(t, "12345", h.Get(proxy.HeaderID))
	})

	t.Run("machine caller falls back to subject and sentinel email", func(t *testing.T) {
		h := http.Header{}
		proxy.InjectIdentity(h, &grant.Grant{Claims: grant.Claims{
			Subject:   "service-account-x",
			SessionID: "sess-9",
		}})

		require.Equal(t, "service-account-x", h.Get(proxy.HeaderDisplayName))
		require.Equal(t, "api@client", h.Get(proxy.HeaderEmail))
		require.Equal(t, "sess-9", h.Get(proxy.HeaderID))
		require.Equal(t, "", h.Get(proxy.HeaderRoles))
	})

	t.Run("id falls back to subject last", func(t *testing.T) {
		h := http.Header{}
		proxy.InjectIdentity(h, &grant.Grant{Claims: grant.Claims{Subject: "u-7"}})

		require.Equal(t, "u-7", h.Get(proxy.HeaderID))
	})

	t.Run("unresolvable identity skips injection but strips spoofed headers", func(t *testing.T) {
		h := http.Header{}
		h.Set(proxy.HeaderDisplayName, "Mallory")
		h.Set(proxy.HeaderRoles, "admin;")
		h.Set(proxy.HeaderEmail, "mallory@evil.example")
		h.Set(proxy.HeaderID, "0")

		proxy.InjectIdentity(h, &grant.Grant{Claims: grant.Claims{Email: "anon@example.org"}})

		require.Empty(t, h.Get(proxy.HeaderDisplayName))
		require.Empty(t, h.Get(proxy.HeaderRoles))
		require.Empty(t, h.Get(proxy.HeaderEmail))
		require.Empty(t, h.Get(proxy.HeaderID))
	})

	t.Run("nil grant strips spoofed headers", func(t *testing.T) {
		h := http.Header{}
		h.Set(proxy.HeaderDisplayName, "Mallory")

		proxy.InjectIdentity(h, nil)

		require.Empty(t, h.Get(proxy.HeaderDisplayName))
	})

	t.Run("caller-supplied values are overwritten", func(t *testing.T) {
		h := http.Header{}
		h.Set(proxy.HeaderDisplayName, "Mallory")
		h.Set(proxy.HeaderID, "0")

		proxy.InjectIdentity(h, &grant.Grant{Claims: grant.Claims{
			Subject:  "u-1",
			PersonID: "12345",
		}})

		require.Equal(t, "u-1", h.Get(proxy.HeaderDisplayName))
		require.Equal(t, "12345", h.Get(proxy.HeaderID))
	})
}
