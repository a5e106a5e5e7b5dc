package proxy

import (
	"net/http"
	"strings"

	"ssoproxy/grant"
)

// Identity headers injected on forwarded requests. Downstream apps key on
// these exact names.
const (
	HeaderDisplayName = "displayname"
	// TODO: maybe rename to "roles" at some point; the receiving client
	// apps must change in lockstep.
	HeaderRoles = "egroups"
	HeaderEmail = "email"
	HeaderID    = "id"
)

// fallbackEmail keeps the email header non-empty for machine callers whose
// grant carries no email claim.
const fallbackEmail = "api@client"

// FormatRoles joins roles with a ';' after each entry, preserving order:
// ["a","b"] -> "a;b;". An empty role list yields "".
func FormatRoles(roles []string) string {
	var b strings.Builder
	for _, role := range roles {
		b.WriteString(role)
		b.WriteString(";")
	}
	return b.String()
}

// InjectIdentity sets the identity headers from g on an outbound request.
// Caller-supplied values of the same names are always removed first so a
// client can never spoof its identity, even when injection is skipped.
// Injection is skipped entirely when the grant resolves no usable identity
// (neither display name nor subject); such requests proceed upstream without
// identity headers to keep anonymous bearer flows working.
func InjectIdentity(h http.Header, g *grant.Grant) {
	h.Del(HeaderDisplayName)
	h.Del(HeaderRoles)
	h.Del(HeaderEmail)
	h.Del(HeaderID)

	if g == nil || !g.Claims.Identified() {
		return
	}
	claims := g.Claims

	displayName := claims.DisplayName
	if displayName == "" {
		displayName = claims.Subject
	}

	email := claims.Email
	if email == "" {
		email = fallbackEmail
	}

	id := claims.PersonID
	if id == "" {
		id = claims.SessionID
	}
	if id == "" {
		id = claims.Subject
	}

	h.Set(HeaderDisplayName, displayName)
	h.Set(HeaderRoles, FormatRoles(claims.Roles))
	h.Set(HeaderEmail, email)
	h.Set(HeaderID, id)
}
