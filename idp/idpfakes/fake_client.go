package idpfakes

import (
	"context"
	"sync"

	"ssoproxy/grant"
	apperrors "ssoproxy/internal/errors"
)

// FakeClient is an in-memory idp.Client for tests. Authorization codes are
// single-use, mirroring the provider's behavior.
type FakeClient struct {
	mu sync.Mutex

	AuthorizationEndpoint string
	EndSessionEndpoint    string

	// Codes maps a one-time authorization code to the Grant it redeems for.
	Codes map[string]*grant.Grant
	// Tokens maps an active bearer token to the Grant introspection returns.
	Tokens map[string]*grant.Grant

	ExchangeCalls   int
	IntrospectCalls int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		AuthorizationEndpoint: "https://idp.test/protocol/openid-connect/auth",
		Codes:                 make(map[string]*grant.Grant),
		Tokens:                make(map[string]*grant.Grant),
	}
}

func (f *FakeClient) AuthCodeURL(state string) string {
	return f.AuthorizationEndpoint + "?response_type=code&state=" + state
}

func (f *FakeClient) Exchange(_ context.Context, code string) (*grant.Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ExchangeCalls++
	g, ok := f.Codes[code]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationFailed, "unknown or already redeemed code %q", code)
	}
	delete(f.Codes, code)

	copied := *g
	return &copied, nil
}

func (f *FakeClient) Introspect(_ context.Context, accessToken string) (*grant.Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.IntrospectCalls++
	g, ok := f.Tokens[accessToken]
	if !ok {
		return nil, apperrors.ErrTokenInactive
	}

	copied := *g
	return &copied, nil
}

func (f *FakeClient) EndSessionURL(postLogoutRedirectURI string) string {
	if f.EndSessionEndpoint == "" {
		return ""
	}
	return f.EndSessionEndpoint + "?post_logout_redirect_uri=" + postLogoutRedirectURI
}
