package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"ssoproxy/grant"
	"ssoproxy/internal/config"
	apperrors "ssoproxy/internal/errors"
)

// Client is the narrow interface the auth gate needs from the identity
// provider: building the authorization redirect, completing the code
// exchange, validating bearer tokens and ending sessions. The provider
// itself (authorization, token, introspection, logout endpoints) is an
// external collaborator; its responses are trusted as-is.
type Client interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*grant.Grant, error)
	Introspect(ctx context.Context, accessToken string) (*grant.Grant, error)
	EndSessionURL(postLogoutRedirectURI string) string
}

// OIDCClient implements Client against any OIDC provider supporting
// discovery, e.g. Keycloak.
type OIDCClient struct {
	provider      *oidc.Provider
	oauth2Config  *oauth2.Config
	verifier      *oidc.IDTokenVerifier
	introspection string
	endSession    string
	httpClient    *http.Client
}

// providerClaims are the discovery-document fields not surfaced by
// oidc.Provider directly.
type providerClaims struct {
	IntrospectionEndpoint string `json:"introspection_endpoint"`
	EndSessionEndpoint    string `json:"end_session_endpoint"`
}

var _ Client = (*OIDCClient)(nil)

// NewOIDCClient discovers the provider's endpoints from the issuer's
// .well-known configuration and prepares the OAuth2 code-flow config.
func NewOIDCClient(ctx context.Context, cfg config.OAuthConfig, callbackPath string) (*OIDCClient, error) {
	provider, err := oidc.NewProvider(ctx, cfg.GetIssuerURL())
	if err != nil {
		return nil, fmt.Errorf("[idp NewOIDCClient] provider discovery: %w", err)
	}

	var extra providerClaims
	if err := provider.Claims(&extra); err != nil {
		return nil, fmt.Errorf("[idp NewOIDCClient] provider claims: %w", err)
	}

	return &OIDCClient{
		provider: provider,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			Endpoint:     provider.Endpoint(),
			RedirectURL:  strings.TrimSuffix(cfg.GetGatewayURL(), "/") + callbackPath,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{
			ClientID: cfg.GetClientID(),
		}),
		introspection: extra.IntrospectionEndpoint,
		endSession:    extra.EndSessionEndpoint,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// AuthCodeURL builds the provider authorization redirect for a browser
// challenge.
func (c *OIDCClient) AuthCodeURL(state string) string {
	return c.oauth2Config.AuthCodeURL(state)
}

// Exchange completes the authorization-code exchange and produces a Grant.
// Claims are read from the access-token payload, the way the upstream apps
// expect them; when the provider also returns an ID token it is verified so
// a tampered exchange response cannot slip through.
func (c *OIDCClient) Exchange(ctx context.Context, code string) (*grant.Grant, error) {
	token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationFailed, "code exchange rejected (%v)", err)
	}

	claims, err := grant.FromAccessToken(token.AccessToken)
	if err != nil {
		return nil, err
	}

	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		idToken, err := c.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrAuthenticationFailed, "ID token verification (%v)", err)
		}
		idClaims := map[string]any{}
		if err := idToken.Claims(&idClaims); err == nil {
			claims = mergeClaims(claims, grant.FromClaimMap(idClaims))
		}
	}

	return &grant.Grant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Claims:       claims,
	}, nil
}

// Introspect validates a bearer token against the provider's introspection
// endpoint (RFC 7662) and synthesizes an ephemeral Grant from the response.
// No session is created for this path.
func (c *OIDCClient) Introspect(ctx context.Context, accessToken string) (*grant.Grant, error) {
	if c.introspection == "" {
		return nil, apperrors.Wrapf(apperrors.ErrConfigurationMissing, "provider advertises no introspection endpoint")
	}

	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspection, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("[idp Introspect] building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.oauth2Config.ClientID, c.oauth2Config.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationFailed, "introspection call (%v)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationFailed, "introspection status %d", resp.StatusCode)
	}

	raw := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationFailed, "decoding introspection response (%v)", err)
	}

	if active, _ := raw["active"].(bool); !active {
		return nil, apperrors.ErrTokenInactive
	}

	return &grant.Grant{
		AccessToken: accessToken,
		Claims:      grant.FromClaimMap(raw),
	}, nil
}

// EndSessionURL builds the provider logout URL, or "" when the provider
// advertises no end-session endpoint.
func (c *OIDCClient) EndSessionURL(postLogoutRedirectURI string) string {
	if c.endSession == "" {
		return ""
	}
	query := url.Values{
		"client_id": {c.oauth2Config.ClientID},
	}
	if postLogoutRedirectURI != "" {
		query.Set("post_logout_redirect_uri", postLogoutRedirectURI)
	}
	return c.endSession + "?" + query.Encode()
}

// mergeClaims fills gaps in the access-token claims from the verified ID
// token. Access-token values win because role claims typically live only
// there.
func mergeClaims(primary, secondary grant.Claims) grant.Claims {
	if primary.Subject == "" {
		primary.Subject = secondary.Subject
	}
	if primary.DisplayName == "" {
		primary.DisplayName = secondary.DisplayName
	}
	if primary.Email == "" {
		primary.Email = secondary.Email
	}
	if primary.PersonID == "" {
		primary.PersonID = secondary.PersonID
	}
	if primary.SessionID == "" {
		primary.SessionID = secondary.SessionID
	}
	if len(primary.Roles) == 0 {
		primary.Roles = secondary.Roles
	}
	return primary
}
