package config

const (
	issuerURLVar    = "AUTH_SERVER_URL"
	clientIDVar     = "CLIENT_ID"
	clientSecretVar = "CLIENT_SECRET"
	gatewayURLVar   = "GATEWAY_URL"
)

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetIssuerURL returns the OIDC issuer, e.g. "https://auth.example.org/auth/realms/main".
// The provider's endpoints are discovered from its .well-known configuration.
func (OAuth) GetIssuerURL() string {
	return GetEnv(issuerURLVar, "")
}

func (OAuth) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

// GetGatewayURL returns the externally visible base URL of this proxy,
// used to build the OAuth callback redirect URI.
func (OAuth) GetGatewayURL() string {
	return GetEnv(gatewayURLVar, "http://localhost:8080")
}
