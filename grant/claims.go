package grant

import (
	"encoding/json"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	apperrors "ssoproxy/internal/errors"
	"ssoproxy/internal/utils"
)

// FromAccessToken extracts identity claims from a JWT access token payload.
// The token is NOT verified locally: trust comes from having obtained it
// through the provider's token or introspection endpoint.
func FromAccessToken(raw string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Claims{}, apperrors.Wrapf(apperrors.ErrInvalidToken, "parsing access token claims (%v)", err)
	}
	return FromClaimMap(claims), nil
}

// FromClaimMap maps a raw claim set (token payload or introspection response)
// onto Claims. Provider-specific claim names are tried first, then their
// generic equivalents; anything absent stays zero.
func FromClaimMap(m map[string]any) Claims {
	return Claims{
		Subject:     stringClaim(m, "sub"),
		DisplayName: stringClaim(m, "name"),
		Email:       stringClaim(m, "email"),
		PersonID:    stringClaim(m, "cern_person_id", "person_id"),
		SessionID:   stringClaim(m, "sid"),
		Roles:       sliceClaim(m, "cern_roles", "roles"),
	}
}

func stringClaim(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			// Some providers issue numeric person ids.
			return strconv.FormatInt(int64(v), 10)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func sliceClaim(m map[string]any, keys ...string) []string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case []any:
			return utils.ToStringSlice(v)
		case []string:
			return v
		}
	}
	return nil
}
