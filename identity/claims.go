package identity

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the decoded ID-token payload.
// https://learn.microsoft.com/azure/active-directory/develop/id-tokens
type TokenClaims struct {
	// Audience identifies the intended recipient of the token.
	Audience string `json:"aud"`

	// Issuer identifies the authorization server that constructed the
	// token, including the tenant the user authenticated against. v2.0
	// issuers end in /v2.0.
	Issuer string `json:"iss"`

	// IssuedAt is when the authentication for this token occurred.
	IssuedAt int64 `json:"iat"`

	// IdentityProvider records the provider that authenticated the subject.
	// "live.com" marks a personal Microsoft account used in an
	// organizational context.
	IdentityProvider string `json:"idp"`

	// NotBefore is the time before which the token must not be accepted.
	NotBefore int64 `json:"nbf"`

	// ExpiresAt is the expiration time of the token.
	ExpiresAt int64 `json:"exp"`

	HomeObjectID string `json:"home_oid,omitempty"`
	CodeHash     string `json:"c_hash,omitempty"`
	AccessHash   string `json:"at_hash,omitempty"`

	// PreferredUsername is the mutable primary username. v2.0 tokens only.
	PreferredUsername string `json:"preferred_username"`

	// Email is present for guest accounts with an email address, or when
	// the email claim/scope was requested.
	Email string `json:"email"`

	// Name is a human-readable display value, not guaranteed unique.
	Name string `json:"name"`

	Nonce string `json:"nonce"`

	// ObjectID is the immutable identifier of the user in the Microsoft
	// identity system.
	ObjectID string `json:"oid"`

	Roles []string `json:"roles,omitempty"`

	// Subject is the pairwise immutable principal identifier.
	Subject string `json:"sub"`

	// TenantID is the tenant the user is signing in to. Absent for some
	// personal-account tokens.
	TenantID string `json:"tid"`

	// UniqueName is the v1.0 display username.
	UniqueName string `json:"unique_name"`

	TokenID string `json:"uti"`

	// Version indicates the version of the ID token.
	Version string `json:"ver"`
}

// ParseClaims decodes the payload of a raw ID token without verifying its
// signature. Verification is the OAuth library's responsibility; azurekit
// only reads claims the library already validated.
func ParseClaims(rawIDToken string) (*TokenClaims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, mapClaims); err != nil {
		return nil, fmt.Errorf("decode id token: %w", err)
	}

	payload, err := json.Marshal(mapClaims)
	if err != nil {
		return nil, fmt.Errorf("re-encode id token claims: %w", err)
	}
	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("map id token claims: %w", err)
	}
	return &claims, nil
}
