package identity

// Token is the bearer credential produced by the external OAuth library for
// one sign-in. It is ephemeral and never persisted.
type Token struct {
	// Token is the access token.
	Token string `json:"token"`

	// Key uniquely identifies the account, e.g. the MSAL home account id.
	Key string `json:"key"`

	// TokenType is typically "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresOn is the access token expiry as a Unix timestamp. Zero when
	// the OAuth library did not report one.
	ExpiresOn int64 `json:"expiresOn,omitempty"`
}
