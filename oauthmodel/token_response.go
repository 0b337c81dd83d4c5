package oauthmodel

// TokenResponse represents the response from an OAuth2 token request (RFC 6749 §5.1).
// The required tokens are pointers so a missing field can be told apart from an empty one.
type TokenResponse struct {
	// AccessToken is used to call protected resources.
	// Usage: "Authorization: Bearer <access_token>"
	AccessToken *string `json:"access_token,omitempty"`

	// IdToken is the OpenID Connect ID token describing the authenticated user.
	// Only present when the "openid" scope was requested.
	IdToken *string `json:"id_token,omitempty"`

	// TokenType indicates how to use the access token (normally "Bearer").
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken is present when "offline_access" was granted. This client
	// passes it through and never uses it.
	RefreshToken *string `json:"refresh_token,omitempty"`

	// Scope is the granted scope, which may be narrower than requested.
	Scope string `json:"scope,omitempty"`
}
