package oauthmodel

// ResponseType represents the OAuth 2.0 response type.
// Determines what is returned from the authorization endpoint.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// The authorization endpoint answers with a redirect whose query carries the code.
	CodeResponseType ResponseType = "code"
)

// CodeMethodType represents the PKCE (Proof Key for Code Exchange) challenge method.
type CodeMethodType string

const (
	// CodeMethodTypeS256 indicates SHA-256 hashing is used for the code challenge.
	// Client sends: code_challenge = BASE64URL(SHA256(code_verifier))
	// Server validates: SHA256(provided code_verifier) == stored code_challenge
	CodeMethodTypeS256 CodeMethodType = "S256"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Token request includes: code, client_id, redirect_uri, code_verifier
	AuthorizationCodeGrant GrantType = "authorization_code"
)

const (
	// ScopeOpenID requests an ID token.
	ScopeOpenID = "openid"
	// ScopeOfflineAccess requests a refresh token alongside the access token.
	ScopeOfflineAccess = "offline_access"

	// DefaultScope is the scope requested by the login flow.
	DefaultScope = ScopeOpenID + " " + ScopeOfflineAccess
)
