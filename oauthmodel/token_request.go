package oauthmodel

// TokenRequest holds the form fields of the authorization code exchange.
type TokenRequest struct {
	// GrantType is "authorization_code".
	GrantType GrantType

	// ClientID identifies the public client; no secret is sent.
	ClientID string

	// RedirectURI must equal the one sent to /authorize.
	RedirectURI string

	// Code is the authorization code taken from the redirect.
	Code string

	// CodeVerifier is the PKCE verifier whose S256 hash was sent as code_challenge.
	CodeVerifier string
}

// Form returns the fields keyed by their wire names.
func (r TokenRequest) Form() map[string]string {
	return map[string]string{
		"grant_type":    string(r.GrantType),
		"client_id":     r.ClientID,
		"redirect_uri":  r.RedirectURI,
		"code":          r.Code,
		"code_verifier": r.CodeVerifier,
	}
}
