package oauthmodel

import "strings"

// AuthorizationParameters are the query parameters of the /authorize request
// that redeems a session token for an authorization code.
type AuthorizationParameters struct {
	// ClientID identifies the application requesting authorization.
	ClientID string

	// ResponseType is always "code" for this flow.
	ResponseType ResponseType

	// Scope is space separated, e.g. "openid offline_access".
	Scope string

	// RedirectURI must exactly match a URI registered for the client. It is
	// usually an app scheme (app://callback) that is never fetched.
	RedirectURI string

	// State is an anti-replay value; the server echoes it in the redirect.
	State string

	// CodeChallenge is BASE64URL(SHA256(code_verifier)).
	CodeChallenge string

	// CodeChallengeMethod is "S256".
	CodeChallengeMethod CodeMethodType

	// SessionToken comes from primary authentication and lets the server skip its login page.
	SessionToken string
}

// Validate checks that every parameter the flow depends on is present.
func (p AuthorizationParameters) Validate() error {
	switch {
	case strings.TrimSpace(p.ClientID) == "":
		return ErrMissingClientID
	case strings.TrimSpace(p.RedirectURI) == "":
		return ErrMissingRedirectURI
	case p.ResponseType != CodeResponseType:
		return ErrInvalidResponseType
	case p.CodeChallengeMethod != CodeMethodTypeS256:
		return ErrInvalidCodeChallengeMethod
	case p.CodeChallenge == "":
		return ErrInvalidCodeChallenge
	case p.SessionToken == "":
		return ErrMissingSessionToken
	}
	return nil
}

// Query returns the parameters keyed by their wire names.
func (p AuthorizationParameters) Query() map[string]string {
	return map[string]string{
		"client_id":             p.ClientID,
		"response_type":         string(p.ResponseType),
		"scope":                 p.Scope,
		"redirect_uri":          p.RedirectURI,
		"state":                 p.State,
		"code_challenge_method": string(p.CodeChallengeMethod),
		"code_challenge":        p.CodeChallenge,
		"sessionToken":          p.SessionToken,
	}
}
