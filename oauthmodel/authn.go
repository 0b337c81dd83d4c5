package oauthmodel

// DefaultRelayState is the opaque value echoed through primary authentication.
const DefaultRelayState = "test"

// AuthnStatusSuccess is the transaction status that accompanies a session token.
const AuthnStatusSuccess = "SUCCESS"

// AuthnRequest is the body of POST /api/v1/authn.
type AuthnRequest struct {
	Username   string       `json:"username"`
	Password   string       `json:"password"`
	RelayState string       `json:"relayState"`
	Options    AuthnOptions `json:"options"`
}

// AuthnOptions disables the interactive enrolment and password-expiry prompts,
// which this client cannot complete.
type AuthnOptions struct {
	MultiOptionalFactorEnroll bool `json:"multiOptionalFactorEnroll"`
	WarnBeforePasswordExpired bool `json:"warnBeforePasswordExpired"`
}

// NewAuthnRequest builds the primary authentication body for a username and password.
func NewAuthnRequest(username, password string) AuthnRequest {
	return AuthnRequest{
		Username:   username,
		Password:   password,
		RelayState: DefaultRelayState,
		Options: AuthnOptions{
			MultiOptionalFactorEnroll: false,
			WarnBeforePasswordExpired: false,
		},
	}
}

// AuthnResponse is the subset of the authentication transaction this client reads.
// SessionToken is only present when Status is SUCCESS.
type AuthnResponse struct {
	// SessionToken is a one-time token exchanged at /authorize for an authorization code.
	SessionToken *string `json:"sessionToken,omitempty"`

	// Status is the transaction state, e.g. SUCCESS, MFA_REQUIRED, LOCKED_OUT.
	Status string `json:"status,omitempty"`

	// ExpiresAt is when the session token stops being redeemable.
	ExpiresAt string `json:"expiresAt,omitempty"`

	// RelayState echoes the request's relay state.
	RelayState string `json:"relayState,omitempty"`
}
