package config

import "strings"

// Okta holds the authorization server settings. BaseURL is the org URL, e.g.
// "https://example.oktapreview.com"; endpoint paths are appended by the client.
type Okta struct {
	BaseURL       string `env:"OKTA_BASE_URL"`
	ClientID      string `env:"OKTA_CLIENT_ID"`
	RedirectURI   string `env:"OKTA_REDIRECT_URI"`
	Username      string `env:"OKTA_USERNAME"`
	Password      string `env:"OKTA_PASSWORD"`
	VerifyIDToken bool   `env:"VERIFY_ID_TOKEN" envDefault:"false"`
}

var _ OktaConfig = Okta{}

func (o Okta) GetBaseURL() string {
	return strings.TrimRight(o.BaseURL, "/")
}

func (o Okta) GetClientID() string {
	return o.ClientID
}

func (o Okta) GetRedirectURI() string {
	return o.RedirectURI
}

func (o Okta) GetUsername() string {
	return o.Username
}

func (o Okta) GetPassword() string {
	return o.Password
}

func (o Okta) GetVerifyIDToken() bool {
	return o.VerifyIDToken
}
