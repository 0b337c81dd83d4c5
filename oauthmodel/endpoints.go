package oauthmodel

import (
	"fmt"
	"net/url"
	"strings"
)

// Paths of the Okta endpoints used by the login flow, relative to the org base URL.
const (
	AuthnPath     = "/api/v1/authn"
	IssuerPath    = "/oauth2/default"
	AuthorizePath = IssuerPath + "/v1/authorize"
	TokenPath     = IssuerPath + "/v1/token"
	KeysPath      = IssuerPath + "/v1/keys"
	DiscoveryPath = IssuerPath + "/.well-known/openid-configuration"
)

// Endpoints resolves endpoint URLs against an org base URL.
type Endpoints struct {
	base *url.URL
}

// NewEndpoints parses baseURL, which must be an absolute http(s) URL.
func NewEndpoints(baseURL string) (Endpoints, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return Endpoints{}, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoints{}, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return Endpoints{}, fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return Endpoints{base: u}, nil
}

// Base returns a copy of the org base URL.
func (e Endpoints) Base() *url.URL {
	u := *e.base
	return &u
}

// URL returns the base URL with path appended to its own path.
func (e Endpoints) URL(path string) *url.URL {
	u := e.Base()
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	return u
}

func (e Endpoints) resolve(path string) string {
	return e.URL(path).String()
}

func (e Endpoints) Authn() string     { return e.resolve(AuthnPath) }
func (e Endpoints) Authorize() string { return e.resolve(AuthorizePath) }
func (e Endpoints) Token() string     { return e.resolve(TokenPath) }

// Issuer is the identifier of the default custom authorization server, used to
// discover keys for ID token verification.
func (e Endpoints) Issuer() string { return e.resolve(IssuerPath) }
