// Package transport builds the HTTP clients used by the login flow. The key
// behaviour is redirect interception: a 3xx answer is handed back to the caller
// untouched instead of being followed.
package transport

import (
	"net/http"
	"time"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RedirectPolicy decides what the client does with a 3xx response.
type RedirectPolicy int

const (
	// InterceptRedirects returns 3xx responses to the caller with status and
	// headers unmodified. The Location target is never requested.
	InterceptRedirects RedirectPolicy = iota

	// FollowRedirects keeps net/http's default behaviour.
	FollowRedirects
)

func (p RedirectPolicy) String() string {
	switch p {
	case InterceptRedirects:
		return "intercept"
	case FollowRedirects:
		return "follow"
	}
	return "unknown"
}

// Option configures NewClient.
type Option func(*options)

type options struct {
	policy    RedirectPolicy
	timeout   time.Duration
	base      http.RoundTripper
	logging   bool
	redactKey []string
}

// WithRedirectPolicy overrides the default InterceptRedirects policy.
func WithRedirectPolicy(p RedirectPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRoundTripper replaces http.DefaultTransport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithLogging logs every exchange through zerolog. Query parameters named in
// extraRedacted are masked in addition to the defaults.
func WithLogging(extraRedacted ...string) Option {
	return func(o *options) {
		o.logging = true
		o.redactKey = append(o.redactKey, extraRedacted...)
	}
}

// NewClient returns an *http.Client without a cookie jar that intercepts
// redirects unless configured otherwise.
func NewClient(opts ...Option) *http.Client {
	o := options{policy: InterceptRedirects}
	for _, opt := range opts {
		opt(&o)
	}

	rt := o.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	if o.logging {
		rt = NewLoggingRoundTripper(rt, o.redactKey...)
	}

	c := &http.Client{
		Transport: rt,
		Timeout:   o.timeout,
	}
	return ApplyPolicy(c, o.policy)
}

// Intercepting returns a shallow copy of c with redirect interception active.
// c itself is left untouched so callers can keep sharing it.
func Intercepting(c *http.Client) *http.Client {
	if c == nil {
		c = &http.Client{}
	}
	cp := *c
	return ApplyPolicy(&cp, InterceptRedirects)
}

// WithoutCookies returns a shallow copy of c without a cookie jar, so requests
// sent through it carry no cookies set by earlier responses.
func WithoutCookies(c *http.Client) *http.Client {
	if c == nil {
		c = &http.Client{}
	}
	cp := *c
	cp.Jar = nil
	return &cp
}

// ApplyPolicy sets c's redirect handling in place and returns c.
func ApplyPolicy(c *http.Client, p RedirectPolicy) *http.Client {
	switch p {
	case InterceptRedirects:
		c.CheckRedirect = interceptRedirect
	default:
		c.CheckRedirect = nil
	}
	return c
}

func interceptRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}
