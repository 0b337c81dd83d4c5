package auth

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-okta-login/token"
	"github.com/jrsteele09/go-okta-login/transport"
	"github.com/rs/zerolog"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHTTPClient sets the transport. An *http.Client is copied and redirect
// interception is applied to the copy; its cookie jar serves the first two
// requests but never the token exchange. Any other Doer is used as is and must
// neither follow redirects nor add cookies itself.
func WithHTTPClient(d transport.Doer) SessionOption {
	return func(s *Session) {
		s.client, s.tokenClient = d, d
		if c, ok := d.(*http.Client); ok {
			s.client = transport.Intercepting(c)
			s.tokenClient = transport.WithoutCookies(s.client.(*http.Client))
		}
	}
}

// WithIDTokenVerifier verifies the ID token after the token exchange. A token
// that fails verification fails the login.
func WithIDTokenVerifier(v token.Verifier) SessionOption {
	return func(s *Session) {
		s.verifier = v
	}
}

// WithStateCheck rejects an authorization redirect whose echoed state differs
// from the one sent.
func WithStateCheck() SessionOption {
	return func(s *Session) {
		s.strictState = true
	}
}

// WithExecutor sets where the result callback runs. Defaults to InlineExecutor.
func WithExecutor(e Executor) SessionOption {
	return func(s *Session) {
		if e != nil {
			s.executor = e
		}
	}
}

// WithLogger replaces the global zerolog logger for this session.
func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) SessionOption {
	return func(s *Session) {
		s.nowTime = nowFunc
	}
}
