package transport

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultRedactedParams are query parameters whose values never reach the log.
var DefaultRedactedParams = []string{
	"sessionToken",
	"code",
	"code_challenge",
	"code_verifier",
	"state",
	"access_token",
	"id_token",
}

// LoggingRoundTripper logs method, redacted URL, status and latency of each
// exchange. Bodies and headers are never logged.
type LoggingRoundTripper struct {
	next   http.RoundTripper
	redact map[string]struct{}
}

// NewLoggingRoundTripper wraps next.
func NewLoggingRoundTripper(next http.RoundTripper, extraRedacted ...string) *LoggingRoundTripper {
	redact := make(map[string]struct{}, len(DefaultRedactedParams)+len(extraRedacted))
	for _, k := range DefaultRedactedParams {
		redact[k] = struct{}{}
	}
	for _, k := range extraRedacted {
		redact[k] = struct{}{}
	}
	return &LoggingRoundTripper{next: next, redact: redact}
}

func (l *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.next.RoundTrip(req)
	elapsed := time.Since(start)

	target := l.RedactURL(req.URL)
	if err != nil {
		log.Err(err).
			Str("method", req.Method).
			Str("url", target).
			Dur("elapsed", elapsed).
			Msg("http request failed")
		return nil, err
	}

	ev := log.Debug().
		Str("method", req.Method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed)
	if loc := resp.Header.Get("Location"); loc != "" {
		ev = ev.Str("location", l.redactRaw(loc))
	}
	ev.Msg("http exchange")
	return resp, nil
}

// RedactURL renders u with sensitive query values replaced by "REDACTED".
func (l *LoggingRoundTripper) RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	cp := *u
	cp.User = nil
	q := cp.Query()
	for k := range q {
		if _, ok := l.redact[k]; ok {
			q.Set(k, "REDACTED")
		}
	}
	cp.RawQuery = q.Encode()
	return cp.String()
}

func (l *LoggingRoundTripper) redactRaw(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "unparsable"
	}
	return l.RedactURL(u)
}
