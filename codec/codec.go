// Package codec builds query strings and form bodies and reads query parameters
// back out of redirect targets.
package codec

import (
	"fmt"
	"net/url"
)

// EncodeQuery percent-encodes params as a query string. Keys are emitted in
// sorted order so the output is deterministic.
func EncodeQuery(params map[string]string) string {
	return values(params).Encode()
}

// EncodeForm encodes params as an application/x-www-form-urlencoded body.
func EncodeForm(params map[string]string) string {
	return values(params).Encode()
}

// WithQuery returns a copy of target with params as its query, replacing any
// existing query and fragment.
func WithQuery(target *url.URL, params map[string]string) *url.URL {
	u := *target
	u.RawQuery = EncodeQuery(params)
	u.Fragment = ""
	return &u
}

// ParseQuery parses rawURL and returns its query parameters. Non-HTTP schemes
// such as app://callback are accepted.
func ParseQuery(rawURL string) (url.Values, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("parse query of %q: %w", rawURL, err)
	}
	return q, nil
}

func values(params map[string]string) url.Values {
	v := make(url.Values, len(params))
	for key, value := range params {
		v.Set(key, value)
	}
	return v
}
