package oauthmodel

import (
	"errors"
	"strings"
)

var (
	ErrInvalidBaseURL             = errors.New("invalid base url")
	ErrMissingClientID            = errors.New("missing client id")
	ErrMissingRedirectURI         = errors.New("missing redirect uri")
	ErrMissingSessionToken        = errors.New("missing session token")
	ErrInvalidCodeChallenge       = errors.New("invalid code challenge")
	ErrInvalidCodeChallengeMethod = errors.New("invalid code challenge method")
	ErrInvalidResponseType        = errors.New("unsupported response type")
)

// ErrorResponse covers both error body shapes the server produces: OAuth 2.0
// errors from the /oauth2 endpoints and Okta API errors from /api/v1.
type ErrorResponse struct {
	// OAuth 2.0 (RFC 6749 §5.2)
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`

	// Okta API
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorSummary string `json:"errorSummary,omitempty"`
}

// Describe returns a one line summary, or "" when no error fields are set.
func (e ErrorResponse) Describe() string {
	var parts []string
	if e.Error != "" {
		parts = append(parts, e.Error)
	}
	if e.ErrorDescription != "" {
		parts = append(parts, e.ErrorDescription)
	}
	if e.ErrorCode != "" {
		parts = append(parts, e.ErrorCode)
	}
	if e.ErrorSummary != "" {
		parts = append(parts, e.ErrorSummary)
	}
	return strings.Join(parts, ": ")
}
