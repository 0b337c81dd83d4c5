package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every *Error wraps exactly one of them, so callers can test the
// kind with errors.Is.
var (
	ErrTransport    = errors.New("transport error")
	ErrProtocol     = errors.New("protocol error")
	ErrParse        = errors.New("parse error")
	ErrRedirect     = errors.New("redirect error")
	ErrVerification = errors.New("id token verification failed")
)

var (
	ErrInvalidConfig  = errors.New("invalid session configuration")
	ErrAlreadyStarted = errors.New("login already started")

	errLoginFailed = errors.New("login failed")
)

const maxDiagnosticBody = 2048

// Error is the terminal failure of a login flow.
type Error struct {
	// Kind is one of ErrTransport, ErrProtocol, ErrParse, ErrRedirect, ErrVerification.
	Kind error

	// Stage is the stage whose entry action failed.
	Stage Stage

	// Status is the HTTP status when a response was received, otherwise 0.
	Status int

	// Body is the response body text, truncated, for diagnostics.
	Body string

	// Reason is the human readable failure description.
	Reason string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage.step())
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Body != "" {
		b.WriteString("\n")
		b.WriteString(e.Body)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func transportError(stage Stage, cause error) *Error {
	return &Error{Kind: ErrTransport, Stage: stage, Reason: "request failed", Cause: cause}
}

func protocolError(stage Stage, status int, body []byte, detail string) *Error {
	reason := fmt.Sprintf("unexpected status code (%d)", status)
	if detail != "" {
		reason = fmt.Sprintf("%s: %s", reason, detail)
	}
	return &Error{Kind: ErrProtocol, Stage: stage, Status: status, Body: diagnosticBody(body), Reason: reason}
}

func parseError(stage Stage, status int, body []byte, reason string, cause error) *Error {
	return &Error{Kind: ErrParse, Stage: stage, Status: status, Body: diagnosticBody(body), Reason: reason, Cause: cause}
}

func redirectError(status int, reason string, cause error) *Error {
	return &Error{Kind: ErrRedirect, Stage: StageSessionTokenReceived, Status: status, Reason: reason, Cause: cause}
}

func diagnosticBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxDiagnosticBody {
		s = s[:maxDiagnosticBody] + "..."
	}
	return s
}
