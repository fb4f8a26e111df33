// Package apperr defines the closed error taxonomy used across the audit
// pipeline. Errors are values carrying a Kind and an actionable Hint rather
// than ad-hoc wrapped strings, so the CLI can map any failure to the correct
// exit code without string matching.
package apperr

import "fmt"

// Kind identifies the category of a failure.
type Kind string

const (
	KindInput                 Kind = "input"
	KindClone                 Kind = "clone"
	KindCollection            Kind = "collection"
	KindProviderAuth          Kind = "provider.auth"
	KindProviderRateLimit     Kind = "provider.rate_limit"
	KindProviderModelNotFound Kind = "provider.model_not_found"
	KindProviderContextTooBig Kind = "provider.context_too_large"
	KindProviderServer        Kind = "provider.server"
	KindProviderParse         Kind = "provider.parse"
	KindProviderTruncation    Kind = "provider.truncation"
	KindVerificationUnavail   Kind = "verification.unavailable"
)

// ExitCode returns the process exit code for an error of this Kind: 2 for
// every Kind. Exit codes 0 (clean) and 1 (findings retained) come from policy
// evaluation of a completed report, not from an error.
func (k Kind) ExitCode() int {
	switch k {
	case KindInput, KindClone, KindCollection, KindProviderAuth, KindProviderRateLimit,
		KindProviderModelNotFound, KindProviderContextTooBig, KindProviderServer,
		KindProviderParse:
		return 2
	default:
		return 2
	}
}

// Retryable reports whether the error class is retryable in principle. The
// orchestrator does not auto-retry even when true; this only documents
// intent for callers that might.
func (k Kind) Retryable() bool {
	return k == KindProviderRateLimit || k == KindProviderServer
}

// Error is a structured, closed-taxonomy error. It never embeds a raw API
// key: callers must pass only the provider's env var name, never a resolved
// secret value, into Hint or Err.
type Error struct {
	Kind Kind
	Msg  string
	Hint string
	Err  error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Kind, e.Msg, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithHint returns a copy of e with Hint set.
func (e *Error) WithHint(hint string) *Error {
	cp := *e
	cp.Hint = hint
	return &cp
}

// Wrap constructs an Error of the given kind wrapping an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is supports errors.Is matching purely on Kind, so callers can write
// errors.Is(err, apperr.New(apperr.KindInput, "")) to test the category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
