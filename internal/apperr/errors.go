// Package apperr defines the error taxonomy shared by the domain packages.
// Handlers translate a Kind into an HTTP status; callers match concrete
// failures with errors.Is against the sentinel values declared next to the
// code that returns them.
package apperr

import "errors"

// Kind classifies a failure independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified failure with a machine-readable code.
// Message is safe to show to API clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a classified error. Sentinel errors are declared with New at
// package level and compared by identity.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf reports the Kind of the first *Error in err's chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As returns the first *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
