package service

import "errors"

// ErrorKind classifies the failures the service surfaces to callers.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindResourceNotFound
	KindDatabase
)

func (k ErrorKind) String() string {
	switch k {
	case KindResourceNotFound:
		return "resource_not_found"
	case KindDatabase:
		return "database_error"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is against any *Error of the same kind.
var (
	ErrResourceNotFound = &Error{Kind: KindResourceNotFound, Message: "resource not found"}
	ErrDatabase         = &Error{Kind: KindDatabase, Message: "integrity violation"}
)

// Error is a classified service failure. Err keeps the store error it was
// translated from.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
