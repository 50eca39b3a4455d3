package errs

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a core operation can return. Handlers map
// kinds to HTTP statuses; nothing below the handler layer renders a response.
type Kind int

const (
	Internal Kind = iota
	NotFound
	PermissionDenied
	Unavailable
	Conflict
	Invalid
	Timeout
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case PermissionDenied:
		return "permission_denied"
	case Unavailable:
		return "unavailable"
	case Conflict:
		return "conflict"
	case Invalid:
		return "invalid"
	case Timeout:
		return "timeout"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg == "" {
			return e.Err.Error()
		}
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a typed error. args may contain a message string and/or a wrapped
// error, in any order.
func E(kind Kind, args ...interface{}) error {
	e := &Error{Kind: kind}
	for _, a := range args {
		switch v := a.(type) {
		case string:
			e.Msg = v
		case error:
			e.Err = v
		}
	}
	if e.Msg == "" && e.Err == nil {
		e.Msg = kind.String()
	}
	return e
}

// Ef builds a typed error with a formatted message.
func Ef(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err, or Internal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
