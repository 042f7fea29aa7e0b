package domain

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindInvalidStateTransition
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidStateTransition:
		return "INVALID_STATE_TRANSITION"
	case KindConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Error is returned when business rules or the store reject an operation.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewInvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

func NewInvalidArgumentf(format string, args ...any) *Error {
	return NewInvalidArgument(fmt.Sprintf(format, args...))
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewNotFoundf(format string, args ...any) *Error {
	return NewNotFound(fmt.Sprintf(format, args...))
}

func NewInvalidTransition(message string) *Error {
	return &Error{Kind: KindInvalidStateTransition, Message: message}
}

func NewInvalidTransitionf(format string, args ...any) *Error {
	return NewInvalidTransition(fmt.Sprintf(format, args...))
}

func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf unwraps err and reports its kind, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
