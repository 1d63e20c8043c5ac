package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch with errors.Is instead of
// matching on message text.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindInvalidTransition Kind = "invalid_transition"
	KindInactive          Kind = "inactive"
	KindNoPractitioner    Kind = "no_practitioner"
	KindAccessDenied      Kind = "access_denied"
	KindStorage           Kind = "storage"
)

// Sentinels for errors.Is comparisons.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrSlotUnavailable   = &Error{Kind: KindSlotUnavailable}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrInactive          = &Error{Kind: KindInactive}
	ErrNoPractitioner    = &Error{Kind: KindNoPractitioner}
	ErrAccessDenied      = &Error{Kind: KindAccessDenied}
	ErrStorage           = &Error{Kind: KindStorage}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func AccessDenied(format string, args ...any) *Error {
	return New(KindAccessDenied, format, args...)
}

func Storage(err error, format string, args ...any) *Error {
	return Wrap(KindStorage, err, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or KindStorage
// for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}
