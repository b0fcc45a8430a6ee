package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure so handlers can pick the user-facing recovery.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: input does not match the expected step shape. Re-prompt.
	KindValidation
	// KindConflict: a unique key already exists. Retry just the offending field.
	KindConflict
	// KindPersistence: the store failed. Generic failure with the detail.
	KindPersistence
	// KindAuthorization: caller lacks the admin or owner role.
	KindAuthorization
	// KindNotFound: the referenced entity is gone.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified error. Msg is safe to show to the user.
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
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrPersistence   = &Error{Kind: KindPersistence}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrNotFound      = &Error{Kind: KindNotFound}
)

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Persistence(err error, msg string) error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

func Authorization(msg string) error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing text of a classified error, or err.Error().
func Message(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Detail returns the text of the cause behind a classified error, or "" when it
// has none.
func Detail(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Is and As re-export the standard library helpers so callers that import this
// package as "errors" keep the usual API.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }
