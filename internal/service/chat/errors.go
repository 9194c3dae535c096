package chat

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures for the transport layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindCollaborator Kind = "collaborator"
	KindBadRequest   Kind = "bad_request"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrAmbiguousInput   = errors.New("provide exactly one of message or questionResponse")
)

// Error is the typed failure returned by the engine. Reason is safe to show
// to end users; Err carries the underlying cause.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("chat: %s (%s)", e.Kind, e.Reason)
	}
	return fmt.Sprintf("chat: %s (%s): %v", e.Kind, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
