package service

import (
	"errors"
)

// Kind classifies workflow failures. The HTTP layer maps kinds to status
// codes; services never pick status codes themselves.
type Kind string

const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindInvalidSeatCount Kind = "invalid_seat_count"
	KindInvalidArgument  Kind = "invalid_argument"
	KindInternal         Kind = "internal"
)

// Error is a typed workflow failure. msg is safe to show to callers; err
// carries the underlying cause for logs and errors.Is checks.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	switch {
	case e.err == nil && e.msg == "":
		return string(e.Kind)
	case e.err == nil:
		return e.msg
	case e.msg == "" || e.msg == e.err.Error():
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

// Message returns the caller-facing text without the wrapped cause.
func (e *Error) Message() string {
	if e.msg == "" {
		return string(e.Kind)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is matches the bare kind sentinels below, so errors.Is(err, ErrNotFound)
// holds for any NotFound error regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg != "" || t.err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrInvalidSeatCount = &Error{Kind: KindInvalidSeatCount}
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrInternal         = &Error{Kind: KindInternal}
)

// Specific causes, wrapped inside an *Error of the matching kind.
var (
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrNoActivePlan        = errors.New("workspace does not have an active subscription")
	ErrMemberNotFound      = errors.New("member not found")
	ErrAlreadyMember       = errors.New("email is already a member of this workspace")
	ErrNotAdmin            = errors.New("requires admin role in this workspace")
	ErrNotWorkspaceMember  = errors.New("not a member of this workspace")
	ErrInviteEmailMismatch = errors.New("invitation was sent to a different email")
)

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
