package fire

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers (and the CLI's exit-code mapping)
// can react without string-matching messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidSpec
	KindNotFound
	KindAlreadyExists
	KindInvalidState
	KindTimeout
	KindSystem
	KindBusy
	KindPermissionDenied
	KindControllerUnavailable
	KindMountFailed
	KindNamespaceFailed
	KindUserMappingRequired
	KindSeccompFailed
	KindPivotFailed
	KindExecFailed
	KindCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSpec:
		return "invalid-spec"
	case KindNotFound:
		return "not-found"
	case KindAlreadyExists:
		return "already-exists"
	case KindInvalidState:
		return "invalid-state"
	case KindTimeout:
		return "timeout"
	case KindSystem:
		return "system"
	case KindBusy:
		return "busy"
	case KindPermissionDenied:
		return "permission-denied"
	case KindControllerUnavailable:
		return "controller-unavailable"
	case KindMountFailed:
		return "mount-failed"
	case KindNamespaceFailed:
		return "namespace-failed"
	case KindUserMappingRequired:
		return "user-mapping-required"
	case KindSeccompFailed:
		return "seccomp-failed"
	case KindPivotFailed:
		return "pivot-failed"
	case KindExecFailed:
		return "exec-failed"
	case KindCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Error is the runtime's error type. Op names the failing operation
// ("create", "mountplan.Apply"), Path carries the most relevant path or
// container ID, and Err wraps the underlying cause when there is one.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	var b []byte
	b = append(b, e.Op...)
	if e.Path != "" {
		b = append(b, ": "...)
		b = append(b, e.Path...)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf walks err's Unwrap chain looking for a *Error and returns its
// Kind, or KindUnknown if none is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Errorf(kind Kind, op, path, format string, a ...any) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, a...)}
}
