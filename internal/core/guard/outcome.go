package guard

import (
	"hermes/internal/core/apperror"
)

// Kind tags the classified result of one guarded call.
type Kind int

const (
	KindSuccess Kind = iota
	KindNotFound
	KindConflict
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "failure"
	}
}

// Classify maps an error returned by a repository to its Kind.
// Order matters: not found is checked before conflict, anything unrecognised is a failure.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case apperror.IsNotFound(err):
		return KindNotFound
	case apperror.IsConflict(err):
		return KindConflict
	default:
		return KindFailure
	}
}

// Outcome is the tagged result produced by Run.
type Outcome[T any] struct {
	Kind  Kind
	Value T

	// Err is the error after the policy translated it; nil on success.
	Err error

	// Cause is the error exactly as the repository returned it.
	Cause error
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool {
	return o.Kind == KindSuccess
}

// Unwrap returns the value and the translated error in Go's usual shape.
func (o Outcome[T]) Unwrap() (T, error) {
	return o.Value, o.Err
}
