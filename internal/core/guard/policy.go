package guard

import (
	"hermes/internal/core/apperror"
)

// Policy decides what a classified failure looks like to the caller of the guard.
// Logging and notification are not its business; the guard already did both.
type Policy interface {
	Name() string
	Translate(kind Kind, err error) error
}

// Propagate hands every error back unchanged. Callers that want to tell
// "does not exist" from "call failed" inspect it with apperror.
var Propagate Policy = propagate{}

// Escalate turns not found into apperror.CodeResourceNotFound so a view router can
// render a missing-resource page, and every other failure, conflicts included,
// into apperror.CodeInternal.
var Escalate Policy = escalate{}

type propagate struct{}

func (propagate) Name() string { return "propagate" }

func (propagate) Translate(_ Kind, err error) error {
	return err
}

type escalate struct{}

func (escalate) Name() string { return "escalate" }

func (escalate) Translate(kind Kind, err error) error {
	switch kind {
	case KindSuccess:
		return nil
	case KindNotFound:
		return apperror.NewResourceNotFound(err)
	default:
		return apperror.NewInternal(err)
	}
}
