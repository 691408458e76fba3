// Package guard runs one unit of work against a directory repository and
// classifies its outcome. It is the only place where directory failures are
// logged and turned into user notifications.
package guard

import (
	"context"
	"errors"
	"reflect"

	"hermes/internal/core/apperror"
	"hermes/internal/core/notify"
	"hermes/pkg/logger"
)

const (
	// ConflictPrefix starts every conflict notification. The directory gives no
	// structured conflict detail, so its message is appended as is.
	ConflictPrefix = "A conflict has occurred. "

	// FailureMessage is shown for every unclassified failure.
	FailureMessage = "Something went wrong. Please try executing the same action again."
)

// ErrSinkNotAttached is the cause of the configuration panic raised when a
// guarded call is made before a notification sink was attached.
var ErrSinkNotAttached = errors.New("guard: notification sink not attached")

// Guard holds the attached sink and the disposition policy.
// A Guard is meant to be owned by one operations instance; the sink is set
// once and only read afterwards.
type Guard struct {
	sink   notify.Sink
	policy Policy
	log    *logger.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger makes the guard log through log instead of the context logger.
func WithLogger(log *logger.Logger) Option {
	return func(g *Guard) {
		g.log = log
	}
}

// WithSink attaches sink at construction time.
func WithSink(sink notify.Sink) Option {
	return func(g *Guard) {
		g.Attach(sink)
	}
}

// New creates a Guard with the given policy. A nil policy means Propagate.
func New(policy Policy, opts ...Option) *Guard {
	if policy == nil {
		policy = Propagate
	}
	g := &Guard{policy: policy}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Attach sets the notification sink. A nil pointer or nil func wrapped in
// the interface counts as no sink.
func (g *Guard) Attach(sink notify.Sink) {
	if isNil(sink) {
		sink = nil
	}
	g.sink = sink
}

func isNil(sink notify.Sink) bool {
	if sink == nil {
		return true
	}
	v := reflect.ValueOf(sink)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Attached reports whether a sink is set.
func (g *Guard) Attached() bool {
	return g.sink != nil
}

// Policy returns the disposition policy of the guard.
func (g *Guard) Policy() Policy {
	return g.policy
}

// mustBeReady panics with a configuration error when no sink is attached.
// A missing sink is a wiring bug, so it is never converted into a result.
func (g *Guard) mustBeReady() {
	if g.sink == nil {
		panic(apperror.NewConfiguration("notification sink has not been set").WithCause(ErrSinkNotAttached))
	}
}

func (g *Guard) logger(ctx context.Context) *logger.Logger {
	base := g.log
	if base == nil {
		base = logger.FromContext(ctx)
	} else {
		base = base.WithContext(ctx)
	}
	return base.WithComponent("guard." + g.policy.Name())
}

// report logs the failure and emits at most one notification.
func (g *Guard) report(ctx context.Context, kind Kind, err error) {
	log := g.logger(ctx)
	switch kind {
	case KindNotFound:
		log.Debugw("directory entity not found", "error", err)
	case KindConflict:
		log.Errorw("directory conflict", "error", err)
		g.sink.ShowNotification(ConflictMessage(err))
	case KindFailure:
		log.Errorw("directory call failed", "error", err)
		g.sink.ShowNotification(FailureMessage)
	}
}

// ConflictMessage builds the user notification for a conflict.
func ConflictMessage(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		return ConflictPrefix + appErr.Message
	}
	return ConflictPrefix + err.Error()
}

// Run executes work exactly once and returns its classified Outcome.
// It panics if no sink is attached. Work is never retried.
func Run[T any](ctx context.Context, g *Guard, work func(ctx context.Context) (T, error)) Outcome[T] {
	g.mustBeReady()

	value, err := work(ctx)
	kind := Classify(err)
	if kind == KindSuccess {
		return Outcome[T]{Kind: kind, Value: value}
	}

	g.report(ctx, kind, err)

	var zero T
	return Outcome[T]{
		Kind:  kind,
		Value: zero,
		Err:   g.policy.Translate(kind, err),
		Cause: err,
	}
}

// Execute is Run followed by Unwrap.
func Execute[T any](ctx context.Context, g *Guard, work func(ctx context.Context) (T, error)) (T, error) {
	return Run(ctx, g, work).Unwrap()
}

// Do runs work that produces no value.
func Do(ctx context.Context, g *Guard, work func(ctx context.Context) error) Outcome[struct{}] {
	return Run(ctx, g, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, work(ctx)
	})
}
