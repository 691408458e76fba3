package guard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"hermes/internal/core/apperror"
	"hermes/internal/core/notify"
	"hermes/pkg/logger"
)

func newObservedGuard(policy Policy) (*Guard, *notify.Collector, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := notify.NewCollector()
	g := New(policy, WithSink(sink), WithLogger(logger.FromZap(zap.New(core))))
	return g, sink, logs
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindSuccess},
		{"not found", apperror.NewNotFound("organization", "x"), KindNotFound},
		{"wrapped not found", fmt.Errorf("find: %w", apperror.NewNotFound("organization", "x")), KindNotFound},
		{"conflict", apperror.NewConflict("duplicate name"), KindConflict},
		{"duplicate", apperror.NewDuplicate("organization", "name", "acme"), KindConflict},
		{"stale version", apperror.NewConcurrentModification("organization", "1"), KindConflict},
		{"plain", errors.New("connection reset"), KindFailure},
		{"other app error", apperror.NewUnauthorized("token expired"), KindFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestRun_Success(t *testing.T) {
	for _, policy := range []Policy{Propagate, Escalate} {
		t.Run(policy.Name(), func(t *testing.T) {
			g, sink, logs := newObservedGuard(policy)

			out := Run(context.Background(), g, func(context.Context) (int, error) { return 7, nil })

			assert.True(t, out.OK())
			assert.Equal(t, 7, out.Value)
			assert.NoError(t, out.Err)
			assert.Equal(t, 0, sink.Len())
			assert.Equal(t, 0, logs.Len())
		})
	}
}

func TestRun_NotFound(t *testing.T) {
	cause := apperror.NewNotFound("organization", "x")

	t.Run("propagate", func(t *testing.T) {
		g, sink, logs := newObservedGuard(Propagate)

		out := Run(context.Background(), g, func(context.Context) (string, error) { return "ignored", cause })

		assert.Equal(t, KindNotFound, out.Kind)
		assert.Equal(t, "", out.Value)
		assert.Same(t, cause, out.Err)
		assert.Equal(t, 0, sink.Len())
		assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("escalate", func(t *testing.T) {
		g, sink, logs := newObservedGuard(Escalate)

		out := Run(context.Background(), g, func(context.Context) (string, error) { return "", cause })

		assert.Equal(t, KindNotFound, out.Kind)
		assert.True(t, apperror.IsResourceNotFound(out.Err))
		assert.ErrorIs(t, out.Err, cause)
		assert.Same(t, cause, out.Cause)
		assert.Equal(t, 0, sink.Len())
		assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})
}

func TestRun_Conflict(t *testing.T) {
	cause := fmt.Errorf("create group: %w", apperror.NewConflict("duplicate name"))

	t.Run("propagate", func(t *testing.T) {
		g, sink, logs := newObservedGuard(Propagate)

		out := Run(context.Background(), g, func(context.Context) (bool, error) { return false, cause })

		assert.Equal(t, KindConflict, out.Kind)
		assert.Same(t, cause, out.Err)
		assert.Equal(t, []string{"A conflict has occurred. duplicate name"}, sink.Messages())
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("escalate", func(t *testing.T) {
		g, sink, _ := newObservedGuard(Escalate)

		out := Run(context.Background(), g, func(context.Context) (bool, error) { return false, cause })

		assert.Equal(t, KindConflict, out.Kind)
		assert.True(t, apperror.IsInternal(out.Err))
		assert.ErrorIs(t, out.Err, cause)
		assert.Equal(t, []string{"A conflict has occurred. duplicate name"}, sink.Messages())
	})
}

func TestRun_Failure(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("propagate", func(t *testing.T) {
		g, sink, logs := newObservedGuard(Propagate)

		_, err := Execute(context.Background(), g, func(context.Context) ([]string, error) { return nil, cause })

		assert.Same(t, cause, err)
		assert.Equal(t, []string{FailureMessage}, sink.Messages())
		require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		assert.Equal(t, "guard.propagate", logs.All()[0].ContextMap()["component"])
	})

	t.Run("escalate", func(t *testing.T) {
		g, sink, _ := newObservedGuard(Escalate)

		_, err := Execute(context.Background(), g, func(context.Context) ([]string, error) { return nil, cause })

		assert.True(t, apperror.IsInternal(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, []string{FailureMessage}, sink.Messages())
	})
}

func TestRun_CallsWorkExactlyOnce(t *testing.T) {
	g, _, _ := newObservedGuard(Propagate)
	calls := 0

	Do(context.Background(), g, func(context.Context) error {
		calls++
		return errors.New("boom")
	})

	assert.Equal(t, 1, calls)
}

func TestRun_WithoutSinkPanics(t *testing.T) {
	for _, policy := range []Policy{Propagate, Escalate} {
		t.Run(policy.Name(), func(t *testing.T) {
			g := New(policy, WithLogger(logger.Nop()))
			assert.False(t, g.Attached())
			called := false

			func() {
				defer func() {
					r := recover()
					require.NotNil(t, r)
					err, ok := r.(error)
					require.True(t, ok)
					assert.True(t, apperror.IsConfiguration(err))
					assert.ErrorIs(t, err, ErrSinkNotAttached)
				}()
				Run(context.Background(), g, func(context.Context) (int, error) {
					called = true
					return 0, nil
				})
			}()

			assert.False(t, called, "work must not run before the precondition holds")
		})
	}
}

func TestAttach(t *testing.T) {
	g := New(nil, WithLogger(logger.Nop()))
	assert.Equal(t, "propagate", g.Policy().Name())

	sink := notify.NewCollector()
	g.Attach(sink)
	require.True(t, g.Attached())

	Do(context.Background(), g, func(context.Context) error { return errors.New("x") })
	assert.Equal(t, 1, sink.Len())
}

func TestConflictMessage_PlainError(t *testing.T) {
	assert.Equal(t, "A conflict has occurred. raw", ConflictMessage(errors.New("raw")))
}
