package guard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"hermes/internal/core/apperror"
	"hermes/internal/core/guard"
	"hermes/internal/core/guard/guardtest"
	"hermes/internal/core/notify"
	"hermes/pkg/logger"
)

func TestTypedNilSinkIsNotAttached(t *testing.T) {
	sinks := map[string]notify.Sink{
		"nil collector": (*notify.Collector)(nil),
		"nil func":      notify.SinkFunc(nil),
	}
	for name, sink := range sinks {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			viaOption := guard.New(guard.Propagate, guard.WithSink(sink), guard.WithLogger(logger.Nop()))
			assert.False(t, viaOption.Attached())

			viaAttach := guard.New(guard.Escalate, guard.WithLogger(logger.Nop()))
			viaAttach.Attach(sink)
			assert.False(t, viaAttach.Attached())

			called := false
			guardtest.RequireConfigurationPanic(t, func() {
				guard.Do(ctx, viaOption, func(context.Context) error {
					called = true
					return nil
				})
			})
			guardtest.RequireConfigurationPanic(t, func() {
				guard.Do(ctx, viaAttach, func(context.Context) error {
					called = true
					return apperror.NewConflict("duplicate name")
				})
			})
			assert.False(t, called)
		})
	}
}
