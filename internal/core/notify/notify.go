// Package notify defines the notification sink the guard reports to and the
// sinks the application ships with.
package notify

import (
	"slices"

	"hermes/pkg/logger"
)

// Sink displays a one-line message to the current user.
type Sink interface {
	ShowNotification(message string)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(message string)

// ShowNotification implements Sink.
func (f SinkFunc) ShowNotification(message string) {
	f(message)
}

// Collector records notifications for the lifetime of one request.
// It is not safe for concurrent use; create one per request.
type Collector struct {
	messages []string
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{messages: []string{}}
}

// ShowNotification implements Sink.
func (c *Collector) ShowNotification(message string) {
	c.messages = append(c.messages, message)
}

// Messages returns a copy of the recorded notifications in emission order.
func (c *Collector) Messages() []string {
	return slices.Clone(c.messages)
}

// Len returns the number of recorded notifications.
func (c *Collector) Len() int {
	return len(c.messages)
}

// LogSink writes notifications to log. Used by command line tools that have
// no interactive user to show them to.
func LogSink(log *logger.Logger) Sink {
	return SinkFunc(func(message string) {
		log.Warnw("notification", "message", message)
	})
}
