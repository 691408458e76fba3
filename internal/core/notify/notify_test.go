package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []string{}, c.Messages())

	c.ShowNotification("first")
	c.ShowNotification("second")

	msgs := c.Messages()
	assert.Equal(t, []string{"first", "second"}, msgs)

	msgs[0] = "mutated"
	assert.Equal(t, "first", c.Messages()[0])
	assert.Equal(t, 2, c.Len())
}

func TestSinkFunc(t *testing.T) {
	var got string
	var sink Sink = SinkFunc(func(m string) { got = m })
	sink.ShowNotification("hello")
	assert.Equal(t, "hello", got)
}
