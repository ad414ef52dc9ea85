package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject_PublishInOrder(t *testing.T) {
	s := NewSubject[int]()
	var got []string

	s.Subscribe(func(v int) { got = append(got, "first") })
	s.Subscribe(func(v int) { got = append(got, "second") })
	s.Publish(1)

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestSubject_Unsubscribe(t *testing.T) {
	s := NewSubject[string]()
	var received []string

	cancel := s.Subscribe(func(v string) { received = append(received, v) })
	s.Publish("a")
	cancel()
	cancel()
	s.Publish("b")

	assert.Equal(t, []string{"a"}, received)
	assert.Equal(t, 0, s.Len())
}

func TestSubject_NoSubscribers(t *testing.T) {
	s := NewSubject[[]string]()
	assert.NotPanics(t, func() { s.Publish(nil) })
}
