package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryDispatcher_DeliversByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, assigned int
	d.Subscribe(EventIncidentCreated, func(context.Context, Event) error {
		created++
		return nil
	})
	d.Subscribe(EventIncidentAssigned, func(context.Context, Event) error {
		assigned++
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventIncidentCreated}))
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventIncidentStatusChanged}))

	assert.Equal(t, 1, created)
	assert.Equal(t, 0, assigned)
}

func TestInMemoryDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var calls int
	d.Subscribe(EventIncidentCreated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventIncidentCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIncidentCreated})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
