package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventBookingCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventBookingCancelled, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventBookingCreated}))
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventBookingCancelled}))
	assert.Equal(t, []EventType{EventBookingCreated, EventBookingCancelled}, got)
}

func TestDispatcher_RunsAllHandlersDespiteErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	d.Subscribe(EventBookingCreated, func(context.Context, Event) error {
		calls++
		return errors.New("first failed")
	})
	d.Subscribe(EventBookingCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventBookingCreated})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
