package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var order []string
	dispatcher.Subscribe(EventIssueRegistered, func(_ context.Context, _ Event) error {
		order = append(order, "first")
		return nil
	})
	dispatcher.Subscribe(EventIssueRegistered, func(_ context.Context, _ Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventIssueRegistered}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var secondCalled bool
	dispatcher.Subscribe(EventIssueStatusChanged, func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventIssueStatusChanged, func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventIssueStatusChanged}))
	assert.True(t, secondCalled)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventIssueRegistered}))
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventIssueRegistered, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventIssueStatusChanged}))
	assert.False(t, called)
}
