package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/civicworks/waste-complaints/internal/domain"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []EventType
	dispatcher.Subscribe(EventComplaintFiled, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return nil
	})
	dispatcher.Subscribe(EventComplaintFiled, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventComplaintStatusChanged, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		Type:        EventComplaintFiled,
		ComplaintID: "c1",
		Actor:       Actor{Email: "a@x.com", Role: domain.RoleCustomer},
	})
	require.NoError(t, err)

	// both filed handlers ran despite the failure; status handler did not
	require.Equal(t, []EventType{EventComplaintFiled, EventComplaintFiled}, seen)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	err := dispatcher.Publish(context.Background(), Event{Type: EventComplaintStatusChanged})
	require.NoError(t, err)
}
