package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToAllSubscribersInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(_ context.Context, ev Event) {
		got = append(got, "first:"+string(ev.Type))
	})
	bus.Subscribe(func(_ context.Context, ev Event) {
		got = append(got, "second:"+string(ev.Type))
	})

	bus.Publish(context.Background(), Event{Type: EventSignIn, UserID: 1, DeviceID: "dev-1"})

	assert.Equal(t, []string{"first:sign_in", "second:sign_in"}, got)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), Event{Type: EventSignOut})
	})
}

func TestBus_EventCarriesUserAndDevice(t *testing.T) {
	bus := NewBus()
	var seen Event

	bus.Subscribe(func(_ context.Context, ev Event) { seen = ev })
	bus.Publish(context.Background(), Event{Type: EventSignIn, UserID: 42, DeviceID: "dev-9"})

	require.Equal(t, EventSignIn, seen.Type)
	assert.Equal(t, uint(42), seen.UserID)
	assert.Equal(t, "dev-9", seen.DeviceID)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}
