package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublisher_Publish(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := NewPublisher(client).Publish(ctx, UserEventsStream, UserRegistered, UserEvent{UserID: 1, Username: "annl", Status: "ONLINE"})
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, UserEventsStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Values["event"], `"type":"user.registered"`)
	assert.Contains(t, msgs[0].Values["event"], `"username":"annl"`)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), UserEventsStream, UserUpdated, nil))
}

func TestSubscriber_DeliversAndAcks(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var received []UserEvent
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "c1",
		Stream:        UserEventsStream,
		BlockDuration: 50 * time.Millisecond,
		Handler: func(ctx context.Context, event Event) error {
			data, err := DecodeUserEvent(event)
			if err != nil {
				return err
			}
			received = append(received, data)
			return nil
		},
	}, zap.NewNop())
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, sub.ensureGroup(ctx), "existing group must be tolerated")

	pub := NewPublisher(client)
	require.NoError(t, pub.Publish(ctx, UserEventsStream, UserLoggedIn, UserEvent{UserID: 3, Username: "bob", Status: "ONLINE"}))
	require.NoError(t, pub.Publish(ctx, UserEventsStream, UserLoggedOut, UserEvent{UserID: 3, Username: "bob", Status: "OFFLINE"}))

	require.NoError(t, sub.readMessages(ctx))
	require.Len(t, received, 2)
	assert.Equal(t, int64(3), received[0].UserID)
	assert.Equal(t, "OFFLINE", received[1].Status)

	pending, err := client.XPending(ctx, UserEventsStream, "test-group").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestSubscriber_FailedMessagesStayPending(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "c1",
		Stream:        UserEventsStream,
		BlockDuration: 50 * time.Millisecond,
		Handler:       func(context.Context, Event) error { return errors.New("boom") },
	}, zap.NewNop())
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, NewPublisher(client).Publish(ctx, UserEventsStream, UserUpdated, UserEvent{UserID: 1}))

	require.NoError(t, sub.readMessages(ctx))

	pending, err := client.XPending(ctx, UserEventsStream, "test-group").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

func TestSubscriber_ClaimsPendingMessages(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	attempts := 0
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "c1",
		Stream:        UserEventsStream,
		BlockDuration: 50 * time.Millisecond,
		MinIdle:       time.Millisecond,
		Handler: func(context.Context, Event) error {
			attempts++
			if attempts == 1 {
				return errors.New("transient")
			}
			return nil
		},
	}, zap.NewNop())
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, NewPublisher(client).Publish(ctx, UserEventsStream, UserLoggedOut, UserEvent{UserID: 1}))

	require.NoError(t, sub.readMessages(ctx))
	pending, err := client.XPending(ctx, UserEventsStream, "test-group").Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), pending.Count)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, sub.claimPending(ctx))

	assert.Equal(t, 2, attempts)
	pending, err = client.XPending(ctx, UserEventsStream, "test-group").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestSubscriber_ClaimSkipsRecentDeliveries(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	attempts := 0
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "c1",
		Stream:        UserEventsStream,
		BlockDuration: 50 * time.Millisecond,
		MinIdle:       time.Hour,
		Handler: func(context.Context, Event) error {
			attempts++
			return errors.New("still failing")
		},
	}, zap.NewNop())
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, NewPublisher(client).Publish(ctx, UserEventsStream, UserLoggedIn, UserEvent{UserID: 1}))

	require.NoError(t, sub.readMessages(ctx))
	require.NoError(t, sub.claimPending(ctx))
	assert.Equal(t, 1, attempts)
}

func TestSubscriber_StartStopsOnCancel(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "c1",
		Stream:        UserEventsStream,
		BlockDuration: 20 * time.Millisecond,
		Handler:       func(context.Context, Event) error { return nil },
	}, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- sub.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestDecodeUserEvent(t *testing.T) {
	data, err := DecodeUserEvent(Event{Type: UserUpdated, Data: map[string]any{"userId": 9, "username": "x", "status": "ONLINE"}})
	require.NoError(t, err)
	assert.Equal(t, UserEvent{UserID: 9, Username: "x", Status: "ONLINE"}, data)

	_, err = DecodeUserEvent(Event{Type: UserUpdated, Data: "not an object"})
	assert.Error(t, err)
}
