package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPublishWritesEnvelope(t *testing.T) {
	rdb := newClient(t)
	ctx := context.Background()
	hit := HitRecordedEvent{App: "ewm-main-service", URI: "/events/1", IP: "10.0.0.1", Timestamp: "2024-01-01 10:00:00"}

	require.NoError(t, NewPublisher(rdb, 0).Publish(ctx, HitsStream, HitRecorded, hit))

	msgs, err := rdb.XRange(ctx, HitsStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Values["event"], `"type":"hit.recorded"`)
	assert.Contains(t, msgs[0].Values["event"], `"uri":"/events/1"`)
}

func TestSubscriberDeliversAndAcks(t *testing.T) {
	rdb := newClient(t)
	ctx := context.Background()
	pub := NewPublisher(rdb, 0)

	var got []HitRecordedEvent
	sub := NewSubscriber(rdb, SubscriberConfig{
		Group:         StatServiceGroup,
		Consumer:      "test",
		Stream:        HitsStream,
		BlockDuration: 10 * time.Millisecond,
		Handler: func(ctx context.Context, event Event) error {
			assert.Equal(t, HitRecorded, event.Type)
			var hit HitRecordedEvent
			if err := event.Decode(&hit); err != nil {
				return err
			}
			got = append(got, hit)
			return nil
		},
	})
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, sub.ensureGroup(ctx), "existing group must be tolerated")

	require.NoError(t, pub.Publish(ctx, HitsStream, HitRecorded, HitRecordedEvent{URI: "/events"}))
	require.NoError(t, pub.Publish(ctx, HitsStream, HitRecorded, HitRecordedEvent{URI: "/events/2"}))

	require.NoError(t, sub.readMessages(ctx))
	require.Len(t, got, 2)
	assert.Equal(t, "/events", got[0].URI)
	assert.Equal(t, "/events/2", got[1].URI)

	pending, err := rdb.XPending(ctx, HitsStream, StatServiceGroup).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestSubscriberLeavesFailedMessagesPending(t *testing.T) {
	rdb := newClient(t)
	ctx := context.Background()

	sub := NewSubscriber(rdb, SubscriberConfig{
		Group:         StatServiceGroup,
		Consumer:      "test",
		Stream:        HitsStream,
		BlockDuration: 10 * time.Millisecond,
		Handler: func(context.Context, Event) error {
			return errors.New("boom")
		},
	})
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, NewPublisher(rdb, 0).Publish(ctx, HitsStream, HitRecorded, HitRecordedEvent{URI: "/events"}))

	require.NoError(t, sub.readMessages(ctx))

	pending, err := rdb.XPending(ctx, HitsStream, StatServiceGroup).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

// failOnce returns a handler that rejects the first event and records the
// URIs of the ones it accepts.
func failOnce(calls *atomic.Int32, mu *sync.Mutex, stored *[]string) Handler {
	return func(_ context.Context, event Event) error {
		if calls.Add(1) == 1 {
			return errors.New("database unavailable")
		}
		var hit HitRecordedEvent
		if err := event.Decode(&hit); err != nil {
			return err
		}
		mu.Lock()
		*stored = append(*stored, hit.URI)
		mu.Unlock()
		return nil
	}
}

func TestSubscriberRedeliversPendingMessages(t *testing.T) {
	rdb := newClient(t)
	ctx := context.Background()

	var (
		calls  atomic.Int32
		mu     sync.Mutex
		stored []string
	)
	sub := NewSubscriber(rdb, SubscriberConfig{
		Group:         StatServiceGroup,
		Consumer:      "test",
		Stream:        HitsStream,
		BlockDuration: 10 * time.Millisecond,
		Handler:       failOnce(&calls, &mu, &stored),
	})
	require.NoError(t, sub.ensureGroup(ctx))
	require.NoError(t, NewPublisher(rdb, 0).Publish(ctx, HitsStream, HitRecorded, HitRecordedEvent{URI: "/events/7"}))

	require.NoError(t, sub.readMessages(ctx))
	assert.Empty(t, stored)

	require.NoError(t, sub.readPending(ctx))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []string{"/events/7"}, stored)

	pending, err := rdb.XPending(ctx, HitsStream, StatServiceGroup).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)

	// Nothing left to redeliver.
	require.NoError(t, sub.readPending(ctx))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSubscriberStartRetriesFailedMessages(t *testing.T) {
	rdb := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		calls  atomic.Int32
		mu     sync.Mutex
		stored []string
	)
	sub := NewSubscriber(rdb, SubscriberConfig{
		Group:         StatServiceGroup,
		Consumer:      "test",
		Stream:        HitsStream,
		BlockDuration: 10 * time.Millisecond,
		RetryInterval: 20 * time.Millisecond,
		Handler:       failOnce(&calls, &mu, &stored),
	})
	require.NoError(t, NewPublisher(rdb, 0).Publish(ctx, HitsStream, HitRecorded, HitRecordedEvent{URI: "/events/8"}))

	done := make(chan error, 1)
	go func() { done <- sub.Start(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(stored) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	pending, err := rdb.XPending(context.Background(), HitsStream, StatServiceGroup).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestProcessMessageRejectsBadPayload(t *testing.T) {
	sub := NewSubscriber(nil, SubscriberConfig{Handler: func(context.Context, Event) error { return nil }})

	err := sub.processMessage(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]any{"other": "x"}})
	assert.ErrorIs(t, err, errInvalidMessage)

	err = sub.processMessage(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]any{"event": "{"}})
	assert.Error(t, err)
}
