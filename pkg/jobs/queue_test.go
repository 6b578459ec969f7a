package jobs

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesEveryTask(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}

	q := NewQueue("test", func(ctx context.Context, task Task[int]) error {
		mu.Lock()
		seen[task.Payload] = true
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 3})
	q.Start(context.Background())

	for i := 0; i < 20; i++ {
		require.NoError(t, q.Enqueue(Task[int]{ID: strconv.Itoa(i), Payload: i}))
	}
	stats := q.Drain()

	assert.Equal(t, 20, stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Len(t, seen, 20)
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var mu sync.Mutex
	attempts := map[string]int{}

	q := NewQueue("retry", func(ctx context.Context, task Task[string]) error {
		mu.Lock()
		defer mu.Unlock()
		attempts[task.ID]++
		if task.Payload == "flaky" && attempts[task.ID] < 2 {
			return errors.New("temporary")
		}
		if task.Payload == "broken" {
			return errors.New("permanent")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Task[string]{ID: "a", Payload: "flaky"}))
	require.NoError(t, q.Enqueue(Task[string]{ID: "b", Payload: "broken"}))
	stats := q.Drain()

	assert.Equal(t, Stats{Succeeded: 1, Failed: 1, Retried: 3}, stats)
	assert.Equal(t, 2, attempts["a"])
	assert.Equal(t, 3, attempts["b"])
}

func TestQueueRejectsWorkOutsideItsLifetime(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, task Task[int]) error { return nil }, QueueConfig{})

	assert.Error(t, q.Enqueue(Task[int]{ID: "early"}))

	q.Start(context.Background())
	q.Drain()

	err := q.Enqueue(Task[int]{ID: "late"})
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.Equal(t, Stats{}, q.Drain())
}

func TestQueueStopCancelsHandlers(t *testing.T) {
	started := make(chan struct{})
	q := NewQueue("stop", func(ctx context.Context, task Task[int]) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{Workers: 1, MaxRetries: 5})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Task[int]{ID: "block"}))
	<-started

	done := make(chan struct{})
	go func() {
		q.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
