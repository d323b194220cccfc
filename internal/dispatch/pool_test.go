package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	errs "github.com/debatelab/argdown-feedback-sub001/pkg/errors"
)

func TestWorkerPoolRunsTasksInOrder(t *testing.T) {
	t.Parallel()

	pool := newWorkerPool(1, 0, nil)

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		n := i
		wg.Add(1)
		require.NoError(t, pool.enqueue(func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		}))
	}
	wg.Wait()

	require.Equal(t, []int{0, 1, 2, 3, 4}, got)
	require.NoError(t, pool.shutdown(context.Background()))
}

func TestWorkerPoolRejectsWhenFull(t *testing.T) {
	t.Parallel()

	pool := newWorkerPool(1, 1, nil)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.enqueue(func() {
		close(started)
		<-release
	}))
	<-started

	require.NoError(t, pool.enqueue(func() {}))

	err := pool.enqueue(func() {})
	var full *errs.QueueFullError
	require.ErrorAs(t, err, &full)
	require.Equal(t, 1, full.Capacity)

	close(release)
	require.NoError(t, pool.shutdown(context.Background()))
}

func TestWorkerPoolShutdownDrainsQueue(t *testing.T) {
	t.Parallel()

	pool := newWorkerPool(2, 0, nil)

	var done atomic.Int64
	for i := 0; i < 16; i++ {
		require.NoError(t, pool.enqueue(func() { done.Add(1) }))
	}

	require.NoError(t, pool.shutdown(context.Background()))
	require.Equal(t, int64(16), done.Load())

	// Shutdown joins idempotently and intake stays closed.
	require.NoError(t, pool.shutdown(context.Background()))
	err := pool.enqueue(func() {})
	var full *errs.QueueFullError
	require.ErrorAs(t, err, &full)
}

func TestWorkerPoolShutdownHonorsContext(t *testing.T) {
	t.Parallel()

	pool := newWorkerPool(1, 0, nil)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.enqueue(func() {
		close(started)
		<-release
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, pool.shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, pool.shutdown(context.Background()))
}

func TestWorkerPoolReportsDepth(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var depths []int
	pool := newWorkerPool(1, 0, func(n int) {
		mu.Lock()
		depths = append(depths, n)
		mu.Unlock()
	})

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.enqueue(func() {
		close(started)
		<-release
	}))
	<-started

	require.NoError(t, pool.enqueue(func() {}))
	require.NoError(t, pool.enqueue(func() {}))
	require.Equal(t, 2, pool.depth())

	mu.Lock()
	require.Contains(t, depths, 2)
	mu.Unlock()

	close(release)
	require.NoError(t, pool.shutdown(context.Background()))
}
