package work

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(workers, queue int) PoolConfig {
	return PoolConfig{
		NumWorkers:      workers,
		QueueSize:       queue,
		ResultChanSize:  16,
		TaskTimeout:     5 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
}

func TestNewPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		queue   int
		wantErr error
	}{
		{"valid pool", 2, 4, nil},
		{"zero workers", 0, 4, ErrInvalidWorkerCount},
		{"negative workers", -1, 4, ErrInvalidWorkerCount},
		{"negative queue", 2, -1, ErrInvalidChannelSize},
		{"unbuffered queue", 1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool[string](testConfig(tt.workers, tt.queue))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, pool)
		})
	}
}

func TestPoolRunsTasks(t *testing.T) {
	ctx := context.Background()
	pool, err := NewPool[int](testConfig(3, 10))
	require.NoError(t, err)
	pool.Start(ctx, "test-pool")
	defer pool.Stop()

	var executed atomic.Int64
	for i := 0; i < 10; i++ {
		task, err := NewTask(func(ctx context.Context) (int, error) {
			executed.Add(1)
			return i * 2, nil
		})
		require.NoError(t, err)
		require.NoError(t, pool.Submit(ctx, task))
	}

	sum := 0
	for i := 0; i < 10; i++ {
		select {
		case res := <-pool.Results():
			assert.True(t, res.IsSuccess())
			sum += res.Result
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}
	assert.Equal(t, int64(10), executed.Load())
	assert.Equal(t, 90, sum)
}

func TestPoolTaskTimeout(t *testing.T) {
	ctx := context.Background()
	pool, err := NewPool[string](testConfig(1, 1))
	require.NoError(t, err)
	pool.Start(ctx, "timeout-pool")
	defer pool.Stop()

	var handled atomic.Bool
	task, err := NewTask(
		func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
		WithTimeout[string](50*time.Millisecond),
		WithErrorHandler[string](func(err error) { handled.Store(errors.Is(err, ErrTaskTimeout)) }),
	)
	require.NoError(t, err)
	require.NoError(t, pool.Submit(ctx, task))

	select {
	case res := <-pool.Results():
		assert.ErrorIs(t, res.Error, ErrTaskTimeout)
		assert.True(t, handled.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestPoolCustomID(t *testing.T) {
	ctx := context.Background()
	pool, err := NewPool[string](testConfig(1, 1))
	require.NoError(t, err)
	pool.Start(ctx, "id-pool")
	defer pool.Stop()

	task, err := NewTask(func(ctx context.Context) (string, error) { return "ok", nil },
		WithID[string]("scrape-all:visa"))
	require.NoError(t, err)
	require.NoError(t, pool.Submit(ctx, task))

	res := <-pool.Results()
	assert.Equal(t, "scrape-all:visa", res.TaskID)
}

func TestPoolTrySubmitWhenBusy(t *testing.T) {
	ctx := context.Background()
	pool, err := NewPool[string](testConfig(1, 1))
	require.NoError(t, err)
	pool.Start(ctx, "busy-pool")
	defer pool.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	blocking, err := NewTask(func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "done", nil
	})
	require.NoError(t, err)
	require.NoError(t, pool.TrySubmit(blocking))
	<-started

	queued, err := NewTask(func(ctx context.Context) (string, error) { return "queued", nil })
	require.NoError(t, err)
	require.NoError(t, pool.TrySubmit(queued))

	overflow, err := NewTask(func(ctx context.Context) (string, error) { return "overflow", nil })
	require.NoError(t, err)
	assert.ErrorIs(t, pool.TrySubmit(overflow), ErrPoolBusy)

	close(release)
}

func TestPoolStop(t *testing.T) {
	ctx := context.Background()
	pool, err := NewPool[string](testConfig(2, 2))
	require.NoError(t, err)
	pool.Start(ctx, "stop-pool")

	pool.Stop()
	pool.Stop()

	task, err := NewTask(func(ctx context.Context) (string, error) { return "late", nil })
	require.NoError(t, err)
	assert.ErrorIs(t, pool.Submit(ctx, task), ErrPoolStopped)

	_, open := <-pool.Results()
	assert.False(t, open)
	assert.Equal(t, int64(0), pool.Stats().ActiveWorkers)
}
