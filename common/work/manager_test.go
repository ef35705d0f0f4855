package work

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/bpresles/CasaNova/common/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (s *memoryStore) SetNX(_ context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value.(string)
	s.ttl[key] = exp
	return true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value interface{}, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value.(string)
	s.ttl[key] = exp
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryStore) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.data {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func TestWorkManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	wm := NewWorkManager(store)

	require.NoError(t, wm.Start(ctx, "scrape-all:visa"))
	assert.Equal(t, workTimeout, store.ttl["work:state:scrape-all:visa"])

	err := wm.Start(ctx, "scrape-all:visa")
	assert.ErrorIs(t, err, ErrWorkRunning)

	running, err := wm.IsRunning(ctx, "scrape-all:visa")
	require.NoError(t, err)
	assert.True(t, running)

	ids, err := wm.ListRunningWorks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"scrape-all:visa"}, ids)

	require.NoError(t, wm.Complete(ctx, "scrape-all:visa"))
	running, err = wm.IsRunning(ctx, "scrape-all:visa")
	require.NoError(t, err)
	assert.False(t, running)

	// a finished work can be started again
	assert.NoError(t, wm.Start(ctx, "scrape-all:visa"))
}

func TestWorkManagerCancel(t *testing.T) {
	ctx := context.Background()
	wm := NewWorkManager(newMemoryStore())

	assert.ErrorIs(t, wm.Cancel(ctx, "scrape-all:job"), ErrWorkNotFound)

	require.NoError(t, wm.Start(ctx, "scrape-all:job"))
	workCtx, cancel := context.WithCancel(ctx)
	wm.Attach("scrape-all:job", cancel)

	require.NoError(t, wm.Cancel(ctx, "scrape-all:job"))
	assert.ErrorIs(t, workCtx.Err(), context.Canceled)

	running, err := wm.IsRunning(ctx, "scrape-all:job")
	require.NoError(t, err)
	assert.False(t, running)
}
