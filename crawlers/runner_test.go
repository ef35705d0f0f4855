package crawlers

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/bpresles/CasaNova/common/redis"
	"github.com/bpresles/CasaNova/common/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stateStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *stateStore) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value.(string)
	return true, nil
}

func (s *stateStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value.(string)
	return nil
}

func (s *stateStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *stateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *stateStore) ScanKeys(_ context.Context, pattern string) ([]string, error) {
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

type blockingScraper struct {
	started  chan constants.Category
	release  chan struct{}
	finished chan error
}

func (s *blockingScraper) ScrapeAll(ctx context.Context, category constants.Category) ([]models.ScrapeResult, error) {
	s.started <- category
	select {
	case <-s.release:
		s.finished <- nil
		return []models.ScrapeResult{{Country: "FR", Count: 2}}, nil
	case <-ctx.Done():
		s.finished <- ctx.Err()
		return nil, ctx.Err()
	}
}

func newTestRunner(t *testing.T) (*BulkRunner, *work.WorkManager, *blockingScraper) {
	t.Helper()
	scraper := &blockingScraper{
		started:  make(chan constants.Category, 1),
		release:  make(chan struct{}),
		finished: make(chan error, 2),
	}
	works := work.NewWorkManager(&stateStore{data: map[string]string{}})

	cfg := work.DefaultPoolConfig()
	cfg.ShutdownTimeout = time.Second
	runner, err := NewBulkRunner(context.Background(), scraper, works, cfg)
	require.NoError(t, err)
	t.Cleanup(runner.Stop)
	return runner, works, scraper
}

func TestBulkRunnerRefusesConcurrentRun(t *testing.T) {
	ctx := context.Background()
	runner, works, scraper := newTestRunner(t)

	id, err := runner.Start(ctx, constants.Visa)
	require.NoError(t, err)
	assert.Equal(t, "scrape-all:visa", id)
	assert.Equal(t, constants.Visa, <-scraper.started)

	_, err = runner.Start(ctx, constants.Visa)
	assert.ErrorIs(t, err, work.ErrWorkRunning)

	stats := runner.Stats()
	assert.Len(t, stats, len(constants.Categories))
	assert.Equal(t, int64(1), stats["visa"].(work.PoolStats).ActiveWorkers)

	close(scraper.release)
	require.Eventually(t, func() bool {
		running, err := works.IsRunning(ctx, id)
		return err == nil && !running
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBulkRunnerCancel(t *testing.T) {
	ctx := context.Background()
	runner, works, scraper := newTestRunner(t)

	id, err := runner.Start(ctx, constants.Job)
	require.NoError(t, err)
	<-scraper.started

	running, err := works.ListRunningWorks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"scrape-all:job"}, running)

	require.NoError(t, works.Cancel(ctx, id))
	require.Eventually(t, func() bool {
		running, _ := works.ListRunningWorks(ctx)
		return len(running) == 0
	}, 2*time.Second, 10*time.Millisecond)

	_, err = runner.Start(ctx, constants.Job)
	require.NoError(t, err)
	<-scraper.started
	close(scraper.release)
}

func TestBulkRunnerCancelBeforePickup(t *testing.T) {
	ctx := context.Background()
	runner, works, scraper := newTestRunner(t)

	id, err := runner.Start(ctx, constants.Job)
	require.NoError(t, err)
	require.NoError(t, works.Cancel(ctx, id))

	assert.Equal(t, constants.Job, <-scraper.started)
	select {
	case err := <-scraper.finished:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled run kept scraping")
	}

	_, err = runner.Start(ctx, constants.Job)
	require.NoError(t, err)
	<-scraper.started

	running, err := works.IsRunning(ctx, id)
	require.NoError(t, err)
	assert.True(t, running, "the cancelled run must not clear the new run's state")

	close(scraper.release)
	assert.NoError(t, <-scraper.finished)
	require.Eventually(t, func() bool {
		running, err := works.IsRunning(ctx, id)
		return err == nil && !running
	}, 2*time.Second, 10*time.Millisecond)
}
