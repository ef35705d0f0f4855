package work

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bpresles/CasaNova/common/redis"
	"github.com/rs/zerolog/log"
)

const (
	workStateKeyPrefix = "work:state:"
	runningState       = "running"
	// workTimeout sets how long a work is considered running before it's considered stale.
	// This prevents works that died without proper cleanup from being stuck in 'running' state forever.
	workTimeout = 24 * time.Hour
)

var (
	ErrWorkRunning  = errors.New("work is already running")
	ErrWorkNotFound = errors.New("work is not running")
)

// StateStore keeps work states. *redis.RedisClient implements it.
type StateStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

// WorkManager manages the state of works in Redis, and the cancel functions
// of the works started by this process.
type WorkManager struct {
	store StateStore

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewWorkManager creates a new WorkManager.
func NewWorkManager(store StateStore) *WorkManager {
	return &WorkManager{
		store:   store,
		cancels: make(map[string]context.CancelFunc),
	}
}

// getWorkKey returns the Redis key for a given work ID.
func (wm *WorkManager) getWorkKey(workID string) string {
	return fmt.Sprintf("%s%s", workStateKeyPrefix, workID)
}

// Start marks a work as running. It sets a key in Redis with an expiration.
// If the work is already running, it returns ErrWorkRunning.
func (wm *WorkManager) Start(ctx context.Context, workID string) error {
	key := wm.getWorkKey(workID)
	// SetNX to prevent starting a work that is already running.
	ok, err := wm.store.SetNX(ctx, key, runningState, workTimeout)
	if err != nil {
		return fmt.Errorf("failed to start work %s: %w", workID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkRunning, workID)
	}

	log.Info().Str("workID", workID).Msg("Work started")
	return nil
}

// Attach registers the cancel function of a work running in this process.
func (wm *WorkManager) Attach(workID string, cancel context.CancelFunc) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.cancels[workID] = cancel
}

// IsRunning checks if a work is currently marked as running.
func (wm *WorkManager) IsRunning(ctx context.Context, workID string) (bool, error) {
	key := wm.getWorkKey(workID)
	state, err := wm.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get work state for %s: %w", workID, err)
	}
	return state == runningState, nil
}

// removeWork removes a work's state from Redis and forgets its cancel function.
func (wm *WorkManager) removeWork(ctx context.Context, workID string) (context.CancelFunc, error) {
	wm.mu.Lock()
	cancel := wm.cancels[workID]
	delete(wm.cancels, workID)
	wm.mu.Unlock()

	key := wm.getWorkKey(workID)
	if err := wm.store.Delete(ctx, key); err != nil {
		return cancel, fmt.Errorf("failed to remove work %s: %w", workID, err)
	}
	return cancel, nil
}

// Complete marks a work as completed by removing its state from Redis.
func (wm *WorkManager) Complete(ctx context.Context, workID string) error {
	if _, err := wm.removeWork(ctx, workID); err != nil {
		return err
	}

	log.Info().Str("workID", workID).Msg("Work finished")
	return nil
}

// Cancel stops a running work. The work context is cancelled when the work
// runs in this process; its state is removed from Redis in any case.
func (wm *WorkManager) Cancel(ctx context.Context, workID string) error {
	running, err := wm.IsRunning(ctx, workID)
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("%w: %s", ErrWorkNotFound, workID)
	}

	cancel, err := wm.removeWork(ctx, workID)
	if cancel != nil {
		cancel()
	}
	if err != nil {
		return err
	}

	log.Info().Str("workID", workID).Msg("Work cancelled")
	return nil
}

// ListRunningWorks returns a slice of work IDs for all works currently marked as running.
func (wm *WorkManager) ListRunningWorks(ctx context.Context) ([]string, error) {
	keys, err := wm.store.ScanKeys(ctx, workStateKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for running works in Redis: %w", err)
	}

	workIDs := make([]string, 0, len(keys))
	for _, key := range keys {
		workIDs = append(workIDs, strings.TrimPrefix(key, workStateKeyPrefix))
	}
	return workIDs, nil
}
