package work

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidChannelSize = errors.New("invalid channel size")
	ErrPoolStopped        = errors.New("worker pool has been stopped")
	ErrPoolBusy           = errors.New("worker pool queue is full")
	ErrTaskTimeout        = errors.New("task execution timeout")
)

// TaskResult is the outcome of one executed task
type TaskResult[T any] struct {
	TaskID    string
	Result    T
	Error     error
	StartTime time.Time
	Duration  time.Duration
}

func (tr *TaskResult[T]) IsSuccess() bool {
	return tr.Error == nil
}

// Executor is a unit of work run by the pool
type Executor[T any] interface {
	ExecutorID() string
	Execute(ctx context.Context) (T, error)
	OnError(error)
	// Timeout overrides the pool default when > 0
	Timeout() time.Duration
}

type PoolConfig struct {
	NumWorkers      int
	QueueSize       int
	ResultChanSize  int
	TaskTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultPoolConfig suits bulk scrape runs: one worker, a short queue and
// tasks that can last as long as a full pass over every country.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		NumWorkers:      1,
		QueueSize:       1,
		ResultChanSize:  4,
		TaskTimeout:     workTimeout,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Pool runs executors on a fixed set of goroutines
type Pool[T any] struct {
	config   PoolConfig
	tasks    chan Executor[T]
	results  chan TaskResult[T]
	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	activeWorkers  atomic.Int64
	tasksQueued    atomic.Int64
	tasksCompleted atomic.Int64

	mu      sync.RWMutex
	started bool
	stopped bool
}

func NewPool[T any](config PoolConfig) (*Pool[T], error) {
	if config.NumWorkers <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if config.QueueSize < 0 {
		return nil, ErrInvalidChannelSize
	}
	if config.ResultChanSize <= 0 {
		config.ResultChanSize = config.NumWorkers * 2
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = 30 * time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	return &Pool[T]{
		config:  config,
		tasks:   make(chan Executor[T], config.QueueSize),
		results: make(chan TaskResult[T], config.ResultChanSize),
		quit:    make(chan struct{}),
	}, nil
}

// Start launches the workers; later calls are no-ops.
func (p *Pool[T]) Start(ctx context.Context, poolID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}
	p.started = true

	for i := 0; i < p.config.NumWorkers; i++ {
		p.wg.Add(1)
		go p.work(ctx, poolID, i)
	}
	log.Info().
		Str("workerPoolID", poolID).
		Int("numWorkers", p.config.NumWorkers).
		Msg("Worker pool started")
}

// Stop closes the queue and waits for running tasks up to the shutdown timeout.
// Results is closed once every worker has returned. Queued tasks that have not
// started are dropped.
func (p *Pool[T]) Stop() {
	p.stopOnce.Do(func() {
		// Closing quit first releases Submit callers blocked on a full queue.
		close(p.quit)

		p.mu.Lock()
		p.stopped = true
		close(p.tasks)
		p.mu.Unlock()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Info().Msg("All workers stopped gracefully")
			close(p.results)
		case <-time.After(p.config.ShutdownTimeout):
			// A worker may still send; results stays open.
			log.Warn().Dur("timeout", p.config.ShutdownTimeout).Msg("Shutdown timeout exceeded")
		}
	})
}

// Submit queues a task, blocking until there is room or ctx ends.
func (p *Pool[T]) Submit(ctx context.Context, task Executor[T]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		p.tasksQueued.Add(1)
		return nil
	case <-p.quit:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues a task or returns ErrPoolBusy at once.
func (p *Pool[T]) TrySubmit(task Executor[T]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		p.tasksQueued.Add(1)
		return nil
	default:
		return ErrPoolBusy
	}
}

func (p *Pool[T]) Results() <-chan TaskResult[T] {
	return p.results
}

type PoolStats struct {
	ActiveWorkers  int64 `json:"active_workers"`
	TasksQueued    int64 `json:"tasks_queued"`
	TasksCompleted int64 `json:"tasks_completed"`
	TasksInQueue   int64 `json:"tasks_in_queue"`
}

func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		ActiveWorkers:  p.activeWorkers.Load(),
		TasksQueued:    p.tasksQueued.Load(),
		TasksCompleted: p.tasksCompleted.Load(),
		TasksInQueue:   int64(len(p.tasks)),
	}
}

func (p *Pool[T]) work(ctx context.Context, poolID string, workerID int) {
	defer p.wg.Done()
	p.activeWorkers.Add(1)
	defer p.activeWorkers.Add(-1)

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("workerPoolID", poolID).Int("workerID", workerID).Msg("Worker stopped: context done")
			return
		case <-p.quit:
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.execute(ctx, task, poolID)
		}
	}
}

func (p *Pool[T]) execute(ctx context.Context, task Executor[T], poolID string) {
	taskID := task.ExecutorID()
	start := time.Now()

	timeout := p.config.TaskTimeout
	if t := task.Timeout(); t > 0 {
		timeout = t
	}
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().Str("workerPoolID", poolID).Str("taskID", taskID).Dur("timeout", timeout).Msg("Executing task")

	result, err := task.Execute(taskCtx)
	if err != nil && errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
		err = ErrTaskTimeout
	}
	if err != nil {
		task.OnError(err)
	}

	res := TaskResult[T]{
		TaskID:    taskID,
		Result:    result,
		Error:     err,
		StartTime: start,
		Duration:  time.Since(start),
	}
	p.tasksCompleted.Add(1)

	select {
	case p.results <- res:
	case <-p.quit:
		log.Debug().Str("taskID", taskID).Msg("Pool shutting down, dropping result")
	case <-time.After(time.Second):
		log.Warn().Str("taskID", taskID).Msg("Result channel full, dropping result")
	}
}
