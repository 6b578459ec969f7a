package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueClosed is returned by Enqueue once the queue no longer accepts work.
var ErrQueueClosed = errors.New("queue closed")

// Task is one unit of queued work.
type Task[T any] struct {
	ID       string
	Payload  T
	Attempt  int
	Enqueued time.Time
}

// Handler processes a task. A returned error triggers a retry until MaxRetries is reached.
type Handler[T any] func(context.Context, Task[T]) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Stats summarises a queue's lifetime.
type Stats struct {
	Succeeded int
	Failed    int
	Retried   int
}

// Queue is an in-memory task dispatcher backed by a fixed goroutine pool.
type Queue[T any] struct {
	name    string
	handler Handler[T]
	cfg     QueueConfig
	logger  *zap.Logger

	tasks  chan Task[T]
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sendMu sync.RWMutex

	mu      sync.Mutex
	started bool
	closed  bool
	stats   Stats
}

// NewQueue builds a queue; zero config values fall back to small defaults.
func NewQueue[T any](name string, handler Handler[T], cfg QueueConfig) *Queue[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue[T]{
		name:    name,
		handler: handler,
		cfg:     cfg,
		logger:  cfg.Logger.With(zap.String("queue", name)),
		tasks:   make(chan Task[T], cfg.BufferSize),
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Debug("queue started", zap.Int("workers", q.cfg.Workers))
}

// Enqueue blocks until the task is buffered or the queue context ends.
func (q *Queue[T]) Enqueue(task Task[T]) error {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()

	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return fmt.Errorf("queue %s not started", q.name)
	}
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueClosed)
	}
	ctx := q.ctx
	q.mu.Unlock()

	if task.Enqueued.IsZero() {
		task.Enqueued = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.tasks <- task:
		return nil
	}
}

// Drain stops accepting tasks, waits for buffered ones to finish and returns the final stats.
func (q *Queue[T]) Drain() Stats {
	q.sendMu.Lock()
	q.mu.Lock()
	if !q.started || q.closed {
		stats := q.stats
		q.mu.Unlock()
		q.sendMu.Unlock()
		return stats
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	q.sendMu.Unlock()

	q.wg.Wait()
	q.cancel()

	q.mu.Lock()
	defer q.mu.Unlock()
	q.logger.Debug("queue drained",
		zap.Int("succeeded", q.stats.Succeeded),
		zap.Int("failed", q.stats.Failed),
		zap.Int("retried", q.stats.Retried),
	)
	return q.stats
}

// Stop cancels in-flight work and waits for the workers to exit.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			q.process(task)
		}
	}
}

func (q *Queue[T]) process(task Task[T]) {
	for {
		err := q.handler(q.ctx, task)
		if err == nil {
			q.record(func(s *Stats) { s.Succeeded++ })
			return
		}

		task.Attempt++
		if task.Attempt > q.cfg.MaxRetries || q.ctx.Err() != nil {
			q.logger.Warn("task failed", zap.String("task_id", task.ID), zap.Int("attempt", task.Attempt), zap.Error(err))
			q.record(func(s *Stats) { s.Failed++ })
			return
		}

		q.logger.Debug("task failed, retrying", zap.String("task_id", task.ID), zap.Int("attempt", task.Attempt), zap.Error(err))
		q.record(func(s *Stats) { s.Retried++ })

		timer := time.NewTimer(q.cfg.RetryDelay)
		select {
		case <-q.ctx.Done():
			timer.Stop()
			q.record(func(s *Stats) { s.Failed++ })
			return
		case <-timer.C:
		}
	}
}

func (q *Queue[T]) record(fn func(*Stats)) {
	q.mu.Lock()
	fn(&q.stats)
	q.mu.Unlock()
}
