package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPoolStopped = errors.New("worker pool stopped")
	ErrQueueFull   = errors.New("worker queue full")
)

// Job is one queued intent, typically a call into the task service that
// performs network I/O.
type Job func(ctx context.Context) error

type queued struct {
	id   string
	name string
	run  Job
}

// Pool runs submitted jobs on a fixed number of goroutines. Jobs finish in
// whatever order their network calls resolve.
type Pool struct {
	logger *zap.Logger
	count  int
	jobs   chan queued
	wg     sync.WaitGroup
	stop   chan struct{}

	mu      sync.RWMutex
	stopped bool
	ctx     context.Context
}

func NewPool(logger *zap.Logger, count, queueSize int) *Pool {
	if count < 1 {
		count = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		logger: logger,
		count:  count,
		jobs:   make(chan queued, queueSize),
		stop:   make(chan struct{}),
	}
}

// Start launches the workers. Cancelling ctx makes them exit without waiting
// for queued jobs, and Submit rejects from then on.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", zap.Int("workers", p.count))

	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop waits for running jobs. Jobs still queued are dropped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.logger.Info("Stopping worker pool...")
	close(p.stop)
	p.wg.Wait()

	if dropped := len(p.jobs); dropped > 0 {
		p.logger.Warn("Dropped queued jobs", zap.Int("count", dropped))
	}
	p.logger.Info("Worker pool stopped")
}

// Submit queues fn under name and returns its job id without waiting.
func (p *Pool) Submit(name string, fn Job) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped || (p.ctx != nil && p.ctx.Err() != nil) {
		return "", ErrPoolStopped
	}

	job := queued{id: uuid.NewString(), name: name, run: fn}
	select {
	case p.jobs <- job:
		return job.id, nil
	default:
		return "", ErrQueueFull
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.process(ctx, id, job)
		}
	}
}

func (p *Pool) process(ctx context.Context, workerID int, job queued) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked",
				zap.Int("worker", workerID),
				zap.String("job_id", job.id),
				zap.String("job", job.name),
				zap.Any("panic", r),
			)
		}
	}()

	if err := job.run(ctx); err != nil {
		p.logger.Error("job failed",
			zap.Int("worker", workerID),
			zap.String("job_id", job.id),
			zap.String("job", job.name),
			zap.Error(err),
		)
		return
	}

	p.logger.Debug("job completed",
		zap.Int("worker", workerID),
		zap.String("job_id", job.id),
		zap.String("job", job.name),
		zap.Duration("took", time.Since(started)),
	)
}
