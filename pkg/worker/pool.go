package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

var (
	ErrQueueFull  = errors.New("notification queue is full")
	ErrPoolClosed = errors.New("notification pool is closed")
)

// Handler delivers one job.
type Handler func(ctx context.Context, job *model.NotificationJob) error

type PoolConfig struct {
	Workers   int
	QueueSize int
	// JobTimeout bounds a single handler call.
	JobTimeout time.Duration
}

// Pool delivers notification jobs in process with a fixed number of
// goroutines reading from a bounded queue.
type Pool struct {
	config  PoolConfig
	handler Handler
	logger  *logger.Logger
	metrics *metrics.Metrics

	jobs   chan *model.NotificationJob
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewPool(config PoolConfig, handler Handler, logger *logger.Logger, metrics *metrics.Metrics) *Pool {
	// Config validation instead of defaults
	if config.Workers <= 0 {
		panic("Workers must be greater than 0")
	}
	if config.QueueSize <= 0 {
		panic("QueueSize must be greater than 0")
	}
	if config.JobTimeout <= 0 {
		panic("JobTimeout must be greater than 0")
	}

	return &Pool{
		config:  config,
		handler: handler,
		logger:  logger,
		metrics: metrics,
		jobs:    make(chan *model.NotificationJob, config.QueueSize),
	}
}

// Start launches the workers. They exit once Stop has drained the queue.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting notification pool", "workers", p.config.Workers)

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.metrics.NotificationQueueLength.Set(float64(len(p.jobs)))
				p.process(ctx, job)
			}
		}()
	}
}

func (p *Pool) process(ctx context.Context, job *model.NotificationJob) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(nil, "Notification handler panicked", "job_id", job.ID.String(), "panic", r)
		}
	}()

	// Jobs outlive the request that queued them; only the pool context and
	// the per-job timeout apply.
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.JobTimeout)
	defer cancel()

	if err := p.handler(jobCtx, job); err != nil {
		p.logger.Error(err, "Failed to deliver notification",
			"job_id", job.ID.String(),
			"channel", string(job.Channel))
	}
}

// Dispatch queues the job without blocking.
func (p *Pool) Dispatch(_ context.Context, job *model.NotificationJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		p.metrics.NotificationQueueLength.Set(float64(len(p.jobs)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new jobs, waits for queued ones to finish or ctx to end.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Notification pool stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
