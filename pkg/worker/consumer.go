package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/messaging"
)

// QueueConsumer delivers jobs published to a broker queue by the API.
type QueueConsumer struct {
	queue      *messaging.JobQueue
	handler    Handler
	poll       time.Duration
	jobTimeout time.Duration
	logger     *logger.Logger
}

func NewQueueConsumer(queue *messaging.JobQueue, handler Handler, poll, jobTimeout time.Duration, logger *logger.Logger) *QueueConsumer {
	return &QueueConsumer{
		queue:      queue,
		handler:    handler,
		poll:       poll,
		jobTimeout: jobTimeout,
		logger:     logger,
	}
}

// Start blocks until ctx is cancelled.
func (c *QueueConsumer) Start(ctx context.Context) {
	c.logger.Info("Starting notification consumer")

	c.queue.Consume(ctx, c.poll, func(ctx context.Context, job *model.NotificationJob) error {
		jobCtx, cancel := context.WithTimeout(ctx, c.jobTimeout)
		defer cancel()
		return c.handler(jobCtx, job)
	}, func(err error) {
		c.logger.Error(err, "Notification consumer error")
	})

	c.logger.Info("Shutting down notification consumer")
}
