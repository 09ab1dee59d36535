package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
)

// JobQueue moves notification jobs through a Broker queue.
type JobQueue struct {
	broker Broker
	queue  string
}

func NewJobQueue(broker Broker, queue string) *JobQueue {
	return &JobQueue{broker: broker, queue: queue}
}

// Dispatch publishes the job for a worker process to deliver.
func (q *JobQueue) Dispatch(ctx context.Context, job *model.NotificationJob) error {
	return q.broker.Publish(ctx, q.queue, job)
}

// Consume receives jobs and passes them to handler until ctx ends. Handler
// errors and undecodable messages are reported through onError and skipped.
func (q *JobQueue) Consume(ctx context.Context, poll time.Duration, handler func(context.Context, *model.NotificationJob) error, onError func(error)) {
	for ctx.Err() == nil {
		payload, err := q.broker.Receive(ctx, q.queue, poll)
		if errors.Is(err, ErrNoMessage) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			onError(fmt.Errorf("failed to receive job: %w", err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		var job model.NotificationJob
		if err := json.Unmarshal(payload, &job); err != nil {
			onError(fmt.Errorf("failed to decode job: %w", err))
			continue
		}
		if err := handler(ctx, &job); err != nil {
			onError(err)
		}
	}
}
