package messaging

import (
	"context"
	"errors"
	"time"
)

// ErrNoMessage is returned by Receive when the wait timed out empty.
var ErrNoMessage = errors.New("no message available")

// Broker defines the interface for work queues
type Broker interface {
	// Publish appends a JSON encoded message to the queue.
	Publish(ctx context.Context, queue string, message interface{}) error
	// Receive pops the oldest message, waiting up to timeout.
	Receive(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
	Ping(ctx context.Context) error
	Close() error
}
