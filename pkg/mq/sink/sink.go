package sink

import (
	"context"

	"go.uber.org/multierr"

	"github.com/huynhanx03/go-sharedqueue/pkg/message"
)

// Sink receives messages after a consumer has taken them off the queue.
// Write is called outside the queue lock and may be slow.
type Sink interface {
	Write(ctx context.Context, consumerID int, msg message.Message) error
	Close() error
}

// Multi fans every message out to all sinks in order.
type Multi []Sink

var _ Sink = Multi(nil)

// Write stops at the first failing sink.
func (m Multi) Write(ctx context.Context, consumerID int, msg message.Message) error {
	for _, s := range m {
		if err := s.Write(ctx, consumerID, msg); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and combines their errors.
func (m Multi) Close() error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Close())
	}
	return err
}
