package worker

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/datastructs/queue"
	"github.com/huynhanx03/go-sharedqueue/pkg/message"
	"github.com/huynhanx03/go-sharedqueue/pkg/mq/sink"
)

// Consumer drains the shared queue and hands each message to a sink.
type Consumer struct {
	id        int
	sink      sink.Sink
	workDelay time.Duration
	log       *zap.Logger

	consumed atomic.Int64
}

// NewConsumer creates reader id writing to s.
func NewConsumer(id int, s sink.Sink, workDelay time.Duration, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{
		id:        id,
		sink:      s,
		workDelay: workDelay,
		log:       log.With(zap.String("worker", "consumer"), zap.Int("consumer", id)),
	}
}

// ID returns the consumer number.
func (c *Consumer) ID() int { return c.id }

// Consumed returns how many messages this consumer took off the queue.
func (c *Consumer) Consumed() int64 { return c.consumed.Load() }

// Run dequeues until the queue is closed and drained. Shutdown happens
// through Close rather than ctx, so buffered messages are still delivered;
// ctx is passed to the sink.
func (c *Consumer) Run(ctx context.Context, q queue.Queue[message.Message]) error {
	for {
		msg, err := q.Dequeue()
		if errors.Is(err, queue.ErrQueueClosed) {
			c.log.Debug("queue closed, consumer exiting", zap.Int64("consumed", c.Consumed()))
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "consumer %d", c.id)
		}
		c.consumed.Add(1)

		if err := c.sink.Write(ctx, c.id, msg); err != nil {
			return errors.Wrapf(err, "consumer %d: sink write", c.id)
		}

		if c.workDelay > 0 {
			time.Sleep(c.workDelay)
		}
		runtime.Gosched()
	}
}
