package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/datastructs/queue"
	"github.com/huynhanx03/go-sharedqueue/pkg/message"
	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
	"github.com/huynhanx03/go-sharedqueue/pkg/timer"
	"github.com/huynhanx03/go-sharedqueue/pkg/utils"
)

// FullAction is what the producer does when Enqueue reports ErrQueueFull.
type FullAction int

const (
	// RetryWhenFull waits RetryBackoff and tries the same message again.
	RetryWhenFull FullAction = iota
	// DropWhenFull discards the message and moves on.
	DropWhenFull
)

// IDGenerator issues message IDs.
type IDGenerator interface {
	Next() int64
}

// Producer writes numbered text messages in bursts, like a writer thread
// adding BurstSize messages every Interval.
type Producer struct {
	ids          IDGenerator
	clock        timer.Clock
	log          *zap.Logger
	total        int
	burst        int
	interval     time.Duration
	prefix       string
	onFull       FullAction
	retryBackoff time.Duration

	produced atomic.Int64
	dropped  atomic.Int64
}

// NewProducer builds a producer from settings. clock may be nil.
func NewProducer(cfg settings.Producer, ids IDGenerator, clock timer.Clock, log *zap.Logger) *Producer {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	onFull := RetryWhenFull
	if cfg.OnFull == "drop" {
		onFull = DropWhenFull
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}

	return &Producer{
		ids:          ids,
		clock:        clock,
		log:          log.With(zap.String("worker", "producer")),
		total:        cfg.Messages,
		burst:        burst,
		interval:     utils.ToDurationMs(cfg.Interval),
		prefix:       cfg.MessagePrefix,
		onFull:       onFull,
		retryBackoff: utils.ToDurationMs(cfg.RetryBackoff),
	}
}

// Produced returns the number of messages accepted by the queue.
func (p *Producer) Produced() int64 { return p.produced.Load() }

// Dropped returns the number of messages discarded on a full queue.
func (p *Producer) Dropped() int64 { return p.dropped.Load() }

// Run produces until the configured total is reached, ctx is done or the
// queue is closed. Reaching the total or ctx cancellation ends the run
// without error.
func (p *Producer) Run(ctx context.Context, q queue.Queue[message.Message]) error {
	var ticker *time.Ticker
	if p.interval > 0 {
		ticker = time.NewTicker(p.interval)
		defer ticker.Stop()
	}

	sent := 0
	finished := func() bool {
		if p.total > 0 && sent == p.total {
			p.log.Info("producer finished", zap.Int("messages", sent))
			return true
		}
		return false
	}

	for {
		for i := 1; i <= p.burst; i++ {
			if finished() {
				return nil
			}

			body := fmt.Sprintf("%s %d", p.prefix, i)
			msg := message.NewString(p.ids.Next(), body, p.clock.Now())
			if err := p.enqueue(ctx, q, msg); err != nil {
				if isStop(err) {
					p.log.Info("producer stopped", zap.Int("messages", sent), zap.Error(err))
					return nil
				}
				return err
			}
			sent++
		}
		if finished() {
			return nil
		}

		if ticker == nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			p.log.Info("producer stopped", zap.Int("messages", sent))
			return nil
		case <-ticker.C:
		}
	}
}

// enqueue applies the full-queue policy. Every attempted message counts
// toward the total, whether stored or dropped.
func (p *Producer) enqueue(ctx context.Context, q queue.Queue[message.Message], msg message.Message) error {
	for {
		err := q.EnqueueContext(ctx, msg)
		switch {
		case err == nil:
			p.produced.Add(1)
			return nil
		case !errors.Is(err, queue.ErrQueueFull):
			return err
		case p.onFull == DropWhenFull:
			p.dropped.Add(1)
			p.log.Warn("queue full, message dropped", zap.Int64("id", msg.ID()))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.retryBackoff):
		}
	}
}

// isStop reports errors that end production without failing the run.
func isStop(err error) bool {
	return errors.Is(err, queue.ErrQueueClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
