package worker

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-sharedqueue/pkg/datastructs/queue"
	"github.com/huynhanx03/go-sharedqueue/pkg/message"
)

// Report summarises a finished run.
type Report struct {
	Produced int64
	Dropped  int64
	Consumed []int64 // indexed by consumer position
}

// TotalConsumed sums Consumed.
func (r Report) TotalConsumed() int64 {
	var total int64
	for _, n := range r.Consumed {
		total += n
	}
	return total
}

// Run starts one producer and the given consumers on q and waits for all
// of them. The queue is closed when the producer returns for any reason or
// when a consumer fails, so the remaining consumers drain and stop.
func Run(ctx context.Context, q queue.Queue[message.Message], p *Producer, consumers []*Consumer, log *zap.Logger) (Report, error) {
	if log == nil {
		log = zap.NewNop()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer q.Close()
		return p.Run(gctx, q)
	})

	for _, c := range consumers {
		c := c
		g.Go(func() error {
			err := c.Run(ctx, q)
			if err != nil {
				q.Close()
			}
			return err
		})
	}

	err := g.Wait()

	report := Report{
		Produced: p.Produced(),
		Dropped:  p.Dropped(),
		Consumed: make([]int64, len(consumers)),
	}
	for i, c := range consumers {
		report.Consumed[i] = c.Consumed()
	}

	log.Info("run finished",
		zap.Int64("produced", report.Produced),
		zap.Int64("dropped", report.Dropped),
		zap.Int64("consumed", report.TotalConsumed()),
		zap.Error(err),
	)
	return report, err
}
