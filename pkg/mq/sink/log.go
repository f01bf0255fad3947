package sink

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/message"
)

// Log reports each consumed message as an info entry.
type Log struct {
	log *zap.Logger
}

var _ Sink = (*Log)(nil)

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log}
}

func (l *Log) Write(_ context.Context, consumerID int, msg message.Message) error {
	l.log.Info("consumed",
		zap.Int("consumer", consumerID),
		zap.Int64("id", msg.ID()),
		zap.String("body", msg.String()),
		zap.Duration("latency", timeSince(msg)),
	)
	return nil
}

func (l *Log) Close() error {
	// Sync fails on terminals and pipes; consumed entries are already written.
	_ = l.log.Sync()
	return nil
}

// timeSince is the time a message spent between production and delivery.
func timeSince(msg message.Message) time.Duration {
	if msg.ProducedAt().IsZero() {
		return 0
	}
	return time.Since(msg.ProducedAt())
}
