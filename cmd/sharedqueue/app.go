package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/common/http/handler"
	"github.com/huynhanx03/go-sharedqueue/pkg/datastructs/queue"
	"github.com/huynhanx03/go-sharedqueue/pkg/message"
	"github.com/huynhanx03/go-sharedqueue/pkg/mq/sink"
	"github.com/huynhanx03/go-sharedqueue/pkg/mq/worker"
	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
	"github.com/huynhanx03/go-sharedqueue/pkg/timer"
	"github.com/huynhanx03/go-sharedqueue/pkg/unique"
	"github.com/huynhanx03/go-sharedqueue/pkg/utils"
)

const (
	clockStep       = time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// run wires one writer and the configured readers around a shared queue
// and blocks until the writer is done (or ctx ends) and the queue drains.
func run(ctx context.Context, cfg *settings.Config, log *zap.Logger) error {
	policy, err := queue.ParseOverflowPolicy(cfg.Queue.OverflowPolicy)
	if err != nil {
		return err
	}
	q, err := queue.NewBlocking[message.Message](cfg.Queue.Capacity, queue.WithOverflowPolicy(policy))
	if err != nil {
		return err
	}

	clock := timer.NewCachedTimer(clockStep)
	defer clock.Stop()

	ids, err := unique.NewGenerator(cfg.SnowflakeNode, clock)
	if err != nil {
		return err
	}

	out, err := buildSinks(cfg, log)
	if err != nil {
		return err
	}

	var srv *http.Server
	if cfg.Server.Port > 0 {
		srv = startServer(cfg.Server, q, log)
	}

	producer := worker.NewProducer(cfg.Producer, ids, clock, log)
	consumers := make([]*worker.Consumer, cfg.Consumer.Workers)
	for i := range consumers {
		consumers[i] = worker.NewConsumer(i+1, out, utils.ToDurationMs(cfg.Consumer.WorkDelay), log)
	}

	log.Info("sharedqueue started",
		zap.Int("capacity", q.Capacity()),
		zap.Stringer("overflow_policy", policy),
		zap.Int("consumers", len(consumers)),
		zap.Strings("sinks", cfg.Sinks),
	)

	_, runErr := worker.Run(ctx, q, producer, consumers, log)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("stats server shutdown", zap.Error(err))
		}
	}

	if err := out.Close(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "close sinks")
	}
	return runErr
}

// buildSinks opens every configured sink. On failure the already opened
// ones are closed.
func buildSinks(cfg *settings.Config, log *zap.Logger) (sink.Multi, error) {
	var out sink.Multi
	for _, name := range cfg.Sinks {
		var (
			s   sink.Sink
			err error
		)
		switch name {
		case "log":
			s = sink.NewLog(log)
		case "redis":
			s, err = sink.NewRedis(cfg.Redis, log)
		case "kafka":
			s, err = sink.NewKafka(cfg.Kafka, log)
		default:
			err = errors.Errorf("unknown sink %q", name)
		}
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func startServer(cfg settings.Server, q handler.QueueAdmin, log *zap.Logger) *http.Server {
	gin.SetMode(cfg.Mode)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           handler.NewRouter(q, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("stats server stopped", zap.Error(err))
		}
	}()
	log.Info("stats server listening", zap.String("addr", srv.Addr))
	return srv
}
