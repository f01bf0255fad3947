package sink

import (
	"context"
	"time"

	"github.com/pkg/errors"
	redisV9 "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/message"
	"github.com/huynhanx03/go-sharedqueue/pkg/mq/batcher"
	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
	"github.com/huynhanx03/go-sharedqueue/pkg/utils"
)

const (
	defaultRedisPoolSize     = 10
	defaultRedisDialTimeout  = 5 // seconds
	defaultRedisWriteTimeout = 3 // seconds
	pingTimeout              = 5 * time.Second
)

// ErrRedisPing is returned when the Redis server does not answer PING.
var ErrRedisPing = errors.New("sink: redis ping failed")

// Redis appends message bodies to a Redis list with RPUSH, one command
// per batch.
type Redis struct {
	client  *redisV9.Client
	key     string
	timeout time.Duration
	batch   *batcher.Batcher[message.Message]
	log     *zap.Logger
}

var _ Sink = (*Redis)(nil)

// NewRedis connects to the configured server and verifies it with PING.
func NewRedis(cfg settings.Redis, log *zap.Logger) (*Redis, error) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = defaultRedisPoolSize
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultRedisDialTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultRedisWriteTimeout
	}

	client := redisV9.NewClient(&redisV9.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.Database,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  utils.ToDuration(cfg.DialTimeout),
		WriteTimeout: utils.ToDuration(cfg.WriteTimeout),
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(ErrRedisPing, "%s: %v", cfg.Addr, err)
	}

	return NewRedisWithClient(client, cfg, log), nil
}

// NewRedisWithClient wraps an existing client. The sink owns the client
// and closes it on Close.
func NewRedisWithClient(client *redisV9.Client, cfg settings.Redis, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := utils.ToDuration(cfg.WriteTimeout)
	if timeout == 0 {
		timeout = utils.ToDuration(defaultRedisWriteTimeout)
	}

	r := &Redis{
		client:  client,
		key:     cfg.Key,
		timeout: timeout,
		log:     log.With(zap.String("sink", "redis"), zap.String("key", cfg.Key)),
	}
	r.batch = batcher.New[message.Message](r, batcher.Config{Size: cfg.BatchSize})
	return r
}

func (r *Redis) Write(_ context.Context, _ int, msg message.Message) error {
	return r.batch.Push(msg)
}

// Consume implements batcher.Consumer.
func (r *Redis) Consume(batch []message.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	values := make([]any, len(batch))
	for i, msg := range batch {
		values[i] = msg.Body()
	}

	if err := r.client.RPush(ctx, r.key, values...).Err(); err != nil {
		r.log.Error("rpush failed", zap.Int("batch", len(batch)), zap.Error(err))
		return errors.Wrapf(err, "rpush %d messages to %s", len(batch), r.key)
	}
	r.log.Debug("batch flushed", zap.Int("batch", len(batch)))
	return nil
}

// Close flushes pending messages and closes the client.
func (r *Redis) Close() error {
	return multierr.Append(r.batch.Close(), r.client.Close())
}
