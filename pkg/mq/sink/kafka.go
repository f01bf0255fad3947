package sink

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-sharedqueue/pkg/message"
	"github.com/huynhanx03/go-sharedqueue/pkg/mq/batcher"
	"github.com/huynhanx03/go-sharedqueue/pkg/settings"
	"github.com/huynhanx03/go-sharedqueue/pkg/utils"
)

// Kafka publishes consumed messages to a topic through a synchronous
// producer, one SendMessages call per batch. Records are keyed by the
// big-endian message ID.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	batch    *batcher.Batcher[message.Message]
	log      *zap.Logger
}

var _ Sink = (*Kafka)(nil)

// NewKafkaConfig maps the Kafka settings onto a sarama producer config.
func NewKafkaConfig(cfg settings.Kafka) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = "sharedqueue"
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	if cfg.Timeout > 0 {
		sc.Producer.Timeout = utils.ToDuration(cfg.Timeout)
		sc.Net.DialTimeout = utils.ToDuration(cfg.Timeout)
	}
	if cfg.MaxRetries > 0 {
		sc.Producer.Retry.Max = cfg.MaxRetries
	}
	if cfg.RetryBackoff > 0 {
		sc.Producer.Retry.Backoff = utils.ToDurationMs(cfg.RetryBackoff)
	}
	return sc
}

// NewKafka dials the brokers and returns a sink writing to cfg.Topic.
func NewKafka(cfg settings.Kafka, log *zap.Logger) (*Kafka, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewKafkaConfig(cfg))
	if err != nil {
		return nil, errors.Wrapf(err, "kafka producer for %v", cfg.Brokers)
	}
	return NewKafkaWithProducer(producer, cfg, log), nil
}

// NewKafkaWithProducer wraps an existing producer. The sink owns the
// producer and closes it on Close.
func NewKafkaWithProducer(producer sarama.SyncProducer, cfg settings.Kafka, log *zap.Logger) *Kafka {
	if log == nil {
		log = zap.NewNop()
	}

	k := &Kafka{
		producer: producer,
		topic:    cfg.Topic,
		log:      log.With(zap.String("sink", "kafka"), zap.String("topic", cfg.Topic)),
	}
	k.batch = batcher.New[message.Message](k, batcher.Config{Size: cfg.BatchSize})
	return k
}

func (k *Kafka) Write(_ context.Context, _ int, msg message.Message) error {
	return k.batch.Push(msg)
}

// Consume implements batcher.Consumer.
func (k *Kafka) Consume(batch []message.Message) error {
	records := make([]*sarama.ProducerMessage, len(batch))
	for i, msg := range batch {
		records[i] = &sarama.ProducerMessage{
			Topic:     k.topic,
			Key:       sarama.ByteEncoder(msg.Key()),
			Value:     sarama.ByteEncoder(msg.Body()),
			Timestamp: msg.ProducedAt(),
		}
	}

	if err := k.producer.SendMessages(records); err != nil {
		k.log.Error("send failed", zap.Int("batch", len(batch)), zap.Error(err))
		return errors.Wrapf(err, "send %d messages to %s", len(batch), k.topic)
	}
	k.log.Debug("batch sent", zap.Int("batch", len(batch)))
	return nil
}

// Close flushes pending messages and closes the producer.
func (k *Kafka) Close() error {
	return multierr.Append(k.batch.Close(), k.producer.Close())
}
