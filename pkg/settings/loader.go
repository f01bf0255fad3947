package settings

import (
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultCapacity       = 100
	defaultOverflowPolicy = "block"
	defaultBurstSize      = 5
	defaultInterval       = 1000 // millis
	defaultMessagePrefix  = "Message"
	defaultOnFull         = "retry"
	defaultRetryBackoff   = 10 // millis
	defaultWorkers        = 5
	defaultLogLevel       = "info"
	defaultSink           = "log"
	defaultServerMode     = "release"
	defaultRedisKey       = "sharedqueue:consumed"
	defaultKafkaTimeout   = 5 // seconds
	defaultBatchSize      = 64
	defaultSnowflakeEpoch = 1704067200000 // 2024-01-01T00:00:00Z in millis
	defaultSnowflakeNode  = 10
	defaultSnowflakeStep  = 12
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateSinks, Config{})
	return v
}

// Default returns the configuration of the demo writer/reader session:
// a 100 slot queue, 5 readers and bursts of 5 messages per second.
func Default() *Config {
	cfg := &Config{
		Producer: Producer{Interval: defaultInterval},
	}
	cfg.setDefaults()
	return cfg
}

// Load reads a YAML configuration file, fills unset fields with defaults
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and sink requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// setDefaults fills zero values. Producer.Interval and Messages keep
// zero as a meaningful value (no pause, run until cancelled).
func (c *Config) setDefaults() {
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = defaultCapacity
	}
	if c.Queue.OverflowPolicy == "" {
		c.Queue.OverflowPolicy = defaultOverflowPolicy
	}
	if c.Producer.BurstSize == 0 {
		c.Producer.BurstSize = defaultBurstSize
	}
	if c.Producer.MessagePrefix == "" {
		c.Producer.MessagePrefix = defaultMessagePrefix
	}
	if c.Producer.OnFull == "" {
		c.Producer.OnFull = defaultOnFull
	}
	if c.Producer.RetryBackoff == 0 {
		c.Producer.RetryBackoff = defaultRetryBackoff
	}
	if c.Consumer.Workers == 0 {
		c.Consumer.Workers = defaultWorkers
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaultLogLevel
	}
	if len(c.Sinks) == 0 {
		c.Sinks = []string{defaultSink}
	}
	if c.Server.Mode == "" {
		c.Server.Mode = defaultServerMode
	}
	if c.Redis.Key == "" {
		c.Redis.Key = defaultRedisKey
	}
	if c.Redis.BatchSize == 0 {
		c.Redis.BatchSize = defaultBatchSize
	}
	if c.Kafka.Timeout == 0 {
		c.Kafka.Timeout = defaultKafkaTimeout
	}
	if c.Kafka.BatchSize == 0 {
		c.Kafka.BatchSize = defaultBatchSize
	}
	if c.SnowflakeNode.Config == (Snowflake{}) {
		c.SnowflakeNode.Config = Snowflake{
			Epoch: defaultSnowflakeEpoch,
			Node:  defaultSnowflakeNode,
			Step:  defaultSnowflakeStep,
		}
	}
}

// validateSinks requires the connection settings of every enabled sink.
func validateSinks(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	if slices.Contains(cfg.Sinks, "redis") && cfg.Redis.Addr == "" {
		sl.ReportError(cfg.Redis.Addr, "Redis.Addr", "Addr", "required_for_redis_sink", "")
	}
	if slices.Contains(cfg.Sinks, "kafka") {
		if len(cfg.Kafka.Brokers) == 0 {
			sl.ReportError(cfg.Kafka.Brokers, "Kafka.Brokers", "Brokers", "required_for_kafka_sink", "")
		}
		if cfg.Kafka.Topic == "" {
			sl.ReportError(cfg.Kafka.Topic, "Kafka.Topic", "Topic", "required_for_kafka_sink", "")
		}
	}
}
