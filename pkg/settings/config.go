package settings

type Config struct {
	Queue         Queue         `mapstructure:"queue" yaml:"queue"`
	Producer      Producer      `mapstructure:"producer" yaml:"producer"`
	Consumer      Consumer      `mapstructure:"consumer" yaml:"consumer"`
	Logger        Logger        `mapstructure:"logger" yaml:"logger"`
	SnowflakeNode SnowflakeNode `mapstructure:"snowflake_node" yaml:"snowflake_node"`
	Sinks         []string      `mapstructure:"sinks" yaml:"sinks" validate:"dive,oneof=log redis kafka"`
	Redis         Redis         `mapstructure:"redis" yaml:"redis"`
	Kafka         Kafka         `mapstructure:"kafka" yaml:"kafka"`
	Server        Server        `mapstructure:"server" yaml:"server"`
}

// Queue is the configuration for the shared message queue
type Queue struct {
	Capacity       int    `mapstructure:"capacity" yaml:"capacity" validate:"gt=0"`
	OverflowPolicy string `mapstructure:"overflow_policy" yaml:"overflow_policy" validate:"omitempty,oneof=block reject"`
}

// Producer is the configuration for the message writer
type Producer struct {
	Messages      int    `mapstructure:"messages" yaml:"messages" validate:"gte=0"` // 0 runs until cancelled
	BurstSize     int    `mapstructure:"burst_size" yaml:"burst_size" validate:"gt=0"`
	Interval      int    `mapstructure:"interval_ms" yaml:"interval_ms" validate:"gte=0"` // Milliseconds
	MessagePrefix string `mapstructure:"message_prefix" yaml:"message_prefix"`
	OnFull        string `mapstructure:"on_full" yaml:"on_full" validate:"omitempty,oneof=drop retry"`
	RetryBackoff  int    `mapstructure:"retry_backoff_ms" yaml:"retry_backoff_ms" validate:"gte=0"` // Milliseconds
}

// Consumer is the configuration for the message readers
type Consumer struct {
	Workers   int `mapstructure:"workers" yaml:"workers" validate:"gt=0"`
	WorkDelay int `mapstructure:"work_delay_ms" yaml:"work_delay_ms" validate:"gte=0"` // Milliseconds
}

// Server is the configuration for the stats HTTP server
type Server struct {
	Mode string `mapstructure:"mode" yaml:"mode" validate:"omitempty,oneof=debug release test"`
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"` // 0 disables the server
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	FileLogName string `mapstructure:"file_log_name" yaml:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// Redis is the configuration for the Redis list sink
type Redis struct {
	Addr         string `mapstructure:"addr" yaml:"addr"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     int    `mapstructure:"database" yaml:"database"`
	Key          string `mapstructure:"key" yaml:"key"`
	PoolSize     int    `mapstructure:"pool_size" yaml:"pool_size"`
	DialTimeout  int    `mapstructure:"dial_timeout" yaml:"dial_timeout"`   // Seconds
	WriteTimeout int    `mapstructure:"write_timeout" yaml:"write_timeout"` // Seconds
	BatchSize    int    `mapstructure:"batch_size" yaml:"batch_size"`
}

// Kafka is the configuration for the Kafka sink
type Kafka struct {
	Brokers      []string `mapstructure:"brokers" yaml:"brokers"`
	Topic        string   `mapstructure:"topic" yaml:"topic"`
	Timeout      int      `mapstructure:"timeout" yaml:"timeout"`             // Seconds
	MaxRetries   int      `mapstructure:"max_retries" yaml:"max_retries"`     // Number of retries
	RetryBackoff int      `mapstructure:"retry_backoff" yaml:"retry_backoff"` // Milliseconds
	BatchSize    int      `mapstructure:"batch_size" yaml:"batch_size"`
}

type Snowflake struct {
	Epoch     int64 `mapstructure:"epoch" yaml:"epoch"`
	Node      uint8 `mapstructure:"node" yaml:"node"`
	Step      uint8 `mapstructure:"step" yaml:"step"`
	TotalBits uint8 `mapstructure:"total_bits" yaml:"total_bits"`
}

type SnowflakeNode struct {
	Config   Snowflake `mapstructure:"config" yaml:"config"`
	WorkerID int64     `mapstructure:"worker_id" yaml:"worker_id"`
}
