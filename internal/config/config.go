package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Queue   QueueConfig   `mapstructure:"queue"`
	Detect  DetectConfig  `mapstructure:"detect"`
	Watcher WatcherConfig `mapstructure:"watcher"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "driftwatch")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "driftwatch-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// DetectConfig represents detection defaults applied when a request
// does not specify them
type DetectConfig struct {
	Algorithm      string  `mapstructure:"algorithm"`       // Default algorithm name
	ScoreThreshold float64 `mapstructure:"score_threshold"` // Default absolute score threshold
	PublishEvents  bool    `mapstructure:"publish_events"`  // Publish anomaly events to the queue
}

// WatcherConfig represents the stream watcher configuration
type WatcherConfig struct {
	Enabled    bool          `mapstructure:"enabled"`     // Enable the metric stream watcher
	Metrics    []string      `mapstructure:"metrics"`     // Metric names to subscribe to
	WindowSize int           `mapstructure:"window_size"` // Points kept per metric window
	MinPoints  int           `mapstructure:"min_points"`  // Minimum points before scoring a window
	Algorithm  string        `mapstructure:"algorithm"`   // Algorithm used for stream windows
	Interval   time.Duration `mapstructure:"interval"`    // Minimum delay between scoring passes per metric
}

// ExportConfig represents result export configuration
type ExportConfig struct {
	Dir string `mapstructure:"dir"` // Directory export files are written to
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json or console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr or a file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be in (0, 65535], got %d", c.Server.HTTPPort)
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth.enabled requires at least one api key")
	}
	if c.Watcher.Enabled && len(c.Watcher.Metrics) == 0 {
		return fmt.Errorf("watcher.enabled requires at least one metric")
	}
	if c.Watcher.WindowSize < 0 || c.Watcher.MinPoints < 0 {
		return fmt.Errorf("watcher window settings must not be negative")
	}
	return nil
}
