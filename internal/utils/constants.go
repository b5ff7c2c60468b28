package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// PublishTimeout is the timeout for publishing anomaly events
	PublishTimeout = 5 * time.Second
)

// =============================================================================
// Detection Constants
// =============================================================================

const (
	// DefaultWindowSize is the default number of points a stream
	// watcher keeps per metric before running detection
	DefaultWindowSize = 60

	// MinWindowPoints is the minimum number of buffered points before
	// the watcher scores a window
	MinWindowPoints = 10
)

// =============================================================================
// Retry and Backoff Constants
// =============================================================================

const (
	// DefaultMaxRetries is the default number of retry attempts
	DefaultMaxRetries = 3

	// DefaultRetryBackoff is the default backoff duration between retries
	DefaultRetryBackoff = 100 * time.Millisecond
)

// =============================================================================
// Queue Subject Constants
// =============================================================================

const (
	// MetricSubjectPrefix is the subject prefix the watcher consumes
	// metric points from; the metric name is appended
	MetricSubjectPrefix = "metrics."

	// AnomalySubjectPrefix is the subject prefix anomaly events are
	// published to; the metric name is appended
	AnomalySubjectPrefix = "anomaly.detected."
)

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
