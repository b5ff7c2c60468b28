package watcher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/logging"
	"github.com/driftwatch/driftwatch/internal/models"
	"github.com/driftwatch/driftwatch/internal/queue"
	"github.com/driftwatch/driftwatch/internal/timeseries"
	"github.com/driftwatch/driftwatch/internal/utils"
)

// referencePoints is a flat stretch followed by a bump, which the
// default detector scores positive from the bump onward.
var referencePoints = []timeseries.Point{
	{Timestamp: 0, Value: 0}, {Timestamp: 1, Value: 0},
	{Timestamp: 2, Value: 0}, {Timestamp: 3, Value: 0},
	{Timestamp: 4, Value: 1}, {Timestamp: 5, Value: 2},
	{Timestamp: 6, Value: 2}, {Timestamp: 7, Value: 2},
	{Timestamp: 8, Value: 0},
}

func newTestWatcher(t *testing.T, cfg config.WatcherConfig) (*Watcher, *queue.MemoryQueue) {
	t.Helper()

	q, err := queue.NewQueue(config.QueueConfig{Type: string(utils.QueueTypeMemory)})
	require.NoError(t, err)
	mq := q.(*queue.MemoryQueue)
	t.Cleanup(func() { _ = mq.Close() })

	return New(logging.NewDevelopment(), mq, cfg), mq
}

func collectEvents(t *testing.T, mq *queue.MemoryQueue, metric string) <-chan models.AnomalyEvent {
	t.Helper()

	events := make(chan models.AnomalyEvent, 64)
	err := mq.Subscribe(utils.AnomalySubjectPrefix+metric, func(data []byte) error {
		var event models.AnomalyEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return err
		}
		events <- event
		return nil
	})
	require.NoError(t, err)
	return events
}

func TestWatcher_ObservePublishesAnomalies(t *testing.T) {
	w, mq := newTestWatcher(t, config.WatcherConfig{
		Metrics:    []string{"cpu_usage"},
		WindowSize: 32,
		MinPoints:  9,
	})
	events := collectEvents(t, mq, "cpu_usage")

	for _, p := range referencePoints {
		w.Observe("cpu_usage", p)
	}

	select {
	case event := <-events:
		assert.Equal(t, "cpu_usage", event.Metric)
		assert.Equal(t, "default_detector", event.Algorithm)
		assert.Greater(t, event.Score, 0.0)
		assert.GreaterOrEqual(t, event.ExactTimestamp, event.StartTimestamp)
		assert.LessOrEqual(t, event.ExactTimestamp, event.EndTimestamp)
		assert.NotEmpty(t, event.EventID)
	case <-time.After(2 * time.Second):
		t.Fatal("no anomaly event published")
	}
}

func TestWatcher_BelowMinPointsDoesNotScore(t *testing.T) {
	w, mq := newTestWatcher(t, config.WatcherConfig{
		Metrics:    []string{"cpu_usage"},
		WindowSize: 32,
		MinPoints:  20,
	})

	for _, p := range referencePoints {
		w.Observe("cpu_usage", p)
	}

	assert.Equal(t, 0, mq.GetPendingCount(utils.AnomalySubjectPrefix+"cpu_usage"))
}

func TestWatcher_WindowIsBounded(t *testing.T) {
	w, _ := newTestWatcher(t, config.WatcherConfig{
		Metrics:    []string{"cpu_usage"},
		WindowSize: 4,
		MinPoints:  100, // keep scoring out of the way
	})

	for i := 0; i < 20; i++ {
		w.Observe("cpu_usage", timeseries.Point{Timestamp: int64(i), Value: float64(i)})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	win := w.windows["cpu_usage"]
	require.NotNil(t, win)
	assert.Len(t, win.points, 4)
	assert.Equal(t, int64(19), win.points[3].Timestamp)
}

func TestWatcher_DoesNotRepublishSameAnomaly(t *testing.T) {
	w, mq := newTestWatcher(t, config.WatcherConfig{
		Metrics:    []string{"cpu_usage"},
		WindowSize: 32,
		MinPoints:  9,
	})
	events := collectEvents(t, mq, "cpu_usage")

	for _, p := range referencePoints {
		w.Observe("cpu_usage", p)
	}

	first := make([]models.AnomalyEvent, 0)
	deadline := time.After(2 * time.Second)
	select {
	case event := <-events:
		first = append(first, event)
	case <-deadline:
		t.Fatal("no anomaly event published")
	}

	// Re-observing a flat tail re-scores overlapping windows; the same
	// interval must not be reported again.
	w.Observe("cpu_usage", timeseries.Point{Timestamp: 9, Value: 0})
	w.Observe("cpu_usage", timeseries.Point{Timestamp: 10, Value: 0})

	select {
	case event := <-events:
		assert.Greater(t, event.ExactTimestamp, first[0].ExactTimestamp,
			"republished an already reported anomaly interval")
	case <-time.After(500 * time.Millisecond):
		// no further events, nothing was republished
	}
}

func TestWatcher_StreamEndToEnd(t *testing.T) {
	w, mq := newTestWatcher(t, config.WatcherConfig{
		Metrics:    []string{"latency_p99"},
		WindowSize: 32,
		MinPoints:  9,
	})
	events := collectEvents(t, mq, "latency_p99")

	require.NoError(t, w.Start())
	defer w.Stop()

	ctx := context.Background()
	for _, p := range referencePoints {
		data, err := json.Marshal(models.MetricPoint{
			Metric:    "latency_p99",
			Timestamp: p.Timestamp,
			Value:     p.Value,
		})
		require.NoError(t, err)
		require.NoError(t, mq.Publish(ctx, utils.MetricSubjectPrefix+"latency_p99", data))
	}

	select {
	case event := <-events:
		assert.Equal(t, "latency_p99", event.Metric)
		assert.Greater(t, event.Score, 0.0)
	case <-time.After(2 * time.Second):
		t.Fatal("no anomaly event published from the stream")
	}
}

func TestWatcher_MalformedPointIsDropped(t *testing.T) {
	w, _ := newTestWatcher(t, config.WatcherConfig{
		Metrics:    []string{"cpu_usage"},
		WindowSize: 8,
		MinPoints:  4,
	})

	handler := w.handleMessage("cpu_usage")
	assert.NoError(t, handler([]byte("not json")))

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Nil(t, w.windows["cpu_usage"])
}
