// Package watcher consumes metric points from the queue, keeps a
// bounded sliding window per metric and runs anomaly detection on each
// window as it fills.
package watcher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/detector"
	"github.com/driftwatch/driftwatch/internal/logging"
	"github.com/driftwatch/driftwatch/internal/models"
	"github.com/driftwatch/driftwatch/internal/queue"
	"github.com/driftwatch/driftwatch/internal/timeseries"
	"github.com/driftwatch/driftwatch/internal/utils"
)

// window holds the recent points and scoring state for one metric
type window struct {
	points       []timeseries.Point
	lastRun      time.Time
	lastReported int64 // ExactTimestamp of the newest published anomaly
}

// Watcher subscribes to metric subjects and publishes anomaly events
// for windows that score above the threshold.
type Watcher struct {
	logger *logging.Logger
	queue  queue.Queue
	cfg    config.WatcherConfig

	mu      sync.Mutex
	windows map[string]*window
}

// New creates a new Watcher
func New(logger *logging.Logger, q queue.Queue, cfg config.WatcherConfig) *Watcher {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = utils.DefaultWindowSize
	}
	if cfg.MinPoints <= 0 {
		cfg.MinPoints = utils.MinWindowPoints
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = detector.DefaultAlgorithm
	}

	return &Watcher{
		logger:  logger,
		queue:   q,
		cfg:     cfg,
		windows: make(map[string]*window),
	}
}

// Start subscribes to all configured metric subjects
func (w *Watcher) Start() error {
	for _, metric := range w.cfg.Metrics {
		subject := utils.MetricSubjectPrefix + metric
		if err := w.queue.Subscribe(subject, w.handleMessage(metric)); err != nil {
			return err
		}
		w.logger.Info("Watching metric stream", "metric", metric, "subject", subject)
	}
	return nil
}

// Stop unsubscribes from all configured metric subjects
func (w *Watcher) Stop() {
	for _, metric := range w.cfg.Metrics {
		subject := utils.MetricSubjectPrefix + metric
		if err := w.queue.Unsubscribe(subject); err != nil {
			w.logger.Warn("Failed to unsubscribe", "subject", subject, "error", err)
		}
	}
}

// handleMessage returns the queue handler for one metric
func (w *Watcher) handleMessage(metric string) queue.MessageHandler {
	return func(data []byte) error {
		var point models.MetricPoint
		if err := json.Unmarshal(data, &point); err != nil {
			w.logger.Warn("Dropping malformed metric point", "metric", metric, "error", err)
			return nil
		}

		w.Observe(metric, timeseries.Point{Timestamp: point.Timestamp, Value: point.Value})
		return nil
	}
}

// Observe appends one point to the metric's window and scores the
// window when enough points have accumulated.
func (w *Watcher) Observe(metric string, point timeseries.Point) {
	w.mu.Lock()
	win, ok := w.windows[metric]
	if !ok {
		win = &window{points: make([]timeseries.Point, 0, w.cfg.WindowSize)}
		w.windows[metric] = win
	}

	win.points = append(win.points, point)
	if len(win.points) > w.cfg.WindowSize {
		win.points = win.points[len(win.points)-w.cfg.WindowSize:]
	}

	if len(win.points) < w.cfg.MinPoints {
		w.mu.Unlock()
		return
	}
	if w.cfg.Interval > 0 && time.Since(win.lastRun) < w.cfg.Interval {
		w.mu.Unlock()
		return
	}
	win.lastRun = time.Now()

	series := timeseries.New(win.points)
	lastReported := win.lastReported
	w.mu.Unlock()

	anomalies := w.score(metric, series)
	if len(anomalies) == 0 {
		return
	}

	// Windows overlap between passes; only report anomalies newer than
	// the last published one.
	fresh := make([]detector.Anomaly, 0, len(anomalies))
	newest := lastReported
	for _, a := range anomalies {
		if a.ExactTimestamp <= lastReported {
			continue
		}
		fresh = append(fresh, a)
		if a.ExactTimestamp > newest {
			newest = a.ExactTimestamp
		}
	}
	if len(fresh) == 0 {
		return
	}

	w.mu.Lock()
	if newest > win.lastReported {
		win.lastReported = newest
	}
	w.mu.Unlock()

	w.publish(metric, fresh)
}

// score runs the configured algorithm over one window
func (w *Watcher) score(metric string, series *timeseries.TimeSeries) []detector.Anomaly {
	d, err := detector.New(detector.Config{
		Series:        series,
		AlgorithmName: w.cfg.Algorithm,
	})
	if err != nil {
		w.logger.Error("Failed to score metric window",
			"metric", metric,
			"algorithm", w.cfg.Algorithm,
			"error", err)
		return nil
	}
	return d.GetAnomalies()
}

// publish publishes one event per fresh anomaly interval
func (w *Watcher) publish(metric string, anomalies []detector.Anomaly) {
	subject := utils.AnomalySubjectPrefix + metric

	messages := make([]queue.BatchMessage, 0, len(anomalies))
	for _, a := range anomalies {
		event := models.AnomalyEvent{
			EventID:        uuid.New().String(),
			Metric:         metric,
			Algorithm:      w.cfg.Algorithm,
			StartTimestamp: a.StartTimestamp,
			EndTimestamp:   a.EndTimestamp,
			ExactTimestamp: a.ExactTimestamp,
			Score:          a.Score,
			DetectedAt:     time.Now().UTC().Format(time.RFC3339),
		}

		data, err := json.Marshal(event)
		if err != nil {
			w.logger.Error("Failed to encode anomaly event", "metric", metric, "error", err)
			continue
		}
		messages = append(messages, queue.BatchMessage{Subject: subject, Data: data})
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.PublishTimeout)
	defer cancel()

	published, err := w.queue.PublishBatch(ctx, messages)
	if err != nil {
		w.logger.Error("Failed to publish anomaly events", "subject", subject, "error", err)
		return
	}

	w.logger.Debug("Stream anomalies published",
		"metric", metric,
		"subject", subject,
		"count", published)
}
