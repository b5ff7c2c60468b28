package models

import (
	"fmt"
	"sort"

	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// SeriesPayload is the wire form of a time series: either an ordered
// list of points or a timestamp-to-value map. Exactly the decoded JSON
// shapes the detect endpoints accept.
type SeriesPayload struct {
	Points []timeseries.Point `json:"points,omitempty"`
	Values map[string]float64 `json:"values,omitempty"`
}

// ToTimeSeries converts the payload to a TimeSeries. Map keys must be
// integer timestamps.
func (s *SeriesPayload) ToTimeSeries() (*timeseries.TimeSeries, error) {
	if s == nil {
		return nil, nil
	}
	if len(s.Points) > 0 {
		return timeseries.New(s.Points), nil
	}

	points := make([]timeseries.Point, 0, len(s.Values))
	for key, value := range s.Values {
		var ts int64
		if _, err := fmt.Sscanf(key, "%d", &ts); err != nil {
			return nil, fmt.Errorf("timestamp %q is not an integer", key)
		}
		points = append(points, timeseries.Point{Timestamp: ts, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
	return timeseries.New(points), nil
}

// IsEmpty reports whether the payload carries no data at all.
func (s *SeriesPayload) IsEmpty() bool {
	return s == nil || (len(s.Points) == 0 && len(s.Values) == 0)
}

// DetectRequest represents the detect request body
type DetectRequest struct {
	Metric          string                 `json:"metric"`                     // Metric name, used in anomaly events and exports
	Series          *SeriesPayload         `json:"series"`                     // Primary series (required)
	Baseline        *SeriesPayload         `json:"baseline,omitempty"`         // Optional baseline series
	Algorithm       string                 `json:"algorithm,omitempty"`        // Algorithm name (default from config)
	AlgorithmParams map[string]interface{} `json:"algorithm_params,omitempty"` // Open parameter bag
	ScoreOnly       bool                   `json:"score_only,omitempty"`       // Skip anomaly extraction
	ScoreThreshold  *float64               `json:"score_threshold,omitempty"`  // Absolute threshold
	ScorePercentile *float64               `json:"score_percentile,omitempty"` // Percentile threshold in (0,1)
}

// AnomalyResult is the wire form of one detected anomaly interval
type AnomalyResult struct {
	StartTimestamp int64   `json:"start_timestamp"`
	EndTimestamp   int64   `json:"end_timestamp"`
	ExactTimestamp int64   `json:"exact_timestamp"`
	Score          float64 `json:"score"`
}

// DetectResponse represents the detect response
type DetectResponse struct {
	Metric    string             `json:"metric,omitempty"`
	Algorithm string             `json:"algorithm"`
	Scores    []timeseries.Point `json:"scores"`
	Anomalies []AnomalyResult    `json:"anomalies"`
	RequestID string             `json:"request_id"`
}

// AlgorithmListResponse lists the registered algorithm names
type AlgorithmListResponse struct {
	Algorithms []string `json:"algorithms"`
}

// AnomalyEvent is the queue payload published for each detected
// anomaly interval
type AnomalyEvent struct {
	EventID        string  `json:"event_id"`
	Metric         string  `json:"metric"`
	Algorithm      string  `json:"algorithm"`
	StartTimestamp int64   `json:"start_timestamp"`
	EndTimestamp   int64   `json:"end_timestamp"`
	ExactTimestamp int64   `json:"exact_timestamp"`
	Score          float64 `json:"score"`
	DetectedAt     string  `json:"detected_at"`
}

// MetricPoint is the queue payload the stream watcher consumes
type MetricPoint struct {
	Metric    string  `json:"metric"`
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}
