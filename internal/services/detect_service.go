package services

import (
	"context"
	"encoding/json"
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

// DetectService runs detection requests and publishes anomaly events
type DetectService struct {
	logger    *logging.Logger
	publisher queue.Publisher
	defaults  config.DetectConfig
}

// NewDetectService creates a new DetectService
func NewDetectService(logger *logging.Logger, publisher queue.Publisher, defaults config.DetectConfig) *DetectService {
	return &DetectService{
		logger:    logger,
		publisher: publisher,
		defaults:  defaults,
	}
}

// DetectionResult holds the outcome of one detection run
type DetectionResult struct {
	Metric    string
	Algorithm string
	RequestID string
	Scores    *timeseries.TimeSeries
	Anomalies []detector.Anomaly
}

// Execute validates the request, runs the detection engine and, when
// configured, publishes one anomaly event per detected interval.
func (s *DetectService) Execute(ctx context.Context, req *models.DetectRequest) (*DetectionResult, error) {
	startTime := time.Now()

	series, baseline, err := s.buildSeries(req)
	if err != nil {
		return nil, err
	}

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = s.defaults.Algorithm
	}

	cfg := detector.Config{
		Series:          series,
		Baseline:        baseline,
		AlgorithmName:   algorithm,
		ScoreOnly:       req.ScoreOnly,
		ScoreThreshold:  req.ScoreThreshold,
		ScorePercentile: req.ScorePercentile,
	}
	if req.AlgorithmParams != nil {
		cfg.AlgorithmParams = req.AlgorithmParams
	}
	// Configured default threshold applies only when the request sets
	// neither threshold policy.
	if cfg.ScoreThreshold == nil && cfg.ScorePercentile == nil && s.defaults.ScoreThreshold != 0 {
		threshold := s.defaults.ScoreThreshold
		cfg.ScoreThreshold = &threshold
	}

	d, err := detector.New(cfg)
	if err != nil {
		s.logger.Warn("Detection rejected",
			"metric", req.Metric,
			"algorithm", algorithm,
			"error", err)
		return nil, fromDetectorError(err)
	}

	result := &DetectionResult{
		Metric:    req.Metric,
		Algorithm: d.AlgorithmName(),
		RequestID: uuid.New().String(),
		Scores:    d.GetAllScores(),
		Anomalies: d.GetAnomalies(),
	}

	if s.defaults.PublishEvents && len(result.Anomalies) > 0 {
		s.publishEvents(ctx, result)
	}

	s.logger.Debug("Detection completed",
		"metric", req.Metric,
		"algorithm", result.Algorithm,
		"points", series.Len(),
		"anomalies", len(result.Anomalies),
		"latency_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// buildSeries converts the wire payloads into engine series
func (s *DetectService) buildSeries(req *models.DetectRequest) (series, baseline *timeseries.TimeSeries, err error) {
	if req.Series.IsEmpty() {
		return nil, nil, NewServiceError(CodeInvalidInput, "series is required and must not be empty")
	}

	series, err = req.Series.ToTimeSeries()
	if err != nil {
		return nil, nil, NewServiceError(CodeInvalidInput, err.Error())
	}

	if !req.Baseline.IsEmpty() {
		baseline, err = req.Baseline.ToTimeSeries()
		if err != nil {
			return nil, nil, NewServiceError(CodeInvalidInput, err.Error())
		}
	}

	return series, baseline, nil
}

// publishEvents publishes one event per anomaly interval. Publish
// failures are logged, not surfaced: the detection result is already
// computed and valid.
func (s *DetectService) publishEvents(ctx context.Context, result *DetectionResult) {
	if s.publisher == nil {
		return
	}

	subject := utils.AnomalySubjectPrefix + result.Metric
	if result.Metric == "" {
		subject = utils.AnomalySubjectPrefix + "unnamed"
	}

	messages := make([]queue.BatchMessage, 0, len(result.Anomalies))
	for _, a := range result.Anomalies {
		event := models.AnomalyEvent{
			EventID:        uuid.New().String(),
			Metric:         result.Metric,
			Algorithm:      result.Algorithm,
			StartTimestamp: a.StartTimestamp,
			EndTimestamp:   a.EndTimestamp,
			ExactTimestamp: a.ExactTimestamp,
			Score:          a.Score,
			DetectedAt:     time.Now().UTC().Format(time.RFC3339),
		}

		data, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("Failed to encode anomaly event", "error", err)
			continue
		}
		messages = append(messages, queue.BatchMessage{Subject: subject, Data: data})
	}

	publishCtx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
	defer cancel()

	published, err := s.publisher.PublishBatch(publishCtx, messages)
	if err != nil {
		s.logger.Error("Failed to publish anomaly events",
			"subject", subject,
			"error", err)
		return
	}

	s.logger.Debug("Anomaly events published",
		"subject", subject,
		"count", published)
}
