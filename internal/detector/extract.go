package detector

import (
	"math"
	"sort"

	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// Anomaly represents one detected anomalous interval.
type Anomaly struct {
	// StartTimestamp is the first timestamp of the interval
	StartTimestamp int64 `json:"start_timestamp"`

	// EndTimestamp is the last timestamp of the interval
	EndTimestamp int64 `json:"end_timestamp"`

	// ExactTimestamp is the timestamp of the peak score within the
	// interval (earliest on ties)
	ExactTimestamp int64 `json:"exact_timestamp"`

	// Score is the peak score within the interval
	Score float64 `json:"score"`
}

// extractAnomalies walks the denoised score series in timestamp order
// and closes an interval for every maximal run of points whose score
// strictly exceeds the threshold. The result is sorted by score
// descending; ties keep their temporal order.
func extractAnomalies(scores *timeseries.TimeSeries, threshold float64) []Anomaly {
	anomalies := []Anomaly{}

	runStart := -1
	for i := 0; i <= scores.Len(); i++ {
		active := i < scores.Len() && scores.ValueAt(i) > threshold
		if active {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart < 0 {
			continue
		}

		anomalies = append(anomalies, closeRun(scores, runStart, i-1))
		runStart = -1
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Score > anomalies[j].Score
	})

	return anomalies
}

// closeRun builds the Anomaly for the run of active points [start, end].
func closeRun(scores *timeseries.TimeSeries, start, end int) Anomaly {
	peak := start
	for i := start + 1; i <= end; i++ {
		if scores.ValueAt(i) > scores.ValueAt(peak) {
			peak = i
		}
	}

	return Anomaly{
		StartTimestamp: scores.TimestampAt(start),
		EndTimestamp:   scores.TimestampAt(end),
		ExactTimestamp: scores.TimestampAt(peak),
		Score:          scores.ValueAt(peak),
	}
}

// percentileThreshold returns the score at the given percentile
// (0 < p < 1) of the run's score distribution. Points must strictly
// exceed this value to be anomalous.
func percentileThreshold(scores *timeseries.TimeSeries, p float64) float64 {
	values := scores.Values()
	sort.Float64s(values)

	rank := int(math.Ceil(p*float64(len(values)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(values) {
		rank = len(values) - 1
	}
	return values[rank]
}
