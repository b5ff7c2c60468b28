package detector

import (
	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// DiffPercentThresholdDetector scores each point by its percentage
// difference from the baseline series at the same position. A point
// scores only when the difference crosses the configured upper or
// lower percent threshold.
type DiffPercentThresholdDetector struct{}

func init() {
	Register("diff_percent_threshold", &DiffPercentThresholdDetector{})
}

// Name returns the algorithm name
func (d *DiffPercentThresholdDetector) Name() string {
	return "diff_percent_threshold"
}

// RequiredParams returns the required parameter names
func (d *DiffPercentThresholdDetector) RequiredParams() []string {
	return []string{"percent_threshold_upper", "percent_threshold_lower"}
}

// RequiresBaseline reports whether a baseline series is needed
func (d *DiffPercentThresholdDetector) RequiresBaseline() bool {
	return true
}

// Score computes percent-difference-vs-baseline scores
func (d *DiffPercentThresholdDetector) Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error) {
	if baseline.Len() < series.Len() {
		return nil, invalidInputf("baseline series has %d points, primary series has %d",
			baseline.Len(), series.Len())
	}

	upper, _ := params.Float("percent_threshold_upper")
	lower, _ := params.Float("percent_threshold_lower")

	points := make([]timeseries.Point, series.Len())
	for i := 0; i < series.Len(); i++ {
		value := series.ValueAt(i)
		baselineValue := baseline.ValueAt(i)

		var diffPercent float64
		switch {
		case baselineValue > 0:
			diffPercent = 100 * (value - baselineValue) / baselineValue
		case value > 0:
			diffPercent = 100
		}

		var score float64
		if diffPercent > 0 && diffPercent > upper {
			score = diffPercent
		}
		if diffPercent < 0 && diffPercent < lower {
			score = -diffPercent
		}

		points[i] = timeseries.Point{Timestamp: series.TimestampAt(i), Value: score}
	}

	return timeseries.New(points), nil
}
