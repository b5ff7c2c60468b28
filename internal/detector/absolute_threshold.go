package detector

import (
	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// AbsoluteThresholdDetector scores each point by how far it falls
// outside a fixed [lower, upper] value band. Points inside the band
// score zero; points outside score the size of the excursion.
type AbsoluteThresholdDetector struct{}

func init() {
	Register("absolute_threshold", &AbsoluteThresholdDetector{})
}

// Name returns the algorithm name
func (a *AbsoluteThresholdDetector) Name() string {
	return "absolute_threshold"
}

// RequiredParams returns the required parameter names
func (a *AbsoluteThresholdDetector) RequiredParams() []string {
	return []string{"absolute_threshold_value_upper", "absolute_threshold_value_lower"}
}

// RequiresBaseline reports whether a baseline series is needed
func (a *AbsoluteThresholdDetector) RequiresBaseline() bool {
	return false
}

// Score computes band-excursion scores
func (a *AbsoluteThresholdDetector) Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error) {
	upper, _ := params.Float("absolute_threshold_value_upper")
	lower, _ := params.Float("absolute_threshold_value_lower")

	points := make([]timeseries.Point, series.Len())
	for i := 0; i < series.Len(); i++ {
		value := series.ValueAt(i)

		var score float64
		switch {
		case value > upper:
			score = value - upper
		case value < lower:
			score = lower - value
		}

		points[i] = timeseries.Point{Timestamp: series.TimestampAt(i), Value: score}
	}

	return timeseries.New(points), nil
}
