package detector

import (
	"math"

	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// DefaultSmoothingFactor is the exponential smoothing factor used when
// the caller does not supply one.
const DefaultSmoothingFactor = 0.2

// ExpAvgDetector scores each point by its distance from the
// exponential moving average of the preceding points, normalized by
// the standard deviation of the series. Stable series score near zero;
// level shifts and spikes score high.
type ExpAvgDetector struct{}

func init() {
	Register("exp_avg_detector", &ExpAvgDetector{})
}

// Name returns the algorithm name
func (e *ExpAvgDetector) Name() string {
	return "exp_avg_detector"
}

// RequiredParams returns the required parameter names
func (e *ExpAvgDetector) RequiredParams() []string {
	return nil
}

// RequiresBaseline reports whether a baseline series is needed
func (e *ExpAvgDetector) RequiresBaseline() bool {
	return false
}

// Score computes exponential-moving-average deviation scores
func (e *ExpAvgDetector) Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error) {
	smoothing := params.FloatOr("smoothing_factor", DefaultSmoothingFactor)
	if smoothing <= 0 || smoothing > 1 {
		return nil, invalidInputf("smoothing_factor must be in (0, 1], got %v", smoothing)
	}

	_, stdDev := CalculateMeanStdDev(series.Values())

	points := make([]timeseries.Point, series.Len())
	ema := series.ValueAt(0)
	for i := 0; i < series.Len(); i++ {
		value := series.ValueAt(i)

		score := math.Abs(value - ema)
		if i == 0 {
			score = 0
		}
		if stdDev > 0 {
			score /= stdDev
		}

		points[i] = timeseries.Point{Timestamp: series.TimestampAt(i), Value: score}
		ema = smoothing*value + (1-smoothing)*ema
	}

	return timeseries.New(points), nil
}
