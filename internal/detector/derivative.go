package detector

import (
	"math"

	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// DerivativeDetector scores each point by the absolute rate of change
// from its predecessor, normalized by the mean absolute derivative of
// the whole series. Flat stretches score zero; sharp transitions score
// high.
type DerivativeDetector struct{}

func init() {
	Register("derivative_detector", &DerivativeDetector{})
}

// Name returns the algorithm name
func (d *DerivativeDetector) Name() string {
	return "derivative_detector"
}

// RequiredParams returns the required parameter names
func (d *DerivativeDetector) RequiredParams() []string {
	return nil
}

// RequiresBaseline reports whether a baseline series is needed
func (d *DerivativeDetector) RequiresBaseline() bool {
	return false
}

// Score computes normalized absolute derivative scores
func (d *DerivativeDetector) Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error) {
	n := series.Len()

	derivatives := make([]float64, n)
	for i := 1; i < n; i++ {
		dt := series.TimestampAt(i) - series.TimestampAt(i-1)
		if dt <= 0 {
			dt = 1
		}
		derivatives[i] = math.Abs(series.ValueAt(i)-series.ValueAt(i-1)) / float64(dt)
	}
	if n > 1 {
		// The first point inherits the first real derivative so it is
		// not always treated as perfectly calm.
		derivatives[0] = derivatives[1]
	}

	var sum float64
	for _, dv := range derivatives {
		sum += dv
	}
	mean := sum / float64(n)

	points := make([]timeseries.Point, n)
	for i := 0; i < n; i++ {
		score := derivatives[i]
		if mean > 0 {
			score /= mean
		}
		points[i] = timeseries.Point{Timestamp: series.TimestampAt(i), Value: score}
	}

	return timeseries.New(points), nil
}
