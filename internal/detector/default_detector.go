package detector

import (
	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// DefaultDetector combines the exponential-average and derivative
// detectors by averaging their scores per point. It needs no
// parameters and no baseline, which makes it the safe choice when the
// caller does not know the shape of the data.
type DefaultDetector struct{}

func init() {
	Register(DefaultAlgorithm, &DefaultDetector{})
}

// Name returns the algorithm name
func (d *DefaultDetector) Name() string {
	return DefaultAlgorithm
}

// RequiredParams returns the required parameter names
func (d *DefaultDetector) RequiredParams() []string {
	return nil
}

// RequiresBaseline reports whether a baseline series is needed
func (d *DefaultDetector) RequiresBaseline() bool {
	return false
}

// Score averages exponential-average and derivative scores
func (d *DefaultDetector) Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error) {
	expAvg, err := (&ExpAvgDetector{}).Score(series, baseline, params)
	if err != nil {
		return nil, err
	}

	derivative, err := (&DerivativeDetector{}).Score(series, baseline, params)
	if err != nil {
		return nil, err
	}

	points := make([]timeseries.Point, series.Len())
	for i := 0; i < series.Len(); i++ {
		points[i] = timeseries.Point{
			Timestamp: series.TimestampAt(i),
			Value:     (expAvg.ValueAt(i) + derivative.ValueAt(i)) / 2,
		}
	}

	return timeseries.New(points), nil
}
