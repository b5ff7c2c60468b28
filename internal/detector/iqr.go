package detector

import (
	"sort"

	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// IQRDetector scores each point by how far it falls outside the
// interquartile fence [Q1 - k*IQR, Q3 + k*IQR], in units of IQR.
// More robust to existing outliers than z-scores. The multiplier k is
// the optional iqr_multiplier parameter (default 1.5).
type IQRDetector struct{}

func init() {
	Register("iqr", &IQRDetector{})
}

// Name returns the algorithm name
func (iqr *IQRDetector) Name() string {
	return "iqr"
}

// RequiredParams returns the required parameter names
func (iqr *IQRDetector) RequiredParams() []string {
	return nil
}

// RequiresBaseline reports whether a baseline series is needed
func (iqr *IQRDetector) RequiresBaseline() bool {
	return false
}

// Score computes interquartile-fence excursion scores
func (iqr *IQRDetector) Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error) {
	multiplier := params.FloatOr("iqr_multiplier", 1.5)
	if multiplier <= 0 {
		return nil, invalidInputf("iqr_multiplier must be positive, got %v", multiplier)
	}

	sortedValues := series.Values()
	sort.Float64s(sortedValues)

	q1 := percentileOf(sortedValues, 25)
	q3 := percentileOf(sortedValues, 75)
	iqrValue := q3 - q1

	lowerBound := q1 - multiplier*iqrValue
	upperBound := q3 + multiplier*iqrValue

	points := make([]timeseries.Point, series.Len())
	for i := 0; i < series.Len(); i++ {
		value := series.ValueAt(i)

		var score float64
		if value < lowerBound || value > upperBound {
			if iqrValue > 0 {
				if value < lowerBound {
					score = (lowerBound - value) / iqrValue
				} else {
					score = (value - upperBound) / iqrValue
				}
			} else {
				score = 1.0
			}
		}

		points[i] = timeseries.Point{Timestamp: series.TimestampAt(i), Value: score}
	}

	return timeseries.New(points), nil
}

// percentileOf calculates the p-th percentile of sorted data using
// linear interpolation. p should be between 0 and 100.
func percentileOf(sortedData []float64, p float64) float64 {
	if len(sortedData) == 0 {
		return 0
	}
	if len(sortedData) == 1 {
		return sortedData[0]
	}

	index := (p / 100) * float64(len(sortedData)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sortedData) {
		return sortedData[len(sortedData)-1]
	}

	weight := index - float64(lower)
	return sortedData[lower]*(1-weight) + sortedData[upper]*weight
}
