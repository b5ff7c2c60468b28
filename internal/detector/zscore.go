package detector

import (
	"math"

	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// ZScoreDetector scores each point by how many standard deviations it
// sits from the series mean. A flat series (zero standard deviation)
// scores zero everywhere.
type ZScoreDetector struct{}

func init() {
	Register("zscore", &ZScoreDetector{})
}

// Name returns the algorithm name
func (z *ZScoreDetector) Name() string {
	return "zscore"
}

// RequiredParams returns the required parameter names
func (z *ZScoreDetector) RequiredParams() []string {
	return nil
}

// RequiresBaseline reports whether a baseline series is needed
func (z *ZScoreDetector) RequiresBaseline() bool {
	return false
}

// Score computes absolute z-scores
func (z *ZScoreDetector) Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error) {
	mean, stdDev := CalculateMeanStdDev(series.Values())

	points := make([]timeseries.Point, series.Len())
	for i := 0; i < series.Len(); i++ {
		var score float64
		if stdDev > 0 {
			score = math.Abs(series.ValueAt(i)-mean) / stdDev
		}
		points[i] = timeseries.Point{Timestamp: series.TimestampAt(i), Value: score}
	}

	return timeseries.New(points), nil
}

// CalculateMeanStdDev calculates mean and standard deviation for a slice of values
func CalculateMeanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	stdDev = math.Sqrt(varianceSum / float64(len(values)))

	return mean, stdDev
}
