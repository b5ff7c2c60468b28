package detector

import (
	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// NoiseFraction is the fraction of the run's maximum score below which
// a score is treated as noise and zeroed.
const NoiseFraction = 0.001

// Denoise attenuates noise in a raw score series before interval
// extraction. Two passes over a snapshot of the input: scores under
// NoiseFraction of the maximum are zeroed, then surviving single-point
// spikes with zero on both sides are zeroed. The timestamp domain is
// preserved exactly; series boundaries count as zero neighbors.
func Denoise(scores *timeseries.TimeSeries) *timeseries.TimeSeries {
	points := scores.Points()

	max := scores.Max()
	if max <= 0 {
		return timeseries.New(points)
	}

	floor := max * NoiseFraction
	for i := range points {
		if points[i].Value < floor {
			points[i].Value = 0
		}
	}

	// Suppression decisions are made against the floored snapshot so
	// zeroing one point cannot cascade into its neighbors.
	snapshot := make([]float64, len(points))
	for i, p := range points {
		snapshot[i] = p.Value
	}
	for i := range points {
		if snapshot[i] <= 0 {
			continue
		}
		leftZero := i == 0 || snapshot[i-1] <= 0
		rightZero := i == len(points)-1 || snapshot[i+1] <= 0
		if leftZero && rightZero {
			points[i].Value = 0
		}
	}

	return timeseries.New(points)
}
