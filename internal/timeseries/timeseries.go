// Package timeseries provides the immutable time series container used
// by the analytics engine. A series is an ordered sequence of
// (timestamp, value) pairs with unique, ascending timestamps.
package timeseries

import "sort"

// Point is a single (timestamp, value) observation.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// TimeSeries is an ordered, immutable sequence of points. All
// transformations return new instances; the zero value is an empty
// series.
type TimeSeries struct {
	points []Point
}

// New creates a TimeSeries from the given points. The input is copied,
// sorted by timestamp and de-duplicated (last value wins for a
// repeated timestamp).
func New(points []Point) *TimeSeries {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	deduped := sorted[:0]
	for _, p := range sorted {
		if n := len(deduped); n > 0 && deduped[n-1].Timestamp == p.Timestamp {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	return &TimeSeries{points: deduped}
}

// FromMap creates a TimeSeries from a timestamp-to-value mapping.
func FromMap(m map[int64]float64) *TimeSeries {
	points := make([]Point, 0, len(m))
	for ts, v := range m {
		points = append(points, Point{Timestamp: ts, Value: v})
	}
	return New(points)
}

// Len returns the number of points in the series.
func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.points)
}

// TimestampAt returns the timestamp at position i.
func (ts *TimeSeries) TimestampAt(i int) int64 {
	return ts.points[i].Timestamp
}

// ValueAt returns the value at position i.
func (ts *TimeSeries) ValueAt(i int) float64 {
	return ts.points[i].Value
}

// PointAt returns the point at position i.
func (ts *TimeSeries) PointAt(i int) Point {
	return ts.points[i]
}

// Value looks up the value for a timestamp. The second return value
// reports whether the timestamp exists in the series.
func (ts *TimeSeries) Value(timestamp int64) (float64, bool) {
	i := sort.Search(ts.Len(), func(i int) bool {
		return ts.points[i].Timestamp >= timestamp
	})
	if i < ts.Len() && ts.points[i].Timestamp == timestamp {
		return ts.points[i].Value, true
	}
	return 0, false
}

// Timestamps returns a copy of the timestamp sequence in order.
func (ts *TimeSeries) Timestamps() []int64 {
	out := make([]int64, ts.Len())
	for i, p := range ts.points {
		out[i] = p.Timestamp
	}
	return out
}

// Values returns a copy of the value sequence in timestamp order.
func (ts *TimeSeries) Values() []float64 {
	out := make([]float64, ts.Len())
	for i, p := range ts.points {
		out[i] = p.Value
	}
	return out
}

// Points returns a copy of the underlying points in timestamp order.
func (ts *TimeSeries) Points() []Point {
	out := make([]Point, ts.Len())
	copy(out, ts.points)
	return out
}

// Equal reports whether both the timestamp and value sequences match.
func (ts *TimeSeries) Equal(other *TimeSeries) bool {
	if ts.Len() != other.Len() {
		return false
	}
	for i, p := range ts.points {
		if other.points[i] != p {
			return false
		}
	}
	return true
}

// Max returns the maximum value in the series. Returns 0 for an empty
// series.
func (ts *TimeSeries) Max() float64 {
	if ts.Len() == 0 {
		return 0
	}
	max := ts.points[0].Value
	for _, p := range ts.points[1:] {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

// Crop returns a new series restricted to timestamps in
// [start, end] inclusive.
func (ts *TimeSeries) Crop(start, end int64) *TimeSeries {
	cropped := make([]Point, 0)
	for _, p := range ts.points {
		if p.Timestamp >= start && p.Timestamp <= end {
			cropped = append(cropped, p)
		}
	}
	return &TimeSeries{points: cropped}
}
