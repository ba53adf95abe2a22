package domain

import (
	"fmt"
	"math"
	"time"
)

// TimeSeries is an ordered sequence of (timestamp, value) observations.
// Timestamps are strictly increasing and values are finite. The series is
// immutable once constructed: accessors return copies and every
// transformation produces a new TimeSeries.
type TimeSeries struct {
	times  []time.Time
	values []float64
}

// NewTimeSeries validates and constructs a series from parallel slices.
// The input slices are copied.
func NewTimeSeries(times []time.Time, values []float64) (TimeSeries, error) {
	if len(times) != len(values) {
		return TimeSeries{}, fmt.Errorf(
			"%w: %d timestamps for %d values", ErrInvalidInput, len(times), len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return TimeSeries{}, fmt.Errorf("%w: non-finite value at index %d", ErrInvalidInput, i)
		}
		if i > 0 && !times[i].After(times[i-1]) {
			return TimeSeries{}, fmt.Errorf(
				"%w: timestamps not strictly increasing at index %d", ErrInvalidInput, i)
		}
	}

	ts := make([]time.Time, len(times))
	vs := make([]float64, len(values))
	copy(ts, times)
	copy(vs, values)
	return TimeSeries{times: ts, values: vs}, nil
}

// Len returns the number of observations.
func (s TimeSeries) Len() int { return len(s.values) }

// At returns the observation at index i.
func (s TimeSeries) At(i int) (time.Time, float64) { return s.times[i], s.values[i] }

// Time returns the timestamp at index i.
func (s TimeSeries) Time(i int) time.Time { return s.times[i] }

// Value returns the value at index i.
func (s TimeSeries) Value(i int) float64 { return s.values[i] }

// Times returns a copy of all timestamps.
func (s TimeSeries) Times() []time.Time {
	out := make([]time.Time, len(s.times))
	copy(out, s.times)
	return out
}

// Values returns a copy of all values.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Slice returns a new series covering [start, end).
func (s TimeSeries) Slice(start, end int) TimeSeries {
	if start < 0 {
		start = 0
	}
	if end > len(s.values) {
		end = len(s.values)
	}
	if start >= end {
		return TimeSeries{}
	}
	ts := make([]time.Time, end-start)
	vs := make([]float64, end-start)
	copy(ts, s.times[start:end])
	copy(vs, s.values[start:end])
	return TimeSeries{times: ts, values: vs}
}

// Start returns the first timestamp, or the zero time for an empty series.
func (s TimeSeries) Start() time.Time {
	if len(s.times) == 0 {
		return time.Time{}
	}
	return s.times[0]
}

// End returns the last timestamp, or the zero time for an empty series.
func (s TimeSeries) End() time.Time {
	if len(s.times) == 0 {
		return time.Time{}
	}
	return s.times[len(s.times)-1]
}

// Step returns the spacing between the last two observations. Series with
// fewer than two points have no cadence and report zero.
func (s TimeSeries) Step() time.Duration {
	n := len(s.times)
	if n < 2 {
		return 0
	}
	return s.times[n-1].Sub(s.times[n-2])
}

// SameShape reports whether two series have identical length and timestamps.
func (s TimeSeries) SameShape(other TimeSeries) bool {
	if len(s.times) != len(other.times) {
		return false
	}
	for i := range s.times {
		if !s.times[i].Equal(other.times[i]) {
			return false
		}
	}
	return true
}

// Mean returns the arithmetic mean of the values, or 0 for an empty series.
func (s TimeSeries) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values))
}

// Std returns the sample standard deviation of the values.
func (s TimeSeries) Std() float64 {
	n := len(s.values)
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// Split is a contiguous train/test partition of a series. Train followed by
// Test reconstructs the source series exactly.
type Split struct {
	Train TimeSeries
	Test  TimeSeries
}

// Horizon returns the length of the test partition, which is the forecast
// horizon every model is asked to cover.
func (sp Split) Horizon() int { return sp.Test.Len() }
