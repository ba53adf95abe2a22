// Package transform turns a raw price series into the log-return series the
// models are fitted on, and partitions it into training and testing windows.
package transform

import (
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/domain"
)

// LogReturns converts a price series into log-returns:
// r[i] = ln(p[i+1]) - ln(p[i]). The result is one observation shorter than
// the input and carries the timestamps of the later price of each pair.
func LogReturns(prices domain.TimeSeries) (domain.TimeSeries, error) {
	n := prices.Len()
	if n < 2 {
		return domain.TimeSeries{}, fmt.Errorf(
			"log returns: need at least 2 prices, got %d: %w", n, domain.ErrInvalidInput)
	}

	times := prices.Times()
	values := prices.Values()
	returns := make([]float64, n-1)
	for i := 1; i < n; i++ {
		if values[i-1] <= 0 || values[i] <= 0 {
			return domain.TimeSeries{}, fmt.Errorf(
				"log returns: non-positive price at index %d: %w", i, domain.ErrInvalidInput)
		}
		returns[i-1] = math.Log(values[i]) - math.Log(values[i-1])
	}

	return domain.NewTimeSeries(times[1:], returns)
}

// Split partitions a series into a contiguous training prefix and testing
// suffix. The train length is floor(ratio * n); the remainder is the test
// window and the forecast horizon.
func Split(series domain.TimeSeries, ratio float64) (domain.Split, error) {
	if ratio <= 0 || ratio >= 1 {
		return domain.Split{}, fmt.Errorf(
			"split: ratio %v outside (0,1): %w", ratio, domain.ErrInvalidInput)
	}

	n := series.Len()
	trainLen := int(math.Floor(ratio * float64(n)))
	if trainLen == 0 || trainLen == n {
		return domain.Split{}, fmt.Errorf(
			"split: %d observations leave an empty partition at ratio %v: %w",
			n, ratio, domain.ErrInsufficientData)
	}

	return domain.Split{
		Train: series.Slice(0, trainLen),
		Test:  series.Slice(trainLen, n),
	}, nil
}
