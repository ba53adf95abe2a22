package forecast

import (
	"fmt"

	"github.com/quantfold/marketcast/pkg/models/domain"
)

// EnsembleModel is the identifier of the combination forecast.
const EnsembleModel = "ensemble"

// Combine produces the equal-weight combination forecast: the elementwise
// mean of the inputs. Every expected input must be present and share
// identical length and timestamps; a missing or misaligned contribution is
// an alignment error rather than a silent reweighting.
func Combine(inputs []domain.ForecastResult, expected int) (domain.ForecastResult, error) {
	if len(inputs) != expected {
		return domain.ForecastResult{}, fmt.Errorf(
			"ensemble: got %d of %d forecasts: %w", len(inputs), expected, domain.ErrAlignment)
	}
	if len(inputs) == 0 {
		return domain.ForecastResult{}, fmt.Errorf(
			"ensemble: nothing to combine: %w", domain.ErrAlignment)
	}

	first := inputs[0].Series
	for _, in := range inputs[1:] {
		if !first.SameShape(in.Series) {
			return domain.ForecastResult{}, fmt.Errorf(
				"ensemble: %s forecast misaligned with %s: %w",
				in.Model, inputs[0].Model, domain.ErrAlignment)
		}
	}

	n := first.Len()
	mean := make([]float64, n)
	for _, in := range inputs {
		for i := 0; i < n; i++ {
			mean[i] += in.Series.Value(i)
		}
	}
	for i := range mean {
		mean[i] /= float64(len(inputs))
	}

	series, err := domain.NewTimeSeries(first.Times(), mean)
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("ensemble: %w", err)
	}
	return domain.ForecastResult{Model: EnsembleModel, Series: series}, nil
}
