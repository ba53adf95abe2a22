package forecast

import (
	"testing"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastAt(t *testing.T, model string, values []float64) domain.ForecastResult {
	t.Helper()
	return domain.ForecastResult{Model: model, Series: hourly(t, values)}
}

func TestCombine(t *testing.T) {
	t.Run("identical inputs combine to themselves", func(t *testing.T) {
		inputs := []domain.ForecastResult{
			forecastAt(t, "a", []float64{1, 2, 3}),
			forecastAt(t, "b", []float64{1, 2, 3}),
		}

		combined, err := Combine(inputs, 2)
		require.NoError(t, err)

		assert.Equal(t, EnsembleModel, combined.Model)
		assert.Equal(t, []float64{1, 2, 3}, combined.Series.Values())
	})

	t.Run("elementwise mean", func(t *testing.T) {
		inputs := []domain.ForecastResult{
			forecastAt(t, "a", []float64{1, 1, 1}),
			forecastAt(t, "b", []float64{3, 5, 7}),
		}

		combined, err := Combine(inputs, 2)
		require.NoError(t, err)

		assert.Equal(t, []float64{2, 3, 4}, combined.Series.Values())
	})

	t.Run("missing contribution is an alignment error", func(t *testing.T) {
		inputs := []domain.ForecastResult{
			forecastAt(t, "a", []float64{1, 2, 3}),
		}

		_, err := Combine(inputs, 2)
		assert.ErrorIs(t, err, domain.ErrAlignment)
	})

	t.Run("length mismatch is an alignment error", func(t *testing.T) {
		inputs := []domain.ForecastResult{
			forecastAt(t, "a", []float64{1, 2, 3}),
			forecastAt(t, "b", []float64{1, 2}),
		}

		_, err := Combine(inputs, 2)
		assert.ErrorIs(t, err, domain.ErrAlignment)
	})

	t.Run("nothing to combine is an alignment error", func(t *testing.T) {
		_, err := Combine(nil, 0)
		assert.ErrorIs(t, err, domain.ErrAlignment)
	})
}
