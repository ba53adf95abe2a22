package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLjungBox(t *testing.T) {
	t.Run("autocorrelated residuals reject the null", func(t *testing.T) {
		// Slowly oscillating series with strong serial correlation.
		residuals := make([]float64, 100)
		for i := range residuals {
			residuals[i] = math.Sin(0.3 * float64(i))
		}

		res := LjungBox(residuals, 10, 0)
		require.NotNil(t, res)
		assert.Equal(t, 10, res.Lags)
		assert.Equal(t, 10, res.DOF)
		assert.Greater(t, res.Statistic, 18.31)
		assert.Less(t, res.PValue, 0.05)
	})

	t.Run("uncorrelated residuals keep the null", func(t *testing.T) {
		res := LjungBox(noise(1, 100), 10, 0)
		require.NotNil(t, res)
		assert.Greater(t, res.PValue, 0.05)
	})

	t.Run("fitdf reduces degrees of freedom", func(t *testing.T) {
		residuals := make([]float64, 50)
		for i := range residuals {
			residuals[i] = math.Sin(2.1 * float64(i))
		}

		res := LjungBox(residuals, 10, 3)
		require.NotNil(t, res)
		assert.Equal(t, 7, res.DOF)
	})

	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, LjungBox([]float64{1, -1, 1}, 5, 0))
	})
}

func TestChiSquaredCDF(t *testing.T) {
	// Median of chi-squared with k dof is roughly k - 2/3.
	assert.InDelta(t, 0.5, chiSquaredCDF(9.34, 10), 0.01)
	// 95th percentile with 10 dof.
	assert.InDelta(t, 0.95, chiSquaredCDF(18.31, 10), 0.01)
	assert.Equal(t, 0.0, chiSquaredCDF(-1, 5))
}
