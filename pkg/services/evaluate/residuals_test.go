package evaluate

import (
	"math"
	"testing"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResiduals(t *testing.T) {
	t.Run("summarises the error distribution", func(t *testing.T) {
		test := daily(t, []float64{0.02, -0.01, 0.03, -0.02})
		fc := domain.ForecastResult{Model: "flat", Series: daily(t, []float64{0.01, 0.01, 0.01, 0.01})}

		diag, err := Residuals(fc, test)
		require.NoError(t, err)

		// Residuals: 0.01, -0.02, 0.02, -0.03
		assert.Equal(t, "flat", diag.Model)
		assert.InDelta(t, -0.005, diag.Mean, 1e-12)
		assert.InDelta(t, -0.03, diag.Min, 1e-12)
		assert.InDelta(t, 0.02, diag.Max, 1e-12)
		assert.Greater(t, diag.Std, 0.0)
	})

	t.Run("short horizon skips the correlation test", func(t *testing.T) {
		test := daily(t, []float64{0.02, -0.01})
		fc := domain.ForecastResult{Model: "flat", Series: daily(t, []float64{0, 0})}

		diag, err := Residuals(fc, test)
		require.NoError(t, err)

		assert.True(t, math.IsNaN(diag.LjungBoxStat))
		assert.True(t, math.IsNaN(diag.LjungBoxPValue))
	})

	t.Run("long horizon runs Ljung-Box", func(t *testing.T) {
		n := 30
		actuals := make([]float64, n)
		preds := make([]float64, n)
		x := uint32(13)
		for i := 0; i < n; i++ {
			x = 1664525*x + 1013904223
			actuals[i] = (float64(x)/(1<<32) - 0.5) * 0.04
		}

		diag, err := Residuals(
			domain.ForecastResult{Model: "flat", Series: daily(t, preds)},
			daily(t, actuals),
		)
		require.NoError(t, err)

		assert.Equal(t, 10, diag.LjungBoxLags)
		assert.False(t, math.IsNaN(diag.LjungBoxPValue))
		assert.GreaterOrEqual(t, diag.LjungBoxPValue, 0.0)
		assert.LessOrEqual(t, diag.LjungBoxPValue, 1.0)
	})

	t.Run("misaligned forecast", func(t *testing.T) {
		test := daily(t, []float64{0.01, -0.02, 0.015})
		fc := domain.ForecastResult{Model: "flat", Series: daily(t, []float64{0, 0})}

		_, err := Residuals(fc, test)
		assert.ErrorIs(t, err, domain.ErrAlignment)
	})
}
