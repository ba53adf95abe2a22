package arima

import (
	"context"
	"testing"
	"time"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ar1Series(t *testing.T, seed uint32, phi float64, n int) domain.TimeSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	values := make([]float64, n)
	x := seed
	for i := 0; i < n; i++ {
		times[i] = base.AddDate(0, 0, i)
		x = 1664525*x + 1013904223
		shock := float64(x)/(1<<32) - 0.5
		if i > 0 {
			values[i] = phi*values[i-1] + shock
		}
	}
	series, err := domain.NewTimeSeries(times, values)
	require.NoError(t, err)
	return series
}

func TestForecaster_Fit(t *testing.T) {
	t.Run("stationary series fits without differencing", func(t *testing.T) {
		train := ar1Series(t, 7, 0.5, 120)

		h, err := New().Fit(context.Background(), train)
		require.NoError(t, err)

		summary := h.Summary()
		assert.Equal(t, Model, summary.Model)
		assert.Equal(t, 0.0, summary.Params["d"])
		assert.LessOrEqual(t, summary.Params["p"], 2.0)
		assert.LessOrEqual(t, summary.Params["q"], 2.0)
		assert.Greater(t, summary.Params["variance"], 0.0)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := New().Fit(context.Background(), ar1Series(t, 7, 0.5, 10))
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestForecaster_Predict(t *testing.T) {
	f := New()
	train := ar1Series(t, 7, 0.5, 120)
	h, err := f.Fit(context.Background(), train)
	require.NoError(t, err)

	t.Run("forecast continues the training series", func(t *testing.T) {
		result, err := f.Predict(h, 5)
		require.NoError(t, err)

		assert.Equal(t, Model, result.Model)
		require.Equal(t, 5, result.Series.Len())
		assert.True(t, result.Series.Start().Equal(train.End().AddDate(0, 0, 1)))
		assert.Equal(t, 24*time.Hour, result.Series.Step())
	})

	t.Run("predict is repeatable", func(t *testing.T) {
		a, err := f.Predict(h, 7)
		require.NoError(t, err)
		b, err := f.Predict(h, 7)
		require.NoError(t, err)

		assert.Equal(t, a.Series.Values(), b.Series.Values())
	})

	t.Run("invalid horizon", func(t *testing.T) {
		_, err := f.Predict(h, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
	})

	t.Run("foreign handle", func(t *testing.T) {
		_, err := f.Predict(nil, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestIntegrate(t *testing.T) {
	// One round of differencing: cumulate from the last level.
	out := integrate([]float64{1, 2, 3}, []float64{10})
	assert.Equal(t, []float64{11, 13, 16}, out)
}

func TestYuleWalker(t *testing.T) {
	t.Run("first order matches lag-1 autocorrelation", func(t *testing.T) {
		phi := yuleWalker([]float64{1, 0.5}, 1)
		require.Len(t, phi, 1)
		assert.InDelta(t, 0.5, phi[0], 1e-12)
	})

	t.Run("order beyond the ACF is rejected", func(t *testing.T) {
		assert.Nil(t, yuleWalker([]float64{1, 0.5}, 2))
	})
}
