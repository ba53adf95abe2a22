package holtwinters

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seasonalSeries builds a rising series with an additive weekly cycle.
func seasonalSeries(t *testing.T, n int) domain.TimeSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = base.AddDate(0, 0, i)
		values[i] = 100 + 0.5*float64(i) + 3*math.Sin(2*math.Pi*float64(i)/7)
	}
	series, err := domain.NewTimeSeries(times, values)
	require.NoError(t, err)
	return series
}

func TestForecaster_Fit(t *testing.T) {
	t.Run("captures level trend and seasonals", func(t *testing.T) {
		train := seasonalSeries(t, 42)

		h, err := New().Fit(context.Background(), train)
		require.NoError(t, err)

		summary := h.Summary()
		assert.Equal(t, Model, summary.Model)
		assert.Equal(t, 7.0, summary.Params["period"])
		assert.Greater(t, summary.Params["trend"], 0.0)
		assert.Greater(t, summary.Params["level"], 100.0)
	})

	t.Run("needs two full seasons", func(t *testing.T) {
		_, err := New().Fit(context.Background(), seasonalSeries(t, 13))
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("custom period", func(t *testing.T) {
		train := seasonalSeries(t, 20)

		h, err := NewWithPeriod(5).Fit(context.Background(), train)
		require.NoError(t, err)
		assert.Equal(t, 5.0, h.Summary().Params["period"])
	})
}

func TestForecaster_Predict(t *testing.T) {
	f := New()
	train := seasonalSeries(t, 42)
	h, err := f.Fit(context.Background(), train)
	require.NoError(t, err)

	t.Run("forecast grows with the trend", func(t *testing.T) {
		result, err := f.Predict(h, 14)
		require.NoError(t, err)

		require.Equal(t, 14, result.Series.Len())
		assert.True(t, result.Series.Start().After(train.End()))

		// One full season apart, the seasonal terms cancel and only the
		// trend remains.
		diff := result.Series.Value(7) - result.Series.Value(0)
		assert.InDelta(t, 7*h.Summary().Params["trend"], diff, 1e-9)
	})

	t.Run("invalid horizon", func(t *testing.T) {
		_, err := f.Predict(h, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
	})

	t.Run("foreign handle", func(t *testing.T) {
		_, err := f.Predict(nil, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
