package curve

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// curveValue is a trend plus one weekly harmonic, exactly representable by
// the design matrix.
func curveValue(t, n int) float64 {
	return 0.2 + 0.3*float64(t)/float64(n) + 0.5*math.Sin(2*math.Pi*float64(t)/7)
}

func curveSeries(t *testing.T, n int) domain.TimeSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = base.AddDate(0, 0, i)
		values[i] = curveValue(i, n)
	}
	series, err := domain.NewTimeSeries(times, values)
	require.NoError(t, err)
	return series
}

func TestForecaster_Fit(t *testing.T) {
	t.Run("recovers the generating curve", func(t *testing.T) {
		train := curveSeries(t, 56)

		h, err := New().Fit(context.Background(), train)
		require.NoError(t, err)

		summary := h.Summary()
		assert.Equal(t, Model, summary.Model)
		assert.InDelta(t, 0.2, summary.Params["intercept"], 1e-6)
		assert.InDelta(t, 0.3, summary.Params["slope"], 1e-6)
		assert.InDelta(t, 0.5, summary.Params["sin1"], 1e-6)
		assert.InDelta(t, 0.0, summary.Params["sse"], 1e-9)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := New().Fit(context.Background(), curveSeries(t, 8))
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestForecaster_Predict(t *testing.T) {
	f := New()
	n := 56
	train := curveSeries(t, n)
	h, err := f.Fit(context.Background(), train)
	require.NoError(t, err)

	t.Run("extends the curve past the training window", func(t *testing.T) {
		result, err := f.Predict(h, 14)
		require.NoError(t, err)

		require.Equal(t, 14, result.Series.Len())
		assert.True(t, result.Series.Start().After(train.End()))
		for step := 0; step < 14; step++ {
			want := curveValue(n+step, n)
			assert.InDelta(t, want, result.Series.Value(step), 1e-6)
		}
	})

	t.Run("invalid horizon", func(t *testing.T) {
		_, err := f.Predict(h, -2)
		assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
	})

	t.Run("foreign handle", func(t *testing.T) {
		_, err := f.Predict(nil, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
