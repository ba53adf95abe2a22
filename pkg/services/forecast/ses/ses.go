// Package ses implements the exponential smoothing (ETS) model adapter.
// The smoothing constant is chosen by one-step sum of squared errors over a
// grid; the forecast is the flat final level, which is the correct shape for
// a near-zero-mean stationary return series.
package ses

import (
	"context"
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/forecast"
)

// Model is the adapter's identifier.
const Model = "ets"

// Forecaster fits simple exponential smoothing.
type Forecaster struct{}

// New returns an exponential smoothing adapter.
func New() *Forecaster { return &Forecaster{} }

func (f *Forecaster) Name() string { return Model }

type handle struct {
	train domain.TimeSeries

	alpha float64
	level float64
	sse   float64
}

func (h *handle) Model() string { return Model }

func (h *handle) Summary() domain.ModelSummary {
	return domain.ModelSummary{
		Model: Model,
		Params: map[string]float64{
			"alpha": h.alpha,
			"level": h.level,
			"sse":   h.sse,
		},
	}
}

// Fit grid-searches alpha in (0,1) minimising the in-sample one-step SSE.
func (f *Forecaster) Fit(_ context.Context, train domain.TimeSeries) (forecast.Handle, error) {
	if train.Len() < 3 {
		return nil, fmt.Errorf("ets: %d observations: %w", train.Len(), domain.ErrInsufficientData)
	}

	values := train.Values()

	bestAlpha, bestLevel := 0.3, values[0]
	bestSSE := math.Inf(1)
	for alpha := 0.05; alpha < 1.0; alpha += 0.05 {
		level, sse := smooth(values, alpha)
		if sse < bestSSE {
			bestSSE = sse
			bestAlpha = alpha
			bestLevel = level
		}
	}
	if math.IsInf(bestSSE, 0) || math.IsNaN(bestSSE) {
		return nil, fmt.Errorf("ets: smoothing diverged: %w", domain.ErrConvergence)
	}

	return &handle{train: train, alpha: bestAlpha, level: bestLevel, sse: bestSSE}, nil
}

// Predict repeats the final level for every step of the horizon.
func (f *Forecaster) Predict(h forecast.Handle, horizon int) (domain.ForecastResult, error) {
	m, ok := h.(*handle)
	if !ok {
		return domain.ForecastResult{}, fmt.Errorf(
			"ets: foreign model handle %T: %w", h, domain.ErrInvalidInput)
	}
	if err := forecast.ValidateHorizon(horizon); err != nil {
		return domain.ForecastResult{}, fmt.Errorf("ets: %w", err)
	}

	values := make([]float64, horizon)
	for i := range values {
		values[i] = m.level
	}
	return forecast.NewResult(Model, m.train, values)
}

// smooth runs one pass of simple exponential smoothing and returns the final
// level and the one-step-ahead SSE.
func smooth(values []float64, alpha float64) (level, sse float64) {
	level = values[0]
	for _, v := range values[1:] {
		err := v - level
		sse += err * err
		level = alpha*v + (1-alpha)*level
	}
	return level, sse
}
