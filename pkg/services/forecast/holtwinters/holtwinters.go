// Package holtwinters implements the triple exponential smoothing adapter:
// level, trend and an additive weekly seasonal component, with the smoothing
// constants chosen by grid search on the in-sample SSE.
package holtwinters

import (
	"context"
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/forecast"
)

// Model is the adapter's identifier.
const Model = "holt_winters"

// DefaultSeasonalPeriod is the seasonal cycle assumed for daily
// observations.
const DefaultSeasonalPeriod = 7

// Forecaster fits additive Holt-Winters smoothing.
type Forecaster struct {
	period int
}

// New returns a Holt-Winters adapter with a weekly seasonal period.
func New() *Forecaster { return &Forecaster{period: DefaultSeasonalPeriod} }

// NewWithPeriod returns a Holt-Winters adapter with a custom seasonal
// period.
func NewWithPeriod(period int) *Forecaster { return &Forecaster{period: period} }

func (f *Forecaster) Name() string { return Model }

type handle struct {
	train domain.TimeSeries

	period    int
	alpha     float64
	beta      float64
	gamma     float64
	level     float64
	trend     float64
	seasonals []float64
	sse       float64
}

func (h *handle) Model() string { return Model }

func (h *handle) Summary() domain.ModelSummary {
	return domain.ModelSummary{
		Model: Model,
		Params: map[string]float64{
			"alpha":  h.alpha,
			"beta":   h.beta,
			"gamma":  h.gamma,
			"level":  h.level,
			"trend":  h.trend,
			"period": float64(h.period),
			"sse":    h.sse,
		},
	}
}

// Fit grid-searches the smoothing constants, then runs the smoothing
// recursion once more to leave the handle holding the end-of-sample state.
func (f *Forecaster) Fit(_ context.Context, train domain.TimeSeries) (forecast.Handle, error) {
	m := f.period
	if train.Len() < 2*m {
		return nil, fmt.Errorf("holt_winters: need %d observations for period %d, got %d: %w",
			2*m, m, train.Len(), domain.ErrInsufficientData)
	}

	values := train.Values()

	bestAlpha, bestBeta, bestGamma := 0.2, 0.1, 0.1
	bestSSE := math.Inf(1)
	for alpha := 0.1; alpha <= 0.9; alpha += 0.2 {
		for beta := 0.05; beta <= 0.35; beta += 0.1 {
			for gamma := 0.05; gamma <= 0.35; gamma += 0.1 {
				_, _, _, sse := run(values, m, alpha, beta, gamma)
				if sse < bestSSE {
					bestSSE = sse
					bestAlpha, bestBeta, bestGamma = alpha, beta, gamma
				}
			}
		}
	}
	if math.IsInf(bestSSE, 0) || math.IsNaN(bestSSE) {
		return nil, fmt.Errorf("holt_winters: smoothing diverged: %w", domain.ErrConvergence)
	}

	level, trend, seasonals, sse := run(values, m, bestAlpha, bestBeta, bestGamma)
	return &handle{
		train:     train,
		period:    m,
		alpha:     bestAlpha,
		beta:      bestBeta,
		gamma:     bestGamma,
		level:     level,
		trend:     trend,
		seasonals: seasonals,
		sse:       sse,
	}, nil
}

// Predict extrapolates level + h*trend plus the matching seasonal index.
func (f *Forecaster) Predict(h forecast.Handle, horizon int) (domain.ForecastResult, error) {
	m, ok := h.(*handle)
	if !ok {
		return domain.ForecastResult{}, fmt.Errorf(
			"holt_winters: foreign model handle %T: %w", h, domain.ErrInvalidInput)
	}
	if err := forecast.ValidateHorizon(horizon); err != nil {
		return domain.ForecastResult{}, fmt.Errorf("holt_winters: %w", err)
	}

	n := m.train.Len()
	values := make([]float64, horizon)
	for step := 1; step <= horizon; step++ {
		seasonIdx := (n + step - 1) % m.period
		values[step-1] = m.level + float64(step)*m.trend + m.seasonals[seasonIdx]
	}
	return forecast.NewResult(Model, m.train, values)
}

// run executes one full additive Holt-Winters pass and returns the final
// state with the one-step SSE accumulated after the first full season.
func run(values []float64, m int, alpha, beta, gamma float64) (level, trend float64, seasonals []float64, sse float64) {
	level, trend, seasonals = initialState(values, m)

	for t := m; t < len(values); t++ {
		seasonIdx := t % m
		fitted := level + trend + seasonals[seasonIdx]
		err := values[t] - fitted
		sse += err * err

		prevLevel := level
		level = alpha*(values[t]-seasonals[seasonIdx]) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonals[seasonIdx] = gamma*(values[t]-level) + (1-gamma)*seasonals[seasonIdx]
	}
	return level, trend, seasonals, sse
}

// initialState seeds level from the first season's mean, trend from the
// season-over-season change, and zero-sum additive seasonals.
func initialState(values []float64, m int) (level, trend float64, seasonals []float64) {
	sum := 0.0
	for i := 0; i < m; i++ {
		sum += values[i]
	}
	level = sum / float64(m)

	if len(values) >= 2*m {
		var change float64
		for i := 0; i < m; i++ {
			change += (values[m+i] - values[i]) / float64(m)
		}
		trend = change / float64(m)
	}

	seasonals = make([]float64, m)
	var seasonalSum float64
	for i := 0; i < m; i++ {
		seasonals[i] = values[i] - level
		seasonalSum += seasonals[i]
	}
	avg := seasonalSum / float64(m)
	for i := range seasonals {
		seasonals[i] -= avg
	}
	return level, trend, seasonals
}
