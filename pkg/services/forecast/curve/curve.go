// Package curve implements the decomposable trend-plus-seasonality adapter:
// a linear trend with Fourier weekly seasonality fitted jointly by least
// squares, in the style of Prophet-family forecasters.
package curve

import (
	"context"
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/quantfold/marketcast/pkg/stats"
)

// Model is the adapter's identifier.
const Model = "trend_seasonal"

const (
	seasonalPeriod = 7
	harmonics      = 2
)

// Forecaster fits the trend+seasonality curve model.
type Forecaster struct{}

// New returns a trend+seasonality adapter with weekly Fourier terms.
func New() *Forecaster { return &Forecaster{} }

func (f *Forecaster) Name() string { return Model }

type handle struct {
	train domain.TimeSeries

	// coeffs: [intercept, slope, sin1, cos1, sin2, cos2, ...]
	coeffs []float64
	sse    float64
}

func (h *handle) Model() string { return Model }

func (h *handle) Summary() domain.ModelSummary {
	params := map[string]float64{
		"intercept": h.coeffs[0],
		"slope":     h.coeffs[1],
		"sse":       h.sse,
	}
	for k := 0; k < harmonics; k++ {
		params[fmt.Sprintf("sin%d", k+1)] = h.coeffs[2+2*k]
		params[fmt.Sprintf("cos%d", k+1)] = h.coeffs[3+2*k]
	}
	return domain.ModelSummary{Model: Model, Params: params}
}

// Fit regresses the training values on a linear trend plus weekly Fourier
// pairs.
func (f *Forecaster) Fit(_ context.Context, train domain.TimeSeries) (forecast.Handle, error) {
	n := train.Len()
	k := 2 + 2*harmonics
	if n < k+5 {
		return nil, fmt.Errorf("trend_seasonal: %d observations for %d terms: %w",
			n, k, domain.ErrInsufficientData)
	}

	values := train.Values()
	x := make([][]float64, n)
	for t := 0; t < n; t++ {
		x[t] = regressors(t, n)
	}

	coeffs, _ := stats.OLS(x, values)
	if coeffs == nil {
		return nil, fmt.Errorf("trend_seasonal: singular design matrix: %w", domain.ErrConvergence)
	}

	sse := 0.0
	for t := 0; t < n; t++ {
		pred := 0.0
		for j, c := range coeffs {
			pred += c * x[t][j]
		}
		r := values[t] - pred
		sse += r * r
	}

	return &handle{train: train, coeffs: coeffs, sse: sse}, nil
}

// Predict extends the fitted curve past the end of the training index.
func (f *Forecaster) Predict(h forecast.Handle, horizon int) (domain.ForecastResult, error) {
	m, ok := h.(*handle)
	if !ok {
		return domain.ForecastResult{}, fmt.Errorf(
			"trend_seasonal: foreign model handle %T: %w", h, domain.ErrInvalidInput)
	}
	if err := forecast.ValidateHorizon(horizon); err != nil {
		return domain.ForecastResult{}, fmt.Errorf("trend_seasonal: %w", err)
	}

	n := m.train.Len()
	values := make([]float64, horizon)
	for step := 0; step < horizon; step++ {
		row := regressors(n+step, n)
		pred := 0.0
		for j, c := range m.coeffs {
			pred += c * row[j]
		}
		values[step] = pred
	}
	return forecast.NewResult(Model, m.train, values)
}

// regressors builds one design-matrix row for index t. The trend column is
// scaled by the training length so the slope stays well conditioned when
// extrapolating.
func regressors(t, n int) []float64 {
	row := make([]float64, 2+2*harmonics)
	row[0] = 1
	row[1] = float64(t) / float64(n)
	for k := 0; k < harmonics; k++ {
		angle := 2 * math.Pi * float64(k+1) * float64(t) / seasonalPeriod
		row[2+2*k] = math.Sin(angle)
		row[3+2*k] = math.Cos(angle)
	}
	return row
}
