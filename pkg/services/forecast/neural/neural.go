// Package neural implements the autoregressive neural network adapter: a
// single-hidden-layer perceptron fed the last few lagged observations,
// trained by full-batch gradient descent. Weights are drawn from a fixed
// seed so fitting and prediction are deterministic run to run.
package neural

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/forecast"
)

// Model is the adapter's identifier.
const Model = "neural_ar"

const (
	defaultLags   = 5
	defaultHidden = 4
	weightSeed    = 42

	epochs       = 400
	learningRate = 0.01
)

// Forecaster fits an AR-lag multilayer perceptron.
type Forecaster struct {
	lags   int
	hidden int
}

// New returns a neural adapter with 5 input lags and 4 hidden units.
func New() *Forecaster { return &Forecaster{lags: defaultLags, hidden: defaultHidden} }

func (f *Forecaster) Name() string { return Model }

type handle struct {
	train domain.TimeSeries

	lags   int
	hidden int

	// Feature scaling estimated from the training series.
	mean float64
	std  float64

	// w1[h][l] input->hidden weights, b1 hidden biases, w2 hidden->output.
	w1 [][]float64
	b1 []float64
	w2 []float64
	b2 float64

	loss float64
}

func (h *handle) Model() string { return Model }

func (h *handle) Summary() domain.ModelSummary {
	return domain.ModelSummary{
		Model: Model,
		Params: map[string]float64{
			"lags":   float64(h.lags),
			"hidden": float64(h.hidden),
			"mean":   h.mean,
			"std":    h.std,
			"loss":   h.loss,
		},
	}
}

// Fit standardises the training series and trains the network on
// (lag window, next value) pairs.
func (f *Forecaster) Fit(_ context.Context, train domain.TimeSeries) (forecast.Handle, error) {
	n := train.Len()
	if n < f.lags+10 {
		return nil, fmt.Errorf("neural_ar: %d observations for %d lags: %w",
			n, f.lags, domain.ErrInsufficientData)
	}

	values := train.Values()
	mean := train.Mean()
	std := train.Std()
	if std == 0 {
		std = 1 // constant series degenerates to its mean
	}

	scaled := make([]float64, n)
	for i, v := range values {
		scaled[i] = (v - mean) / std
	}

	h := &handle{
		train:  train,
		lags:   f.lags,
		hidden: f.hidden,
		mean:   mean,
		std:    std,
	}
	h.initWeights(rand.New(rand.NewSource(weightSeed)))

	samples := n - f.lags
	for epoch := 0; epoch < epochs; epoch++ {
		loss := 0.0
		for s := 0; s < samples; s++ {
			window := scaled[s : s+f.lags]
			target := scaled[s+f.lags]
			loss += h.backprop(window, target, learningRate/float64(samples))
		}
		h.loss = loss / float64(samples)
		if math.IsNaN(h.loss) || math.IsInf(h.loss, 0) {
			return nil, fmt.Errorf("neural_ar: training diverged at epoch %d: %w",
				epoch, domain.ErrConvergence)
		}
	}

	return h, nil
}

// Predict rolls the network forward recursively, feeding each forecast back
// into the lag window.
func (f *Forecaster) Predict(h forecast.Handle, horizon int) (domain.ForecastResult, error) {
	m, ok := h.(*handle)
	if !ok {
		return domain.ForecastResult{}, fmt.Errorf(
			"neural_ar: foreign model handle %T: %w", h, domain.ErrInvalidInput)
	}
	if err := forecast.ValidateHorizon(horizon); err != nil {
		return domain.ForecastResult{}, fmt.Errorf("neural_ar: %w", err)
	}

	values := m.train.Values()
	window := make([]float64, m.lags)
	for i := 0; i < m.lags; i++ {
		window[i] = (values[len(values)-m.lags+i] - m.mean) / m.std
	}

	out := make([]float64, horizon)
	for step := 0; step < horizon; step++ {
		pred := m.forward(window)
		out[step] = pred*m.std + m.mean
		copy(window, window[1:])
		window[m.lags-1] = pred
	}
	return forecast.NewResult(Model, m.train, out)
}

func (h *handle) initWeights(rng *rand.Rand) {
	scale := 1 / math.Sqrt(float64(h.lags))
	h.w1 = make([][]float64, h.hidden)
	h.b1 = make([]float64, h.hidden)
	h.w2 = make([]float64, h.hidden)
	for j := 0; j < h.hidden; j++ {
		h.w1[j] = make([]float64, h.lags)
		for l := 0; l < h.lags; l++ {
			h.w1[j][l] = (rng.Float64()*2 - 1) * scale
		}
		h.w2[j] = (rng.Float64()*2 - 1) * scale
	}
}

// forward computes the network output for one scaled lag window.
func (h *handle) forward(window []float64) float64 {
	out := h.b2
	for j := 0; j < h.hidden; j++ {
		act := h.b1[j]
		for l := 0; l < h.lags; l++ {
			act += h.w1[j][l] * window[l]
		}
		out += h.w2[j] * math.Tanh(act)
	}
	return out
}

// backprop runs one gradient step on a single sample and returns its squared
// error.
func (h *handle) backprop(window []float64, target, lr float64) float64 {
	hiddenOut := make([]float64, h.hidden)
	out := h.b2
	for j := 0; j < h.hidden; j++ {
		act := h.b1[j]
		for l := 0; l < h.lags; l++ {
			act += h.w1[j][l] * window[l]
		}
		hiddenOut[j] = math.Tanh(act)
		out += h.w2[j] * hiddenOut[j]
	}

	err := out - target

	for j := 0; j < h.hidden; j++ {
		gradW2 := err * hiddenOut[j]
		gradAct := err * h.w2[j] * (1 - hiddenOut[j]*hiddenOut[j])
		h.w2[j] -= lr * gradW2
		h.b1[j] -= lr * gradAct
		for l := 0; l < h.lags; l++ {
			h.w1[j][l] -= lr * gradAct * window[l]
		}
	}
	h.b2 -= lr * err

	return err * err
}
