// Package arima implements the ARIMA model adapter. Orders are selected by
// corrected AIC over a small grid, with the differencing order decided by an
// augmented Dickey-Fuller test; coefficients are estimated by conditional
// sum of squares.
package arima

import (
	"context"
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/quantfold/marketcast/pkg/stats"
)

// Model is the adapter's identifier.
const Model = "arima"

// Forecaster fits ARIMA(p,d,q) models up to the configured maximum orders.
type Forecaster struct {
	maxP int
	maxQ int
	maxD int
}

// New returns an ARIMA adapter searching p,q in 0..2 and d in 0..1.
func New() *Forecaster {
	return &Forecaster{maxP: 2, maxQ: 2, maxD: 1}
}

func (f *Forecaster) Name() string { return Model }

type handle struct {
	train domain.TimeSeries

	p, d, q    int
	arCoeffs   []float64
	maCoeffs   []float64
	intercept  float64
	variance   float64
	aic        float64
	aicc       float64
	bic        float64
	logLik     float64
	diffValues []float64
	lastLevels []float64 // trailing level values consumed when integrating
	residuals  []float64
}

func (h *handle) Model() string { return Model }

func (h *handle) Summary() domain.ModelSummary {
	params := map[string]float64{
		"p":         float64(h.p),
		"d":         float64(h.d),
		"q":         float64(h.q),
		"intercept": h.intercept,
		"variance":  h.variance,
		"aic":       h.aic,
		"aicc":      h.aicc,
		"bic":       h.bic,
		"loglik":    h.logLik,
	}
	for i, c := range h.arCoeffs {
		params[fmt.Sprintf("ar%d", i+1)] = c
	}
	for i, c := range h.maCoeffs {
		params[fmt.Sprintf("ma%d", i+1)] = c
	}
	return domain.ModelSummary{Model: Model, Params: params}
}

// Fit selects (p,d,q) by AICc and estimates coefficients on the training
// series only.
func (f *Forecaster) Fit(_ context.Context, train domain.TimeSeries) (forecast.Handle, error) {
	n := train.Len()
	if n < f.maxP+f.maxQ+f.maxD+10 {
		return nil, fmt.Errorf("arima: %d observations: %w", n, domain.ErrInsufficientData)
	}

	values := train.Values()

	d := 0
	for d < f.maxD {
		if res := stats.ADF(values, 0); res != nil && res.IsStationary {
			break
		}
		diffed := make([]float64, len(values)-1)
		for i := 1; i < len(values); i++ {
			diffed[i-1] = values[i] - values[i-1]
		}
		values = diffed
		d++
	}

	var best *handle
	for p := 0; p <= f.maxP; p++ {
		for q := 0; q <= f.maxQ; q++ {
			cand, err := fitCSS(values, p, q)
			if err != nil {
				continue
			}
			if best == nil || cand.aicc < best.aicc {
				best = cand
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("arima: no candidate order converged: %w", domain.ErrConvergence)
	}

	best.train = train
	best.d = d
	if d > 0 {
		orig := train.Values()
		best.lastLevels = orig[len(orig)-d:]
	}
	return best, nil
}

// Predict iterates the AR/MA recursion forward with future shocks at their
// zero expectation, then integrates back to the original scale when d > 0.
func (f *Forecaster) Predict(h forecast.Handle, horizon int) (domain.ForecastResult, error) {
	m, ok := h.(*handle)
	if !ok {
		return domain.ForecastResult{}, fmt.Errorf(
			"arima: foreign model handle %T: %w", h, domain.ErrInvalidInput)
	}
	if err := forecast.ValidateHorizon(horizon); err != nil {
		return domain.ForecastResult{}, fmt.Errorf("arima: %w", err)
	}

	n := len(m.diffValues)
	ext := make([]float64, n+horizon)
	copy(ext, m.diffValues)
	shocks := make([]float64, n+horizon)
	copy(shocks, m.residuals)

	for step := 0; step < horizon; step++ {
		t := n + step
		pred := m.intercept
		for i := 0; i < m.p && t-i-1 >= 0; i++ {
			pred += m.arCoeffs[i] * (ext[t-i-1] - m.intercept)
		}
		for i := 0; i < m.q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.maCoeffs[i] * shocks[t-i-1]
		}
		ext[t] = pred
		shocks[t] = 0
	}

	values := make([]float64, horizon)
	copy(values, ext[n:])
	if m.d > 0 {
		values = integrate(values, m.lastLevels)
	}

	return forecast.NewResult(Model, m.train, values)
}

// integrate undoes d rounds of differencing by cumulating from the last
// observed levels.
func integrate(forecasts, lastLevels []float64) []float64 {
	out := make([]float64, len(forecasts))
	copy(out, forecasts)
	for i := len(lastLevels) - 1; i >= 0; i-- {
		last := lastLevels[i]
		for j := range out {
			if j == 0 {
				out[j] += last
			} else {
				out[j] += out[j-1]
			}
		}
	}
	return out
}

// fitCSS estimates an ARMA(p,q) on the (already differenced) series by
// conditional sum of squares with gradient refinement, starting the AR side
// from Yule-Walker estimates.
func fitCSS(y []float64, p, q int) (*handle, error) {
	n := len(y)
	if n < p+q+10 {
		return nil, fmt.Errorf("arma(%d,%d): %w", p, q, domain.ErrInsufficientData)
	}

	h := &handle{
		p:        p,
		q:        q,
		arCoeffs: make([]float64, p),
		maCoeffs: make([]float64, q),
	}

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	h.intercept = mean / float64(n)

	if p == 0 && q == 0 {
		h.residuals = make([]float64, n)
		sse := 0.0
		for i, v := range y {
			h.residuals[i] = v - h.intercept
			sse += h.residuals[i] * h.residuals[i]
		}
		h.variance = sse / float64(n-1)
		h.diffValues = y
		h.computeIC(sse, n)
		return h, nil
	}

	if p > 0 {
		if acf := stats.ACF(y, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				copy(h.arCoeffs, phi)
			}
		}
	}
	for i := range h.maCoeffs {
		h.maCoeffs[i] = 0.1
	}

	const (
		maxIter      = 100
		tolerance    = 1e-6
		learningRate = 0.01
	)
	startIdx := p
	if q > startIdx {
		startIdx = q
	}

	residuals := make([]float64, n)
	prevSSE := math.Inf(1)
	for iter := 0; iter < maxIter; iter++ {
		sse := 0.0
		for t := startIdx; t < n; t++ {
			pred := h.intercept
			for i := 0; i < p; i++ {
				pred += h.arCoeffs[i] * (y[t-i-1] - h.intercept)
			}
			for i := 0; i < q; i++ {
				pred += h.maCoeffs[i] * residuals[t-i-1]
			}
			residuals[t] = y[t] - pred
			sse += residuals[t] * residuals[t]
		}

		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return nil, fmt.Errorf("arma(%d,%d): diverged: %w", p, q, domain.ErrConvergence)
		}
		if math.Abs(prevSSE-sse) < tolerance {
			break
		}
		prevSSE = sse

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := startIdx; t < n; t++ {
			for i := 0; i < p; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - h.intercept)
			}
			for i := 0; i < q; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}
		for i := 0; i < p; i++ {
			h.arCoeffs[i] -= learningRate * arGrad[i] / float64(n)
			h.arCoeffs[i] = clamp(h.arCoeffs[i], -0.99, 0.99)
		}
		for i := 0; i < q; i++ {
			h.maCoeffs[i] -= learningRate * maGrad[i] / float64(n)
			h.maCoeffs[i] = clamp(h.maCoeffs[i], -0.99, 0.99)
		}
	}

	h.residuals = make([]float64, n)
	sse := 0.0
	for t := 0; t < n; t++ {
		pred := h.intercept
		if t >= startIdx {
			for i := 0; i < p; i++ {
				pred += h.arCoeffs[i] * (y[t-i-1] - h.intercept)
			}
			for i := 0; i < q; i++ {
				pred += h.maCoeffs[i] * h.residuals[t-i-1]
			}
		}
		h.residuals[t] = y[t] - pred
		if t >= startIdx {
			sse += h.residuals[t] * h.residuals[t]
		}
	}

	count := n - startIdx
	if count > p+q+1 {
		h.variance = sse / float64(count-p-q-1)
	} else if count > 0 {
		h.variance = sse / float64(count)
	}
	if math.IsNaN(h.variance) || math.IsInf(h.variance, 0) {
		return nil, fmt.Errorf("arma(%d,%d): degenerate variance: %w", p, q, domain.ErrConvergence)
	}

	h.diffValues = y
	h.computeIC(sse, n)
	return h, nil
}

// computeIC fills in the Gaussian log-likelihood and information criteria.
func (h *handle) computeIC(sse float64, n int) {
	k := h.p + h.q + 1
	if h.variance > 0 {
		nf := float64(n)
		h.logLik = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(h.variance) - sse/(2*h.variance)
	} else {
		h.logLik = math.Inf(-1)
	}

	kf := float64(k)
	nf := float64(n)
	h.aic = -2*h.logLik + 2*kf
	if nf-kf-1 > 0 {
		h.aicc = h.aic + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		h.aicc = math.Inf(1)
	}
	h.bic = -2*h.logLik + kf*math.Log(nf)
}

// yuleWalker solves the Yule-Walker equations by Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
