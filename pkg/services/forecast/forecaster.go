// Package forecast defines the uniform contract every model variant
// implements, the registry the pipeline resolves variants through, and the
// equal-weight combination of their forecasts.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfold/marketcast/pkg/models/domain"
)

// Handle is a fitted model: an explicit owned value returned by Fit and
// passed back into Predict. Summary exposes the estimated parameters as a
// derived view without mutating the handle.
type Handle interface {
	Model() string
	Summary() domain.ModelSummary
}

// Forecaster is the capability set every model variant provides. Fit
// estimates parameters from the training series only; Predict produces
// exactly horizon points stamped to continue immediately after the training
// series. Predict is pure: calling it twice with the same handle and horizon
// yields identical results.
type Forecaster interface {
	Name() string
	Fit(ctx context.Context, train domain.TimeSeries) (Handle, error)
	Predict(handle Handle, horizon int) (domain.ForecastResult, error)
}

// ValidateHorizon rejects non-positive horizons. Shared by every variant's
// Predict.
func ValidateHorizon(horizon int) error {
	if horizon <= 0 {
		return fmt.Errorf("horizon %d: %w", horizon, domain.ErrInvalidHorizon)
	}
	return nil
}

// ContinueTimes returns horizon timestamps extending train at its trailing
// cadence, starting one step after the last training observation.
func ContinueTimes(train domain.TimeSeries, horizon int) []time.Time {
	step := train.Step()
	last := train.End()
	out := make([]time.Time, horizon)
	for h := 0; h < horizon; h++ {
		out[h] = last.Add(time.Duration(h+1) * step)
	}
	return out
}

// Restamp rebuilds a forecast onto the given timestamps. Adapters stamp
// their output at the training cadence; when the held-out window contains
// calendar gaps the pipeline restamps each forecast onto the observed test
// timestamps before combining and scoring. The point count must match
// exactly.
func Restamp(fc domain.ForecastResult, times []time.Time) (domain.ForecastResult, error) {
	if fc.Series.Len() != len(times) {
		return domain.ForecastResult{}, fmt.Errorf(
			"%s: %d forecast points for %d timestamps: %w",
			fc.Model, fc.Series.Len(), len(times), domain.ErrAlignment)
	}
	series, err := domain.NewTimeSeries(times, fc.Series.Values())
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("%s: restamping forecast: %w", fc.Model, err)
	}
	return domain.ForecastResult{Model: fc.Model, Series: series}, nil
}

// NewResult assembles a tagged ForecastResult from forecast values stamped
// to continue the training series.
func NewResult(model string, train domain.TimeSeries, values []float64) (domain.ForecastResult, error) {
	series, err := domain.NewTimeSeries(ContinueTimes(train, len(values)), values)
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("%s: assembling forecast: %w", model, err)
	}
	return domain.ForecastResult{Model: model, Series: series}, nil
}
