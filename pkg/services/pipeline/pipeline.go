// Package pipeline wires the stages of an evaluation run: load prices,
// transform to log-returns, check stationarity, split, fit and forecast
// every registered model, combine, evaluate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/evaluate"
	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/quantfold/marketcast/pkg/services/transform"
)

// PriceSource supplies a historical price series for a coin. The market
// client implements it; tests substitute fixtures.
type PriceSource interface {
	DailyPrices(ctx context.Context, coin string, days int) (domain.TimeSeries, error)
}

// RunResult carries every artifact of one evaluation run.
type RunResult struct {
	Coin    string
	Prices  domain.TimeSeries
	Returns domain.TimeSeries
	Split   domain.Split

	Stationarity domain.StationarityResult

	// Models holds one report per evaluated forecast, ensemble included,
	// keyed in Order.
	Models map[string]domain.ModelReport
	Order  []string

	// BestModel is the model with the lowest MAPE.
	BestModel string
}

// Pipeline runs the forecast evaluation end to end.
type Pipeline struct {
	source   PriceSource
	registry forecast.Registry
	logger   zerolog.Logger
}

// New creates a pipeline over the given price source and model registry.
func New(source PriceSource, registry forecast.Registry) *Pipeline {
	return &Pipeline{
		source:   source,
		registry: registry,
		logger:   log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes the full evaluation. Any stage error is fatal to the run; a
// failing model adapter aborts only its own contribution, but the ensemble
// then fails its alignment check and the run surfaces both errors.
func (p *Pipeline) Run(ctx context.Context, profile Profile) (*RunResult, error) {
	prices, err := p.source.DailyPrices(ctx, profile.Coin, profile.Days)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	returns, err := transform.LogReturns(prices)
	if err != nil {
		return nil, fmt.Errorf("transformer: %w", err)
	}

	result := &RunResult{
		Coin:    profile.Coin,
		Prices:  prices,
		Returns: returns,
		Models:  make(map[string]domain.ModelReport),
	}

	// Informational only: the run proceeds whatever the verdict says.
	if st, err := transform.CheckStationarity(returns); err != nil {
		p.logger.Warn().Err(err).Msg("stationarity check skipped")
	} else {
		result.Stationarity = st
		p.logger.Info().
			Float64("statistic", st.Statistic).
			Float64("p_value", st.PValue).
			Bool("stationary", st.IsStationary).
			Msg("ADF unit-root test")
	}

	split, err := transform.Split(returns, profile.SplitRatio)
	if err != nil {
		return nil, fmt.Errorf("splitter: %w", err)
	}
	result.Split = split
	horizon := split.Horizon()

	p.logger.Info().
		Int("train", split.Train.Len()).
		Int("test", horizon).
		Msg("series partitioned")

	models := p.registry.ListModels()
	forecasts := make([]domain.ForecastResult, 0, len(models))
	summaries := make(map[string]domain.ModelSummary, len(models))
	var failures []error

	for _, name := range models {
		fc, summary, err := p.runModel(ctx, name, split.Train, split.Test)
		if err != nil {
			p.logger.Error().Err(err).Str("model", name).Msg("model failed")
			failures = append(failures, err)
			continue
		}
		forecasts = append(forecasts, fc)
		summaries[name] = summary
	}

	combined, err := forecast.Combine(forecasts, len(models))
	if err != nil {
		failures = append(failures, fmt.Errorf("combiner: %w", err))
		return nil, errors.Join(failures...)
	}
	forecasts = append(forecasts, combined)
	summaries[combined.Model] = domain.ModelSummary{
		Model:  combined.Model,
		Params: map[string]float64{"members": float64(len(models))},
	}

	for _, fc := range forecasts {
		accuracy, err := evaluate.Accuracy(fc, split.Test)
		if err != nil {
			return nil, fmt.Errorf("evaluator: %w", err)
		}
		residuals, err := evaluate.Residuals(fc, split.Test)
		if err != nil {
			return nil, fmt.Errorf("evaluator: %w", err)
		}
		result.Models[fc.Model] = domain.ModelReport{
			Summary:   summaries[fc.Model],
			Accuracy:  accuracy,
			Residuals: residuals,
		}
		result.Order = append(result.Order, fc.Model)
	}

	result.BestModel = bestByMAPE(result)
	p.logger.Info().Str("best_model", result.BestModel).Msg("evaluation complete")

	return result, nil
}

// runModel fits one adapter on the training series only, asks it for one
// point per held-out observation, and restamps the output onto the observed
// test timestamps. Providers skip non-trading days, so the held-out window
// may be unevenly spaced while adapters stamp at the training cadence.
func (p *Pipeline) runModel(
	ctx context.Context,
	name string,
	train, test domain.TimeSeries,
) (domain.ForecastResult, domain.ModelSummary, error) {
	forecaster, err := p.registry.Create(name)
	if err != nil {
		return domain.ForecastResult{}, domain.ModelSummary{}, err
	}

	handle, err := forecaster.Fit(ctx, train)
	if err != nil {
		return domain.ForecastResult{}, domain.ModelSummary{}, fmt.Errorf("fit: %w", err)
	}

	fc, err := forecaster.Predict(handle, test.Len())
	if err != nil {
		return domain.ForecastResult{}, domain.ModelSummary{}, fmt.Errorf("predict: %w", err)
	}

	fc, err = forecast.Restamp(fc, test.Times())
	if err != nil {
		return domain.ForecastResult{}, domain.ModelSummary{}, fmt.Errorf("restamp: %w", err)
	}
	return fc, handle.Summary(), nil
}

// bestByMAPE ranks the evaluated forecasts by MAPE, falling back to RMSE
// when MAPE is flagged NaN by zero actuals.
func bestByMAPE(result *RunResult) string {
	best := ""
	bestScore := math.Inf(1)
	for _, name := range result.Order {
		report := result.Models[name]
		score := report.Accuracy.MAPE
		if math.IsNaN(score) {
			score = report.Accuracy.RMSE
		}
		if score < bestScore {
			bestScore = score
			best = name
		}
	}
	return best
}
