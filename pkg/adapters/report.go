// Package adapters maps pipeline run results onto the report models the
// terminal and web surfaces render.
package adapters

import (
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/api"
	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/pipeline"
)

// metricRow pairs a metric with how the report describes it.
type metricRow struct {
	name        string
	unit        string
	description string
	value       func(domain.AccuracyReport) float64
}

// metricRows lists the accuracy metrics in report order.
var metricRows = []metricRow{
	{"ME", "", "Mean error (actual - forecast)", func(a domain.AccuracyReport) float64 { return a.ME }},
	{"RMSE", "", "Root mean squared error", func(a domain.AccuracyReport) float64 { return a.RMSE }},
	{"MAE", "", "Mean absolute error", func(a domain.AccuracyReport) float64 { return a.MAE }},
	{"MPE", "%", "Mean percentage error, unstable near zero actuals", func(a domain.AccuracyReport) float64 { return a.MPE }},
	{"MAPE", "%", "Mean absolute percentage error, unstable near zero actuals", func(a domain.AccuracyReport) float64 { return a.MAPE }},
	{"ACF1", "", "Lag-1 autocorrelation of residuals", func(a domain.AccuracyReport) float64 { return a.ACF1 }},
	{"Theil's U", "", "RMSE relative to the naive no-change forecast", func(a domain.AccuracyReport) float64 { return a.TheilU }},
}

// MapRunResultToReport builds the renderable report from a completed run.
func MapRunResultToReport(result *pipeline.RunResult) *domain.Report {
	report := &domain.Report{
		Title:  fmt.Sprintf("Forecast evaluation: %s log-returns", result.Coin),
		Symbol: result.Coin,
		Period: domain.TimePeriod{
			Start:        result.Returns.Start(),
			End:          result.Returns.End(),
			Observations: result.Returns.Len(),
		},
		BestModel: result.BestModel,
	}

	for _, name := range result.Order {
		mr := result.Models[name]
		section := domain.ReportSection{
			Title: name,
			Summary: map[string]string{
				"Ljung-Box p-value": fmt.Sprintf("%.4f", mr.Residuals.LjungBoxPValue),
				"Residual mean":     fmt.Sprintf("%.6f", mr.Residuals.Mean),
				"Residual std":      fmt.Sprintf("%.6f", mr.Residuals.Std),
			},
		}
		for k, v := range mr.Summary.Params {
			section.Summary[k] = fmt.Sprintf("%.4f", v)
		}
		for _, row := range metricRows {
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        row.name,
				Value:       row.value(mr.Accuracy),
				Unit:        row.unit,
				Description: row.description,
			})
		}
		report.Sections = append(report.Sections, section)
	}

	return report
}

// MapRunResultToApi projects a completed run into the JSON API model.
// NaN-flagged metrics are omitted since JSON has no encoding for them.
func MapRunResultToApi(result *pipeline.RunResult) api.Report {
	out := api.Report{
		Title:     fmt.Sprintf("Forecast evaluation: %s log-returns", result.Coin),
		Symbol:    result.Coin,
		From:      result.Returns.Start(),
		To:        result.Returns.End(),
		Points:    result.Returns.Len(),
		BestModel: result.BestModel,
		Stationarity: api.Stationarity{
			Statistic:    result.Stationarity.Statistic,
			PValue:       result.Stationarity.PValue,
			IsStationary: result.Stationarity.IsStationary,
		},
	}

	for _, name := range result.Order {
		mr := result.Models[name]
		score := api.ModelScore{
			Model:          name,
			Metrics:        make(map[string]float64),
			LjungBoxPValue: finiteOrZero(mr.Residuals.LjungBoxPValue),
			ResidualMean:   mr.Residuals.Mean,
			ResidualStd:    mr.Residuals.Std,
		}
		for _, row := range metricRows {
			if v := row.value(mr.Accuracy); !math.IsNaN(v) && !math.IsInf(v, 0) {
				score.Metrics[row.name] = v
			}
		}
		out.Models = append(out.Models, score)
	}

	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
