package adapters

import (
	"math"
	"testing"
	"time"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/services/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunResult(t *testing.T) *pipeline.RunResult {
	t.Helper()
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, 5)
	values := make([]float64, 5)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
		values[i] = 0.01 * float64(i+1)
	}
	returns, err := domain.NewTimeSeries(times, values)
	require.NoError(t, err)

	return &pipeline.RunResult{
		Coin:    "bitcoin",
		Returns: returns,
		Stationarity: domain.StationarityResult{
			Statistic:    -5.5,
			PValue:       0.001,
			IsStationary: true,
		},
		Models: map[string]domain.ModelReport{
			"arima": {
				Summary: domain.ModelSummary{
					Model:  "arima",
					Params: map[string]float64{"p": 1, "q": 0},
				},
				Accuracy: domain.AccuracyReport{
					Model: "arima",
					ME:    0.001, RMSE: 0.02, MAE: 0.015,
					MPE: 40, MAPE: 95, ACF1: -0.1, TheilU: 0.9,
				},
				Residuals: domain.ResidualDiagnostics{
					Model:          "arima",
					LjungBoxPValue: 0.35,
					Mean:           0.0005,
					Std:            0.02,
				},
			},
			"ets": {
				Summary: domain.ModelSummary{Model: "ets", Params: map[string]float64{"alpha": 0.25}},
				Accuracy: domain.AccuracyReport{
					Model: "ets",
					RMSE:  0.03, MPE: math.NaN(), MAPE: math.NaN(), ZeroActuals: 1,
				},
				Residuals: domain.ResidualDiagnostics{Model: "ets", LjungBoxPValue: math.NaN()},
			},
		},
		Order:     []string{"arima", "ets"},
		BestModel: "arima",
	}
}

func TestMapRunResultToReport(t *testing.T) {
	report := MapRunResultToReport(testRunResult(t))

	assert.Contains(t, report.Title, "bitcoin")
	assert.Equal(t, "bitcoin", report.Symbol)
	assert.Equal(t, 5, report.Period.Observations)
	assert.Equal(t, "arima", report.BestModel)

	require.Len(t, report.Sections, 2)
	arima := report.Sections[0]
	assert.Equal(t, "arima", arima.Title)
	assert.Equal(t, "1.0000", arima.Summary["p"])
	assert.Equal(t, "0.3500", arima.Summary["Ljung-Box p-value"])

	// Metric rows keep their fixed order.
	require.Len(t, arima.Details, 7)
	names := make([]string, len(arima.Details))
	for i, d := range arima.Details {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"ME", "RMSE", "MAE", "MPE", "MAPE", "ACF1", "Theil's U"}, names)
	assert.Equal(t, 0.02, arima.Details[1].Value)
	assert.Equal(t, "%", arima.Details[3].Unit)
	assert.Equal(t, "%", arima.Details[4].Unit)
}

func TestMapRunResultToApi(t *testing.T) {
	out := MapRunResultToApi(testRunResult(t))

	assert.Equal(t, "bitcoin", out.Symbol)
	assert.Equal(t, 5, out.Points)
	assert.Equal(t, "arima", out.BestModel)
	assert.True(t, out.Stationarity.IsStationary)

	require.Len(t, out.Models, 2)
	assert.Equal(t, "arima", out.Models[0].Model)
	assert.Equal(t, 95.0, out.Models[0].Metrics["MAPE"])

	// NaN metrics are dropped so the payload stays encodable.
	ets := out.Models[1]
	assert.NotContains(t, ets.Metrics, "MAPE")
	assert.NotContains(t, ets.Metrics, "MPE")
	assert.Contains(t, ets.Metrics, "RMSE")
	assert.Equal(t, 0.0, ets.LjungBoxPValue)
}
