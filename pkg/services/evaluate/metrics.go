// Package evaluate scores forecasts against the held-out test series and
// runs residual diagnostics on the errors.
package evaluate

import (
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/stats"
)

// Accuracy computes the standard accuracy metrics for one forecast against
// the test series. The forecast and test must share length and timestamps.
//
// MPE and MAPE divide by the actuals; when any actual is exactly zero they
// are reported as NaN with ZeroActuals counting the offending points. Near
// zero they inflate, which is expected for return series.
func Accuracy(fc domain.ForecastResult, test domain.TimeSeries) (domain.AccuracyReport, error) {
	if !fc.Series.SameShape(test) {
		return domain.AccuracyReport{}, fmt.Errorf(
			"evaluate: %s forecast does not align with test series: %w",
			fc.Model, domain.ErrAlignment)
	}

	n := test.Len()
	actual := test.Values()
	pred := fc.Series.Values()

	report := domain.AccuracyReport{Model: fc.Model}

	residuals := make([]float64, n)
	var sumErr, sumSq, sumAbs, sumPE, sumAPE float64
	for i := 0; i < n; i++ {
		e := actual[i] - pred[i]
		residuals[i] = e
		sumErr += e
		sumSq += e * e
		sumAbs += math.Abs(e)

		if actual[i] == 0 {
			report.ZeroActuals++
			continue
		}
		sumPE += 100 * e / actual[i]
		sumAPE += 100 * math.Abs(e) / math.Abs(actual[i])
	}

	nf := float64(n)
	report.ME = sumErr / nf
	report.RMSE = math.Sqrt(sumSq / nf)
	report.MAE = sumAbs / nf

	if report.ZeroActuals > 0 {
		report.MPE = math.NaN()
		report.MAPE = math.NaN()
	} else {
		report.MPE = sumPE / nf
		report.MAPE = sumAPE / nf
	}

	report.ACF1 = stats.Lag1(residuals)
	report.TheilU = theilU(actual, pred)

	return report, nil
}

// theilU is Theil's U2: model RMSE over the RMSE of the naive no-change
// forecast, both taken over the points where the naive forecast exists.
// U < 1 means the model beats the naive baseline.
func theilU(actual, pred []float64) float64 {
	n := len(actual)
	if n < 2 {
		return math.NaN()
	}

	var modelSq, naiveSq float64
	for t := 1; t < n; t++ {
		me := actual[t] - pred[t]
		ne := actual[t] - actual[t-1]
		modelSq += me * me
		naiveSq += ne * ne
	}
	if naiveSq == 0 {
		return math.NaN()
	}
	return math.Sqrt(modelSq / naiveSq)
}
