package evaluate

import (
	"fmt"
	"math"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/stats"
)

// Residuals summarises the forecast errors of one evaluated forecast: the
// Ljung-Box correlation test and the distribution of the residual series.
// For horizons too short to test, the Ljung-Box fields are NaN.
func Residuals(fc domain.ForecastResult, test domain.TimeSeries) (domain.ResidualDiagnostics, error) {
	if !fc.Series.SameShape(test) {
		return domain.ResidualDiagnostics{}, fmt.Errorf(
			"evaluate: %s residuals do not align with test series: %w",
			fc.Model, domain.ErrAlignment)
	}

	n := test.Len()
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = test.Value(i) - fc.Series.Value(i)
	}

	diag := domain.ResidualDiagnostics{
		Model: fc.Model,
		Mean:  mean(residuals),
		Std:   stddev(residuals),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}
	for _, r := range residuals {
		diag.Min = math.Min(diag.Min, r)
		diag.Max = math.Max(diag.Max, r)
	}

	lags := 10
	if lags > n-1 {
		lags = n - 1
	}
	if lb := stats.LjungBox(residuals, lags, 0); lb != nil {
		diag.LjungBoxStat = lb.Statistic
		diag.LjungBoxPValue = lb.PValue
		diag.LjungBoxLags = lb.Lags
	} else {
		diag.LjungBoxStat = math.NaN()
		diag.LjungBoxPValue = math.NaN()
	}

	return diag, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
