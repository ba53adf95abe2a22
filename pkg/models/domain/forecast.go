package domain

// ForecastResult is one model's out-of-sample forecast, tagged with the
// producing model's identifier. Its series is aligned one-to-one with the
// test partition it will be scored against.
type ForecastResult struct {
	Model  string
	Series TimeSeries
}

// ModelSummary is a diagnostic view of a fitted model: the estimated
// parameters and, where the variant computes them, information criteria.
type ModelSummary struct {
	Model  string
	Params map[string]float64
}

// AccuracyReport holds the standard forecast accuracy metrics for one
// forecast scored against the held-out test series.
//
// MPE and MAPE divide by the actual values and are numerically unstable when
// actuals sit near zero, which daily log-returns routinely do. When any
// actual is exactly zero both are reported as NaN and ZeroActuals counts the
// offending points.
type AccuracyReport struct {
	Model string

	ME     float64
	RMSE   float64
	MAE    float64
	MPE    float64
	MAPE   float64
	ACF1   float64
	TheilU float64

	ZeroActuals int
}

// ResidualDiagnostics summarises the residual series (actual - forecast) of
// one evaluated forecast.
type ResidualDiagnostics struct {
	Model string

	// Ljung-Box test for residual autocorrelation. PValue below 0.05 means
	// the residuals still carry structure the model missed.
	LjungBoxStat   float64
	LjungBoxPValue float64
	LjungBoxLags   int

	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// StationarityResult is the verdict of a unit-root test on the return
// series. Informational only: the pipeline proceeds regardless.
type StationarityResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	IsStationary bool
}

// ModelReport bundles everything the report shows for one forecast.
type ModelReport struct {
	Summary   ModelSummary
	Accuracy  AccuracyReport
	Residuals ResidualDiagnostics
}
