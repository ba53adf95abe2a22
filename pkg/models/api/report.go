package api

import "time"

// Report is the JSON projection of a completed evaluation run.
type Report struct {
	Title     string    `json:"title"`
	Symbol    string    `json:"symbol"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Points    int       `json:"points"`
	BestModel string    `json:"best_model"`

	Stationarity Stationarity `json:"stationarity"`
	Models       []ModelScore `json:"models"`
}

// Stationarity is the ADF verdict on the return series.
type Stationarity struct {
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	IsStationary bool    `json:"is_stationary"`
}

// ModelScore is one model's accuracy metrics and residual diagnostics.
type ModelScore struct {
	Model string `json:"model"`

	Metrics map[string]float64 `json:"metrics"`

	LjungBoxPValue float64 `json:"ljung_box_p_value"`
	ResidualMean   float64 `json:"residual_mean"`
	ResidualStd    float64 `json:"residual_std"`
}

// Model identifies one registered forecaster.
type Model struct {
	Name string `json:"name"`
}
