package transform

import (
	"fmt"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/quantfold/marketcast/pkg/stats"
)

// CheckStationarity runs an augmented Dickey-Fuller unit-root test on the
// return series. The verdict is informational: callers report it but proceed
// either way.
func CheckStationarity(returns domain.TimeSeries) (domain.StationarityResult, error) {
	res := stats.ADF(returns.Values(), 0)
	if res == nil {
		return domain.StationarityResult{}, fmt.Errorf(
			"stationarity: series of %d observations too short for ADF: %w",
			returns.Len(), domain.ErrInsufficientData)
	}
	return domain.StationarityResult{
		Statistic:    res.Statistic,
		PValue:       res.PValue,
		Lags:         res.Lags,
		IsStationary: res.IsStationary,
	}, nil
}
