package stats

// ACF returns the sample autocorrelation function of values for lags
// 0..maxLag. Returns nil when the series is constant or maxLag is negative.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// Lag1 returns the lag-1 autocorrelation of values, or 0 when undefined.
func Lag1(values []float64) float64 {
	acf := ACF(values, 1)
	if len(acf) < 2 {
		return 0
	}
	return acf[1]
}
