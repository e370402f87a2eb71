package eventstudy

import (
	"math"
)

// ComputeVolatility compares annualized return volatility before and after
// an event. Both sides must carry at least minObs observations; otherwise no
// figure is reported at all, so a result is never half-populated. The
// returned values are percentages.
func ComputeVolatility(pre, post []float64, minObs int) (VolatilityChange, bool) {
	if len(pre) < minObs || len(post) < minObs {
		return VolatilityChange{}, false
	}

	preVol := AnnualizedVolatility(pre)
	postVol := AnnualizedVolatility(post)

	return VolatilityChange{
		Pre:    preVol,
		Post:   postVol,
		Change: postVol - preVol,
	}, true
}

// AnnualizedVolatility converts daily returns to annualized percent
// volatility: sample standard deviation scaled by sqrt(252) and 100.
func AnnualizedVolatility(returns []float64) float64 {
	return sampleStdev(returns) * math.Sqrt(TradingDaysPerYear) * 100
}

// sampleStdev is the n-1 standard deviation. Fewer than two observations
// have no dispersion to measure and yield zero.
func sampleStdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	sumSquared := 0.0
	for _, v := range values {
		sumSquared += (v - mean) * (v - mean)
	}

	return math.Sqrt(sumSquared / float64(n-1))
}
