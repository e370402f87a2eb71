package exporter

import (
	"sort"

	"breachstudy/internal/eventstudy"
)

// MetricStats describes the distribution of one metric across the events
// where it was computed. The zero value means the metric was never computed.
type MetricStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	// NegativeShare is the percentage of observations below zero. For the
	// abnormal-return metrics this is the share of firms that underperformed
	// their benchmark; for the volatility change its complement is the share
	// of firms whose volatility rose after the event.
	NegativeShare float64 `json:"negative_share"`
}

// Summary aggregates a result set. It feeds the workbook summary sheet and
// the CLI's final log lines.
type Summary struct {
	Events             int     `json:"events"`
	Computed           int     `json:"computed"`
	CoveragePct        float64 `json:"coverage_pct"`
	VolatilityComputed int     `json:"volatility_computed"`

	CAR5d            MetricStats `json:"car_5d"`
	CAR30d           MetricStats `json:"car_30d"`
	BHAR5d           MetricStats `json:"bhar_5d"`
	BHAR30d          MetricStats `json:"bhar_30d"`
	VolatilityChange MetricStats `json:"volatility_change"`

	// Failures counts events by failure reason. Events with any computed
	// abnormal metric carry no reason and are not counted here.
	Failures map[eventstudy.FailureReason]int `json:"failures,omitempty"`
}

// Summarize computes aggregate statistics over a result set.
func Summarize(results []eventstudy.EventResult) Summary {
	summary := Summary{
		Events:   len(results),
		Failures: make(map[eventstudy.FailureReason]int),
	}

	var car5d, car30d, bhar5d, bhar30d, volChange []float64
	for _, result := range results {
		if result.Computed() {
			summary.Computed++
		}
		if result.FailureReason != eventstudy.FailureNone {
			summary.Failures[result.FailureReason]++
		}
		if result.HasSufficientVolatilityData {
			summary.VolatilityComputed++
		}

		car5d = appendMetric(car5d, result.CAR5d)
		car30d = appendMetric(car30d, result.CAR30d)
		bhar5d = appendMetric(bhar5d, result.BHAR5d)
		bhar30d = appendMetric(bhar30d, result.BHAR30d)
		volChange = appendMetric(volChange, result.VolatilityChange)
	}

	if summary.Events > 0 {
		summary.CoveragePct = 100 * float64(summary.Computed) / float64(summary.Events)
	}

	summary.CAR5d = calculateMetricStats(car5d)
	summary.CAR30d = calculateMetricStats(car30d)
	summary.BHAR5d = calculateMetricStats(bhar5d)
	summary.BHAR30d = calculateMetricStats(bhar30d)
	summary.VolatilityChange = calculateMetricStats(volChange)

	return summary
}

func appendMetric(values []float64, v *float64) []float64 {
	if v == nil {
		return values
	}
	return append(values, *v)
}

// calculateMetricStats computes the distribution of one metric's values
func calculateMetricStats(values []float64) MetricStats {
	if len(values) == 0 {
		return MetricStats{}
	}

	stats := MetricStats{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}

	sum := 0.0
	negative := 0
	for _, v := range values {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		if v < 0 {
			negative++
		}
	}

	stats.Mean = sum / float64(len(values))
	stats.Median = calculateMedian(values)
	stats.NegativeShare = 100 * float64(negative) / float64(len(values))

	return stats
}

// calculateMedian computes the median of a slice of float64 values
func calculateMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Create sorted copy
	sortedValues := make([]float64, len(values))
	copy(sortedValues, values)
	sort.Float64s(sortedValues)

	n := len(sortedValues)
	if n%2 == 0 {
		return (sortedValues[n/2-1] + sortedValues[n/2]) / 2
	}
	return sortedValues[n/2]
}
