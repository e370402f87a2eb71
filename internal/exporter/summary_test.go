package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"breachstudy/internal/eventstudy"
)

func TestSummarize(t *testing.T) {
	t.Run("empty result set", func(t *testing.T) {
		summary := Summarize(nil)

		assert.Equal(t, 0, summary.Events)
		assert.Equal(t, 0, summary.Computed)
		assert.Zero(t, summary.CoveragePct)
		assert.Equal(t, 0, summary.VolatilityComputed)
		assert.Empty(t, summary.Failures)
		assert.Equal(t, MetricStats{}, summary.CAR5d)
		assert.Equal(t, MetricStats{}, summary.VolatilityChange)
	})

	t.Run("mixed outcomes", func(t *testing.T) {
		summary := Summarize(sampleResults())

		assert.Equal(t, 3, summary.Events)
		assert.Equal(t, 2, summary.Computed)
		assert.InDelta(t, 66.6667, summary.CoveragePct, 0.001)
		assert.Equal(t, 1, summary.VolatilityComputed)
		assert.Equal(t, map[eventstudy.FailureReason]int{
			eventstudy.FailureNoTradingData: 1,
		}, summary.Failures)

		// CAR 5d over ACME (-3.25) and BOLT (2.0).
		assert.Equal(t, 2, summary.CAR5d.Count)
		assert.Equal(t, -0.625, summary.CAR5d.Mean)
		assert.Equal(t, -0.625, summary.CAR5d.Median)
		assert.Equal(t, -3.25, summary.CAR5d.Min)
		assert.Equal(t, 2.0, summary.CAR5d.Max)
		assert.Equal(t, 50.0, summary.CAR5d.NegativeShare)

		// CAR 30d only computed for ACME.
		assert.Equal(t, 1, summary.CAR30d.Count)
		assert.Equal(t, -5.5, summary.CAR30d.Mean)
		assert.Equal(t, -5.5, summary.CAR30d.Median)
		assert.Equal(t, 100.0, summary.CAR30d.NegativeShare)

		assert.Equal(t, 2, summary.BHAR5d.Count)
		assert.InDelta(t, -0.4875, summary.BHAR5d.Mean, 1e-12)
		assert.InDelta(t, -0.4875, summary.BHAR5d.Median, 1e-12)
		assert.Equal(t, -3.1, summary.BHAR5d.Min)
		assert.Equal(t, 2.125, summary.BHAR5d.Max)

		assert.Equal(t, 1, summary.VolatilityChange.Count)
		assert.Equal(t, 6.25, summary.VolatilityChange.Mean)
		assert.Equal(t, 0.0, summary.VolatilityChange.NegativeShare)
	})

	t.Run("failure counts by reason", func(t *testing.T) {
		results := []eventstudy.EventResult{
			{EntityID: "A", FailureReason: eventstudy.FailureNoTradingData},
			{EntityID: "B", FailureReason: eventstudy.FailureNoTradingData},
			{EntityID: "C", FailureReason: eventstudy.FailureInsufficientPreWindow},
			{EntityID: "D", FailureReason: eventstudy.FailureMissingBenchmark},
		}

		summary := Summarize(results)

		assert.Equal(t, 4, summary.Events)
		assert.Equal(t, 0, summary.Computed)
		assert.Zero(t, summary.CoveragePct)
		assert.Equal(t, map[eventstudy.FailureReason]int{
			eventstudy.FailureNoTradingData:         2,
			eventstudy.FailureInsufficientPreWindow: 1,
			eventstudy.FailureMissingBenchmark:      1,
		}, summary.Failures)
	})
}

func TestCalculateMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{
			name:     "empty",
			input:    nil,
			expected: 0,
		},
		{
			name:     "single value",
			input:    []float64{7.5},
			expected: 7.5,
		},
		{
			name:     "odd count",
			input:    []float64{3, 1, 2},
			expected: 2,
		},
		{
			name:     "even count averages the middle pair",
			input:    []float64{4, 1, 3, 2},
			expected: 2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calculateMedian(tt.input))
		})
	}
}

func TestCalculateMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	calculateMedian(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}
