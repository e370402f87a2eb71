package eventstudy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeVolatility tests the pre/post volatility comparison
func TestComputeVolatility(t *testing.T) {
	t.Run("change is post minus pre", func(t *testing.T) {
		pre := alternatingReturns(20, 0.01)
		post := alternatingReturns(20, 0.03)

		vol, ok := ComputeVolatility(pre, post, DefaultMinVolatilityObs)
		require.True(t, ok)

		assert.InDelta(t, AnnualizedVolatility(pre), vol.Pre, 1e-9)
		assert.InDelta(t, AnnualizedVolatility(post), vol.Post, 1e-9)
		assert.InDelta(t, vol.Post-vol.Pre, vol.Change, 1e-9)
		assert.Greater(t, vol.Change, 0.0)
	})

	t.Run("minimum observations boundary", func(t *testing.T) {
		tests := []struct {
			name    string
			preLen  int
			postLen int
			ok      bool
		}{
			{"both at minimum", 10, 10, true},
			{"pre one short", 9, 10, false},
			{"post one short", 10, 9, false},
			{"both short", 9, 9, false},
			{"both ample", 30, 30, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, ok := ComputeVolatility(
					alternatingReturns(tt.preLen, 0.01),
					alternatingReturns(tt.postLen, 0.01),
					DefaultMinVolatilityObs,
				)
				assert.Equal(t, tt.ok, ok)
			})
		}
	})

	t.Run("insufficient data reports nothing", func(t *testing.T) {
		vol, ok := ComputeVolatility(alternatingReturns(5, 0.01), alternatingReturns(30, 0.01), DefaultMinVolatilityObs)
		assert.False(t, ok)
		assert.Zero(t, vol.Pre)
		assert.Zero(t, vol.Post)
		assert.Zero(t, vol.Change)
	})

	t.Run("constant returns have zero volatility", func(t *testing.T) {
		vol, ok := ComputeVolatility(constantReturns(15, 0.01), constantReturns(15, 0.01), DefaultMinVolatilityObs)
		require.True(t, ok)
		assert.Zero(t, vol.Pre)
		assert.Zero(t, vol.Post)
		assert.Zero(t, vol.Change)
	})
}

// TestAnnualizedVolatility tests the annualization formula
func TestAnnualizedVolatility(t *testing.T) {
	t.Run("known two-point dispersion", func(t *testing.T) {
		// Sample stdev of {-0.01, 0.01} is 0.01*sqrt(2).
		got := AnnualizedVolatility([]float64{-0.01, 0.01})
		want := 0.01 * math.Sqrt2 * math.Sqrt(252) * 100
		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("single observation", func(t *testing.T) {
		assert.Zero(t, AnnualizedVolatility([]float64{0.05}))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Zero(t, AnnualizedVolatility(nil))
	})
}

// TestSampleStdev tests the n-1 standard deviation helper
func TestSampleStdev(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"textbook sample", []float64{2, 4, 4, 4, 5, 5, 7, 9}, math.Sqrt(32.0 / 7.0)},
		{"two points", []float64{1, 3}, math.Sqrt2},
		{"uniform", []float64{5, 5, 5, 5}, 0},
		{"single point", []float64{3}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sampleStdev(tt.values), 1e-9)
		})
	}
}
