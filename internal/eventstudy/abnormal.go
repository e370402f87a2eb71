package eventstudy

import (
	"fmt"
	"math"
)

// ComputeAbnormal computes CAR and BHAR over the inclusive position range
// [start, end] of the firm series, both in percent:
//
//	CAR  = 100 * Σ (firm − benchmark)
//	BHAR = 100 * [(Π(1+firm) − 1) − (Π(1+benchmark) − 1)]
//
// A window date without a benchmark return is skipped on both the firm and
// benchmark legs so the two measures stay paired. More than maxGaps such
// dates is ErrMissingBenchmark.
func ComputeAbnormal(s *ReturnSeries, bench BenchmarkProvider, start, end, maxGaps int) (AbnormalReturns, error) {
	if start < 0 || end >= s.Len() || start > end {
		return AbnormalReturns{}, fmt.Errorf("window [%d, %d] out of range for series %q with %d observations", start, end, s.EntityID(), s.Len())
	}

	var (
		sumDiff   float64
		firmProd  = 1.0
		benchProd = 1.0
		gaps      int
	)

	for i := start; i <= end; i++ {
		benchRet, ok := bench.Return(s.EntityID(), s.Date(i))
		if !ok {
			gaps++
			continue
		}

		firmRet := s.Return(i)
		sumDiff += firmRet - benchRet
		firmProd *= 1 + firmRet
		benchProd *= 1 + benchRet
	}

	if gaps > maxGaps {
		return AbnormalReturns{}, fmt.Errorf("%w: %d of %d window dates have no benchmark return (allowed %d)",
			ErrMissingBenchmark, gaps, end-start+1, maxGaps)
	}

	return AbnormalReturns{
		CAR:  100 * sumDiff,
		BHAR: 100 * ((firmProd - 1) - (benchProd - 1)),
	}, nil
}

// Round4 rounds a metric to four decimals. Applied once at the output
// boundary; intermediate arithmetic stays unrounded.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
