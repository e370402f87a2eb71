package eventstudy

import (
	"time"
)

// BenchmarkProvider supplies the counterfactual daily return an entity is
// measured against. Implementations must be safe for concurrent use; the
// engine queries them from multiple goroutines.
//
// Return reports the benchmark return for the entity on a trading date and
// whether one exists. Label names the benchmark bucket the entity belongs
// to on that date, for reporting.
type BenchmarkProvider interface {
	Return(entityID string, date time.Time) (float64, bool)
	Label(entityID string, date time.Time) string
}

// MarketBenchmark benchmarks every entity against a single market index
// series, the CRSP value-weighted index in the standard setup.
type MarketBenchmark struct {
	name    string
	returns map[time.Time]float64
}

// NewMarketBenchmark builds a market benchmark from an index return series.
// The name identifies the index in result rows (for example "vwretd").
func NewMarketBenchmark(name string, index *ReturnSeries) *MarketBenchmark {
	returns := make(map[time.Time]float64, index.Len())
	for i := 0; i < index.Len(); i++ {
		returns[index.Date(i)] = index.Return(i)
	}
	return &MarketBenchmark{name: name, returns: returns}
}

// Return reports the index return on the date, for any entity.
func (m *MarketBenchmark) Return(_ string, date time.Time) (float64, bool) {
	v, ok := m.returns[NormalizeDate(date)]
	return v, ok
}

// Label returns the index name regardless of entity or date.
func (m *MarketBenchmark) Label(string, time.Time) string { return m.name }
