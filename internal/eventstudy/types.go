package eventstudy

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ReturnObservation is a single daily return for one entity.
// Return is a simple daily return expressed as a fraction (0.01 = 1%).
type ReturnObservation struct {
	Date   time.Time `json:"date"`
	Return float64   `json:"return"`
}

// ReturnSeries holds the ordered daily returns of one entity. Construct it
// with NewReturnSeries; the series is read-only afterwards, which is what
// lets the engine share it across concurrent event computations.
type ReturnSeries struct {
	entityID string
	obs      []ReturnObservation
}

// NewReturnSeries builds a series from unordered observations. Dates are
// normalized to UTC midnight, sorted ascending, and deduplicated keeping the
// first occurrence of each date.
func NewReturnSeries(entityID string, obs []ReturnObservation) *ReturnSeries {
	sorted := make([]ReturnObservation, len(obs))
	for i, o := range obs {
		sorted[i] = ReturnObservation{Date: NormalizeDate(o.Date), Return: o.Return}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	deduped := sorted[:0]
	for _, o := range sorted {
		if len(deduped) > 0 && deduped[len(deduped)-1].Date.Equal(o.Date) {
			continue
		}
		deduped = append(deduped, o)
	}

	return &ReturnSeries{entityID: entityID, obs: deduped}
}

// EntityID returns the identifier the series belongs to.
func (s *ReturnSeries) EntityID() string { return s.entityID }

// Len returns the number of observations.
func (s *ReturnSeries) Len() int { return len(s.obs) }

// Date returns the trading date at position i.
func (s *ReturnSeries) Date(i int) time.Time { return s.obs[i].Date }

// Return returns the daily return at position i.
func (s *ReturnSeries) Return(i int) float64 { return s.obs[i].Return }

// Returns copies the daily returns for positions [from, to) into a new slice.
// Bounds are clamped to the series.
func (s *ReturnSeries) Returns(from, to int) []float64 {
	if from < 0 {
		from = 0
	}
	if to > len(s.obs) {
		to = len(s.obs)
	}
	if from >= to {
		return nil
	}
	out := make([]float64, to-from)
	for i := from; i < to; i++ {
		out[i-from] = s.obs[i].Return
	}
	return out
}

// First returns the earliest trading date, or the zero time for an empty series.
func (s *ReturnSeries) First() time.Time {
	if len(s.obs) == 0 {
		return time.Time{}
	}
	return s.obs[0].Date
}

// Last returns the latest trading date, or the zero time for an empty series.
func (s *ReturnSeries) Last() time.Time {
	if len(s.obs) == 0 {
		return time.Time{}
	}
	return s.obs[len(s.obs)-1].Date
}

// NormalizeDate truncates a timestamp to UTC midnight. All calendar math in
// this package assumes normalized dates.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EventRecord identifies one breach disclosure to study.
type EventRecord struct {
	EntityID  string    `json:"entity_id"`
	EventDate time.Time `json:"event_date"`
}

// IsValid checks that the event carries an entity and a date.
func (e EventRecord) IsValid() bool {
	return e.EntityID != "" && !e.EventDate.IsZero()
}

// EventWindow describes the resolved observation window of one event as
// positions into the firm's return series. PreStart..EventIndex-1 is the
// pre-event run-up; the post windows end at ShortEnd and LongEnd inclusive
// of the event day itself.
type EventWindow struct {
	PreStart   int  `json:"pre_start"`
	EventIndex int  `json:"event_index"`
	ShortEnd   int  `json:"short_end"`
	LongEnd    int  `json:"long_end"`
	ShortOK    bool `json:"short_ok"`
	LongOK     bool `json:"long_ok"`
}

// IsValid checks the positional invariants of the window.
func (w EventWindow) IsValid() bool {
	return w.PreStart >= 0 && w.PreStart < w.EventIndex &&
		w.EventIndex <= w.ShortEnd && w.ShortEnd <= w.LongEnd
}

// AbnormalReturns holds the two abnormal-return measures of one window,
// both in percent.
type AbnormalReturns struct {
	CAR  float64 `json:"car"`
	BHAR float64 `json:"bhar"`
}

// VolatilityChange holds annualized pre- and post-event volatility and their
// difference, all in percent.
type VolatilityChange struct {
	Pre    float64 `json:"return_volatility_pre"`
	Post   float64 `json:"return_volatility_post"`
	Change float64 `json:"volatility_change"`
}

// FailureReason classifies why an event produced no abnormal-return metrics.
type FailureReason string

const (
	// FailureNone marks an event whose abnormal-return metrics were computed.
	FailureNone FailureReason = ""
	// FailureNoTradingData marks an entity with no return series, or none
	// within the alignment tolerance of the event date.
	FailureNoTradingData FailureReason = "no_trading_data"
	// FailureInsufficientPreWindow marks too few trading days before the event.
	FailureInsufficientPreWindow FailureReason = "insufficient_pre_window"
	// FailureInsufficientPostWindow marks too few trading days after the event
	// for every horizon.
	FailureInsufficientPostWindow FailureReason = "insufficient_post_window"
	// FailureMissingBenchmark marks too many window dates without a benchmark
	// return.
	FailureMissingBenchmark FailureReason = "missing_benchmark"
)

// Sentinel errors for the defined failure modes. The engine recovers these
// per event and records the matching FailureReason; they never abort a run.
var (
	ErrNoTradingData          = errors.New("no trading data within alignment tolerance")
	ErrInsufficientPreWindow  = errors.New("insufficient trading days before event")
	ErrInsufficientPostWindow = errors.New("insufficient trading days after event")
	ErrMissingBenchmark       = errors.New("benchmark returns missing for event window")
)

// EventResult is one output row of the study. Metric pointers are nil when
// the corresponding figure could not be computed; this is the defined
// insufficient-data outcome, not an error.
//
// HasSufficientReturnData is true exactly when the short-horizon metrics are
// set. Post-window sufficiency is monotone in the horizon length, so a
// populated long horizon implies a populated short one; the long-horizon
// pair can still be nil on its own. The three volatility fields are either
// all set or all nil, gated by HasSufficientVolatilityData.
type EventResult struct {
	EntityID    string    `json:"entity_id"`
	EventDate   time.Time `json:"event_date"`
	AlignedDate time.Time `json:"aligned_date,omitempty"`

	CAR5d                   *float64 `json:"car_5d,omitempty"`
	CAR30d                  *float64 `json:"car_30d,omitempty"`
	BHAR5d                  *float64 `json:"bhar_5d,omitempty"`
	BHAR30d                 *float64 `json:"bhar_30d,omitempty"`
	HasSufficientReturnData bool     `json:"has_sufficient_return_data"`

	VolatilityPre               *float64 `json:"return_volatility_pre,omitempty"`
	VolatilityPost              *float64 `json:"return_volatility_post,omitempty"`
	VolatilityChange            *float64 `json:"volatility_change,omitempty"`
	HasSufficientVolatilityData bool     `json:"has_sufficient_volatility_data"`

	IndustryLabel string        `json:"industry_label,omitempty"`
	FailureReason FailureReason `json:"failure_reason,omitempty"`
}

// Computed reports whether any abnormal-return metric was produced.
func (r EventResult) Computed() bool {
	return r.CAR5d != nil || r.CAR30d != nil
}

// Config parameterizes an event study. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// PreWindowDays is the exact number of trading days required strictly
	// before the aligned event day. Fewer days is a failure, never a
	// shortened window.
	PreWindowDays int `json:"pre_window_days"`
	// ShortHorizon and LongHorizon are the post-event horizons in trading
	// days, inclusive of the event day.
	ShortHorizon int `json:"short_horizon"`
	LongHorizon  int `json:"long_horizon"`
	// VolatilityWindowDays caps the trading days drawn on each side of the
	// event for the volatility comparison.
	VolatilityWindowDays int `json:"volatility_window_days"`
	// MinVolatilityObs is the minimum observation count required on each
	// side before any volatility figure is reported.
	MinVolatilityObs int `json:"min_volatility_obs"`
	// AlignmentToleranceDays bounds the calendar distance between an event
	// date and its nearest trading day.
	AlignmentToleranceDays int `json:"alignment_tolerance_days"`
	// MaxBenchmarkGaps is the number of window dates without a benchmark
	// return tolerated before the window is declared missing its benchmark.
	MaxBenchmarkGaps int `json:"max_benchmark_gaps"`

	MaxConcurrency int           `json:"max_concurrency"`
	ComputeTimeout time.Duration `json:"compute_timeout"`
}

// Default configuration values.
const (
	DefaultPreWindowDays          = 5
	DefaultShortHorizon           = 5
	DefaultLongHorizon            = 30
	DefaultVolatilityWindowDays   = 30
	DefaultMinVolatilityObs       = 10
	DefaultAlignmentToleranceDays = 60
	DefaultMaxBenchmarkGaps       = 1
	DefaultMaxConcurrency         = 4

	// TradingDaysPerYear is the annualization base for volatility.
	TradingDaysPerYear = 252

	DefaultComputeTimeout = 2 * time.Minute
)

// DefaultConfig returns the standard study parameters: a 5-day pre-window,
// 5- and 30-day horizons, and a 30-day volatility window with 10 minimum
// observations per side.
func DefaultConfig() Config {
	return Config{
		PreWindowDays:          DefaultPreWindowDays,
		ShortHorizon:           DefaultShortHorizon,
		LongHorizon:            DefaultLongHorizon,
		VolatilityWindowDays:   DefaultVolatilityWindowDays,
		MinVolatilityObs:       DefaultMinVolatilityObs,
		AlignmentToleranceDays: DefaultAlignmentToleranceDays,
		MaxBenchmarkGaps:       DefaultMaxBenchmarkGaps,
		MaxConcurrency:         DefaultMaxConcurrency,
		ComputeTimeout:         DefaultComputeTimeout,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.PreWindowDays <= 0 {
		return fmt.Errorf("pre window days must be positive: %d", c.PreWindowDays)
	}
	if c.ShortHorizon <= 0 {
		return fmt.Errorf("short horizon must be positive: %d", c.ShortHorizon)
	}
	if c.LongHorizon < c.ShortHorizon {
		return fmt.Errorf("long horizon %d must not be shorter than short horizon %d", c.LongHorizon, c.ShortHorizon)
	}
	if c.VolatilityWindowDays <= 0 {
		return fmt.Errorf("volatility window days must be positive: %d", c.VolatilityWindowDays)
	}
	if c.MinVolatilityObs < 2 {
		return fmt.Errorf("min volatility observations must be at least 2: %d", c.MinVolatilityObs)
	}
	if c.MinVolatilityObs > c.VolatilityWindowDays {
		return fmt.Errorf("min volatility observations %d exceed volatility window %d", c.MinVolatilityObs, c.VolatilityWindowDays)
	}
	if c.AlignmentToleranceDays < 0 {
		return fmt.Errorf("alignment tolerance days must not be negative: %d", c.AlignmentToleranceDays)
	}
	if c.MaxBenchmarkGaps < 0 {
		return fmt.Errorf("max benchmark gaps must not be negative: %d", c.MaxBenchmarkGaps)
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive: %d", c.MaxConcurrency)
	}
	if c.ComputeTimeout <= 0 {
		return fmt.Errorf("compute timeout must be positive: %s", c.ComputeTimeout)
	}
	return nil
}
