package eventstudy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// TracerName identifies this package's spans.
const TracerName = "breachstudy.eventstudy"

// Engine runs event studies over a fixed universe of firm return series and
// one benchmark provider. The inputs are immutable after construction, so a
// single Engine serves concurrent runs.
type Engine struct {
	cfg    Config
	firms  map[string]*ReturnSeries
	bench  BenchmarkProvider
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEngine validates the configuration and inputs and returns a ready
// engine. A nil logger falls back to slog.Default().
func NewEngine(cfg Config, firms map[string]*ReturnSeries, bench BenchmarkProvider, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if len(firms) == 0 {
		return nil, fmt.Errorf("no return series provided")
	}
	if bench == nil {
		return nil, fmt.Errorf("no benchmark provider provided")
	}

	return &Engine{
		cfg:    cfg,
		firms:  firms,
		bench:  bench,
		logger: logger,
		tracer: otel.Tracer(TracerName),
	}, nil
}

// Run computes one result row per event, in input order. Per-event problems
// (no data, short windows, missing benchmark) are recorded on the row and
// never abort the batch; Run fails only on caller mistakes (no events) or a
// cancelled or timed-out context.
func (e *Engine) Run(ctx context.Context, events []EventRecord) ([]EventResult, error) {
	start := time.Now()

	if len(events) == 0 {
		return nil, fmt.Errorf("no events provided")
	}

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.ComputeTimeout)
	defer cancel()

	runCtx, span := e.tracer.Start(runCtx, "eventstudy.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("eventstudy.events", len(events)),
			attribute.Int("eventstudy.firms", len(e.firms)),
			attribute.Int("eventstudy.concurrency", e.cfg.MaxConcurrency),
		),
	)
	defer span.End()

	e.logger.InfoContext(runCtx, "starting event study run",
		"events", len(events),
		"firms", len(e.firms),
		"concurrency", e.cfg.MaxConcurrency,
		"timeout", e.cfg.ComputeTimeout,
	)

	// One slot per event; goroutines never share a slot, so no locking.
	results := make([]EventResult, len(events))

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(e.cfg.MaxConcurrency)

	for i := range events {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.processEvent(gctx, events[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, "run aborted")
		e.logger.ErrorContext(ctx, "event study run aborted", "error", err)
		return nil, fmt.Errorf("event study run: %w", err)
	}

	computed, failed := 0, 0
	for _, r := range results {
		if r.FailureReason == FailureNone {
			computed++
		} else {
			failed++
		}
	}

	span.SetAttributes(
		attribute.Int("eventstudy.computed", computed),
		attribute.Int("eventstudy.failed", failed),
	)
	span.SetStatus(codes.Ok, "")

	e.logger.InfoContext(runCtx, "event study run completed",
		"duration", time.Since(start),
		"computed", computed,
		"failed", failed,
	)

	return results, nil
}

// processEvent walks one event through alignment, the volatility comparison,
// window extraction, and the abnormal-return computation. The two metric
// paths are judged independently: volatility only needs the firm series, so
// a missing benchmark or short post-window still yields volatility figures
// when enough firm observations surround the event.
func (e *Engine) processEvent(ctx context.Context, ev EventRecord) EventResult {
	res := EventResult{
		EntityID:  ev.EntityID,
		EventDate: NormalizeDate(ev.EventDate),
	}

	if !ev.IsValid() {
		e.logger.WarnContext(ctx, "skipping malformed event",
			"entity_id", ev.EntityID,
			"event_date", ev.EventDate,
		)
		res.FailureReason = FailureNoTradingData
		return res
	}

	series, ok := e.firms[ev.EntityID]
	if !ok || series.Len() == 0 {
		e.logger.WarnContext(ctx, "no return series for event entity",
			"entity_id", ev.EntityID,
			"event_date", res.EventDate.Format("2006-01-02"),
		)
		res.FailureReason = FailureNoTradingData
		return res
	}

	idx, aligned, err := series.Align(ev.EventDate, e.cfg.AlignmentToleranceDays)
	if err != nil {
		e.logger.WarnContext(ctx, "event date alignment failed",
			"entity_id", ev.EntityID,
			"event_date", res.EventDate.Format("2006-01-02"),
			"error", err,
		)
		res.FailureReason = FailureNoTradingData
		return res
	}
	res.AlignedDate = aligned
	res.IndustryLabel = e.bench.Label(ev.EntityID, aligned)

	if vol, ok := ComputeVolatility(
		series.Returns(idx-e.cfg.VolatilityWindowDays, idx),
		series.Returns(idx, idx+e.cfg.VolatilityWindowDays),
		e.cfg.MinVolatilityObs,
	); ok {
		res.VolatilityPre = roundedPtr(vol.Pre)
		res.VolatilityPost = roundedPtr(vol.Post)
		res.VolatilityChange = roundedPtr(vol.Change)
		res.HasSufficientVolatilityData = true
	}

	window, err := ExtractWindow(series, idx, e.cfg)
	if err != nil {
		e.logger.WarnContext(ctx, "event window extraction failed",
			"entity_id", ev.EntityID,
			"aligned_date", aligned.Format("2006-01-02"),
			"error", err,
		)
		res.FailureReason = failureReasonFor(err)
		return res
	}

	var abnormalErr error
	if window.ShortOK {
		ar, err := ComputeAbnormal(series, e.bench, window.EventIndex, window.ShortEnd, e.cfg.MaxBenchmarkGaps)
		if err != nil {
			abnormalErr = err
		} else {
			res.CAR5d = roundedPtr(ar.CAR)
			res.BHAR5d = roundedPtr(ar.BHAR)
		}
	}
	if window.LongOK {
		ar, err := ComputeAbnormal(series, e.bench, window.EventIndex, window.LongEnd, e.cfg.MaxBenchmarkGaps)
		if err != nil {
			if abnormalErr == nil {
				abnormalErr = err
			}
		} else {
			res.CAR30d = roundedPtr(ar.CAR)
			res.BHAR30d = roundedPtr(ar.BHAR)
		}
	}

	if !res.Computed() {
		e.logger.WarnContext(ctx, "abnormal return computation failed",
			"entity_id", ev.EntityID,
			"aligned_date", aligned.Format("2006-01-02"),
			"error", abnormalErr,
		)
		res.FailureReason = failureReasonFor(abnormalErr)
		return res
	}
	res.HasSufficientReturnData = res.CAR5d != nil

	e.logger.DebugContext(ctx, "event computed",
		"entity_id", ev.EntityID,
		"aligned_date", aligned.Format("2006-01-02"),
		"industry", res.IndustryLabel,
		"volatility_sufficient", res.HasSufficientVolatilityData,
	)

	return res
}

// failureReasonFor maps a computation error to its reported reason. The
// default bucket covers ErrNoTradingData and anything unexpected.
func failureReasonFor(err error) FailureReason {
	switch {
	case errors.Is(err, ErrInsufficientPreWindow):
		return FailureInsufficientPreWindow
	case errors.Is(err, ErrInsufficientPostWindow):
		return FailureInsufficientPostWindow
	case errors.Is(err, ErrMissingBenchmark):
		return FailureMissingBenchmark
	default:
		return FailureNoTradingData
	}
}

func roundedPtr(v float64) *float64 {
	r := Round4(v)
	return &r
}
