// Package eventstudy implements abnormal-return event studies around
// data-breach disclosure dates.
//
// Given daily return series for the affected firms, a benchmark return
// source, and a list of breach events, the package computes for every event:
//
//  1. Cumulative Abnormal Returns (CAR): additive firm-minus-benchmark
//     returns over short and long horizons anchored at the event day
//  2. Buy-and-Hold Abnormal Returns (BHAR): the difference between
//     compounded firm and benchmark returns over the same horizons
//  3. Volatility change: annualized return volatility after the event
//     minus annualized return volatility before it
//
// # Architecture
//
// The package is pure computation; loading and exporting live in the
// dataset and exporter packages.
//
//   - types.go: core data structures, configuration, failure taxonomy
//   - calendar.go: trading-calendar alignment of disclosure dates
//   - window.go: event window extraction with per-horizon sufficiency
//   - abnormal.go: CAR and BHAR computation
//   - benchmark.go: benchmark provider interface and market index provider
//   - industry.go: equal-weighted industry benchmark with SIC mapping
//   - volatility.go: annualized volatility and pre/post change
//   - engine.go: batch orchestrator with per-event failure isolation
//
// # Usage Example
//
//	firms := map[string]*eventstudy.ReturnSeries{
//	    "ACME": eventstudy.NewReturnSeries("ACME", obs),
//	}
//	bench := eventstudy.NewMarketBenchmark("vwretd", marketSeries)
//
//	engine, err := eventstudy.NewEngine(eventstudy.DefaultConfig(), firms, bench, slog.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := engine.Run(ctx, events)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Event Handling
//
// One event never aborts a batch. Events that cannot be computed are
// returned with nil metrics, sufficiency flags set to false, and a
// FailureReason naming what went wrong (no trading data, insufficient
// pre-window, insufficient post-window, missing benchmark). The
// abnormal-return and volatility paths are judged independently, so a row
// can carry volatility figures without CAR/BHAR and vice versa.
//
// # Conventions
//
// Returns are simple daily returns expressed as fractions (0.01 = 1%).
// CAR, BHAR, and volatility outputs are percentages rounded to four
// decimals. Volatility is annualized with the square root of 252 trading
// days. All dates are normalized to UTC midnight before use.
package eventstudy
