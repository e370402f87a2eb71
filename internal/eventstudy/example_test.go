package eventstudy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Example_basicUsage demonstrates a complete abnormal-return study
func Example_basicUsage() {
	ctx := context.Background()

	// Create sample firm and market return data for demonstration
	firms, market, events := generateSampleStudyData()

	// Create engine with default study parameters
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	engine, err := NewEngine(
		DefaultConfig(), // 5-day pre-window, 5d/30d horizons, 30-day volatility window
		firms,
		NewMarketBenchmark("vwretd", market),
		logger,
	)
	if err != nil {
		fmt.Printf("Error creating engine: %v\n", err)
		return
	}

	// Compute abnormal returns around every breach disclosure
	results, err := engine.Run(ctx, events)
	if err != nil {
		fmt.Printf("Error running study: %v\n", err)
		return
	}

	// Display results for the first few events
	fmt.Printf("Breach Event Study Results:\n")
	fmt.Printf("===========================\n")
	for i, res := range results {
		if i >= 3 { // Show only first 3 for brevity
			break
		}

		fmt.Printf("Entity: %s | Event: %s | Benchmark: %s\n",
			res.EntityID,
			res.AlignedDate.Format("2006-01-02"),
			res.IndustryLabel,
		)
		if res.FailureReason != FailureNone {
			fmt.Printf("  Skipped: %s\n\n", res.FailureReason)
			continue
		}
		fmt.Printf("  CAR:  5d %s | 30d %s\n", formatMetric(res.CAR5d), formatMetric(res.CAR30d))
		fmt.Printf("  BHAR: 5d %s | 30d %s\n", formatMetric(res.BHAR5d), formatMetric(res.BHAR30d))
		fmt.Printf("  Volatility: pre %s | post %s | change %s\n\n",
			formatMetric(res.VolatilityPre),
			formatMetric(res.VolatilityPost),
			formatMetric(res.VolatilityChange),
		)
	}

	fmt.Printf("Total events processed: %d\n", len(results))
}

// Example_industryBenchmark demonstrates benchmarking against industry peers
func Example_industryBenchmark() {
	ctx := context.Background()

	firms, _, events := generateSampleStudyData()

	// Map each firm to an industry through its SIC code. Assignments carry an
	// effective date so reclassifications take effect going forward.
	effective := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	assignments := []IndustryAssignment{
		{EntityID: "ACME", EffectiveDate: effective, Label: IndustryFromSIC(7372)}, // prepackaged software
		{EntityID: "BOLT", EffectiveDate: effective, Label: IndustryFromSIC(7370)}, // computer services
		{EntityID: "CRED", EffectiveDate: effective, Label: IndustryFromSIC(6022)}, // state commercial banks
		{EntityID: "DIME", EffectiveDate: effective, Label: IndustryFromSIC(6141)}, // personal credit institutions
	}

	// Peer means are computed over the full cross-section, so every
	// series participates in its industry's benchmark.
	bench := NewIndustryBenchmark(firms, assignments)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	engine, err := NewEngine(DefaultConfig(), firms, bench, logger)
	if err != nil {
		fmt.Printf("Error creating engine: %v\n", err)
		return
	}

	results, err := engine.Run(ctx, events)
	if err != nil {
		fmt.Printf("Error running study: %v\n", err)
		return
	}

	fmt.Printf("Industry-Benchmarked Results:\n")
	fmt.Printf("=============================\n")
	for _, res := range results {
		fmt.Printf("%s (%s): CAR 5d %s\n", res.EntityID, res.IndustryLabel, formatMetric(res.CAR5d))
	}
}

// formatMetric renders an optional metric, showing "n/a" when the data was
// insufficient to compute it.
func formatMetric(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

// generateSampleStudyData creates a small universe with distinct post-event
// behavior per firm.
func generateSampleStudyData() (map[string]*ReturnSeries, *ReturnSeries, []EventRecord) {
	baseDate := time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
	entities := []string{"ACME", "BOLT", "CRED", "DIME"}

	firms := make(map[string]*ReturnSeries, len(entities))
	var events []EventRecord

	for _, entity := range entities {
		// Each firm gets 120 trading days with the breach on day 60.
		var drift, noise float64
		switch entity {
		case "ACME": // Sharp negative reaction
			drift, noise = -0.012, 0.004
		case "BOLT": // Mild negative drift
			drift, noise = -0.003, 0.002
		case "CRED": // No visible reaction
			drift, noise = 0.0, 0.003
		case "DIME": // Recovery after an initial drop
			drift, noise = 0.006, 0.005
		}

		var obs []ReturnObservation
		date := baseDate
		for len(obs) < 120 {
			if date.Weekday() != time.Saturday && date.Weekday() != time.Sunday {
				day := len(obs)
				r := noise * float64(day%5-2) / 2 // small deterministic wiggle
				if day >= 60 && day < 70 {
					r += drift // ten days of post-breach drift
				}
				obs = append(obs, ReturnObservation{Date: date, Return: r})
			}
			date = date.AddDate(0, 0, 1)
		}

		series := NewReturnSeries(entity, obs)
		firms[entity] = series
		events = append(events, EventRecord{EntityID: entity, EventDate: series.Date(60)})
	}

	// Flat market index covering the same dates.
	var marketObs []ReturnObservation
	date := baseDate
	for len(marketObs) < 120 {
		if date.Weekday() != time.Saturday && date.Weekday() != time.Sunday {
			marketObs = append(marketObs, ReturnObservation{Date: date, Return: 0.0005})
		}
		date = date.AddDate(0, 0, 1)
	}
	market := NewReturnSeries("vwretd", marketObs)

	return firms, market, events
}
