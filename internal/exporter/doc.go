// Package exporter emits event-study results for downstream analysis.
//
// This package contains three main components:
//
// WriteResultsCSV: One row per event in the pipeline column order, with a
// UTF-8 BOM so Excel recognizes the encoding.
//
// WriteResultsWorkbook: An xlsx workbook with an "Event Study" sheet holding
// the same rows and a "Summary" sheet holding aggregate statistics.
//
// Summarize: The aggregate statistics (coverage, per-metric distribution,
// failure counts) that feed the summary sheet and the CLI's final log lines.
//
// Example usage:
//
//	results, err := engine.Run(ctx, events)
//	if err != nil {
//		return err
//	}
//
//	if err := exporter.WriteResultsCSV(ctx, "results/event_study.csv", results, logger); err != nil {
//		return err
//	}
//
//	summary := exporter.Summarize(results)
//	logger.InfoContext(ctx, "study complete",
//		"events", summary.Events,
//		"computed", summary.Computed)
package exporter
