package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"breachstudy/internal/eventstudy"
)

// Workbook sheet names.
const (
	resultsSheet = "Event Study"
	summarySheet = "Summary"
)

// resultColumns is the pipeline column order. Downstream notebooks select
// columns by these names, so order and spelling must not change.
var resultColumns = []string{
	"entity_id",
	"event_date",
	"car_5d",
	"car_30d",
	"bhar_5d",
	"bhar_30d",
	"has_sufficient_return_data",
	"return_volatility_pre",
	"return_volatility_post",
	"volatility_change",
	"has_sufficient_volatility_data",
	"industry_label",
	"failure_reason",
}

// WriteResultsCSV writes one row per event to a CSV file. The file starts
// with a UTF-8 BOM so Excel recognizes the encoding, and metrics that could
// not be computed become empty cells.
func WriteResultsCSV(ctx context.Context, path string, results []eventstudy.EventResult, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer file.Close()

	// Write BOM for Excel compatibility
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(resultColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, result := range results {
		if err := writer.Write(resultRow(result)); err != nil {
			return fmt.Errorf("write result row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush results file: %w", err)
	}

	logger.InfoContext(ctx, "wrote results csv",
		"path", path,
		"rows", len(results))
	return nil
}

// WriteResultsWorkbook writes an xlsx workbook with an "Event Study" sheet
// holding one row per event in the pipeline column order and a "Summary"
// sheet holding the aggregate statistics from Summarize.
func WriteResultsWorkbook(ctx context.Context, path string, results []eventstudy.EventResult, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename results sheet: %w", err)
	}

	header := make([]interface{}, len(resultColumns))
	for i, name := range resultColumns {
		header[i] = name
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}
	for i, result := range results {
		row := resultSheetRow(result)
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write result row %d: %w", i+1, err)
		}
	}

	if err := writeSummarySheet(f, Summarize(results)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	logger.InfoContext(ctx, "wrote results workbook",
		"path", path,
		"rows", len(results))
	return nil
}

// resultRow converts a result to CSV cells in the pipeline column order.
func resultRow(result eventstudy.EventResult) []string {
	return []string{
		result.EntityID,
		formatDate(result.EventDate),
		formatMetric(result.CAR5d),
		formatMetric(result.CAR30d),
		formatMetric(result.BHAR5d),
		formatMetric(result.BHAR30d),
		formatBool(result.HasSufficientReturnData),
		formatMetric(result.VolatilityPre),
		formatMetric(result.VolatilityPost),
		formatMetric(result.VolatilityChange),
		formatBool(result.HasSufficientVolatilityData),
		result.IndustryLabel,
		string(result.FailureReason),
	}
}

// resultSheetRow converts a result to workbook cells. Metrics stay numeric
// so spreadsheet formulas can consume them directly.
func resultSheetRow(result eventstudy.EventResult) []interface{} {
	return []interface{}{
		result.EntityID,
		formatDate(result.EventDate),
		metricCell(result.CAR5d),
		metricCell(result.CAR30d),
		metricCell(result.BHAR5d),
		metricCell(result.BHAR30d),
		formatBool(result.HasSufficientReturnData),
		metricCell(result.VolatilityPre),
		metricCell(result.VolatilityPost),
		metricCell(result.VolatilityChange),
		formatBool(result.HasSufficientVolatilityData),
		result.IndustryLabel,
		string(result.FailureReason),
	}
}

func metricCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func writeSummarySheet(f *excelize.File, summary Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"events", summary.Events},
		{"computed", summary.Computed},
		{"coverage_pct", summary.CoveragePct},
		{"volatility_computed", summary.VolatilityComputed},
		{},
		{"metric", "n", "mean", "median", "min", "max", "pct_negative"},
		summaryMetricRow("car_5d", summary.CAR5d),
		summaryMetricRow("car_30d", summary.CAR30d),
		summaryMetricRow("bhar_5d", summary.BHAR5d),
		summaryMetricRow("bhar_30d", summary.BHAR30d),
		summaryMetricRow("volatility_change", summary.VolatilityChange),
	}

	if len(summary.Failures) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"failure_reason", "count"})

		reasons := make([]string, 0, len(summary.Failures))
		for reason := range summary.Failures {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			count := summary.Failures[eventstudy.FailureReason(reason)]
			rows = append(rows, []interface{}{reason, count})
		}
	}

	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func summaryMetricRow(name string, stats MetricStats) []interface{} {
	return []interface{}{
		name,
		stats.Count,
		stats.Mean,
		stats.Median,
		stats.Min,
		stats.Max,
		stats.NegativeShare,
	}
}
