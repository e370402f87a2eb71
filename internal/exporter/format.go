package exporter

import (
	"fmt"
	"time"
)

// formatMetric formats an optional metric for CSV output. Nil means the
// metric could not be computed and becomes an empty cell, so downstream
// tools read it as missing rather than zero.
func formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	// Always format with exactly 4 decimal places for consistency
	// This ensures values like 5.1 appear as 5.1000 in CSV
	return fmt.Sprintf("%.4f", *v)
}

// formatDate formats a date for CSV output. Zero times become empty cells.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
