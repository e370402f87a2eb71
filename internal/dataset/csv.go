package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateFormats lists the date layouts accepted across all input files, tried
// in order.
var dateFormats = []string{
	"2006-01-02",          // ISO format
	"20060102",            // compact CRSP format
	"01/02/2006",          // US format
	"2006/01/02",          // alternative ISO
	"2006-01-02 15:04:05", // with time
	"01-02-2006",          // US with dashes
	"1/2/2006",            // US without zero padding
	"1/2/06",              // two-digit year, as Excel renders date cells
}

// parseDate tries each supported date layout in turn.
func parseDate(dateStr string) (time.Time, error) {
	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// parseFloat parses a required numeric field with file position context.
func parseFloat(str, fieldName string, lineNum int) (float64, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, fmt.Errorf("empty %s (line %d)", fieldName, lineNum)
	}

	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s (line %d): %w", fieldName, lineNum, err)
	}

	return value, nil
}

// isHeaderRow reports whether a record looks like a header rather than data.
// The first cell of a data row always starts with an identifier or a date,
// never with a known column name.
func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}

	headers := []string{"entity", "permno", "ticker", "symbol", "date", "ret", "siccd", "company"}
	firstCell := strings.ToLower(strings.TrimSpace(record[0]))

	for _, header := range headers {
		if strings.Contains(firstCell, header) {
			return true
		}
	}

	return false
}

// headerIndex locates a column whose header matches one of the candidate
// names, compared case-insensitively after trimming. Returns -1 when none
// match.
func headerIndex(header []string, candidates ...string) int {
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for _, c := range candidates {
			if name == c {
				return i
			}
		}
	}
	return -1
}

// headerIndexContains locates the first column whose header contains the
// substring, compared case-insensitively. Returns -1 when none match.
func headerIndexContains(header []string, substring string) int {
	for i, cell := range header {
		if strings.Contains(strings.ToLower(strings.TrimSpace(cell)), substring) {
			return i
		}
	}
	return -1
}
