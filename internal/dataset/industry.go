package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"breachstudy/internal/eventstudy"
)

// LoadIndustryAssignments reads time-varying SIC classifications from a CSV
// file and maps each code to its industry label.
//
// Expected CSV format: entity_id,date,siccd, the shape of a CRSP names file.
// The date is the day the classification takes effect; assignments
// forward-fill from there. Records with an unparseable date or SIC code are
// skipped with a warning.
func LoadIndustryAssignments(ctx context.Context, path string, logger *slog.Logger) ([]eventstudy.IndustryAssignment, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open industry file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read industry file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty industry file %s", filepath.Base(path))
	}

	dataStart, entityCol, dateCol, sicCol := 0, 0, 1, 2
	if isHeaderRow(records[0]) {
		dataStart = 1
		if i := headerIndex(records[0], "entity_id", "permno", "ticker", "symbol"); i >= 0 {
			entityCol = i
		}
		if i := headerIndex(records[0], "date", "namedt"); i >= 0 {
			dateCol = i
		}
		if i := headerIndex(records[0], "siccd", "sic"); i >= 0 {
			sicCol = i
		}
	}

	var assignments []eventstudy.IndustryAssignment
	for i := dataStart; i < len(records); i++ {
		record := records[i]
		lineNum := i + 1

		if len(record) <= max(entityCol, max(dateCol, sicCol)) {
			continue
		}

		entityID := strings.TrimSpace(record[entityCol])
		if entityID == "" {
			continue
		}

		date, err := parseDate(strings.TrimSpace(record[dateCol]))
		if err != nil {
			logger.WarnContext(ctx, "skipping assignment with unparseable date",
				"line", lineNum,
				"entity_id", entityID,
				"error", err,
			)
			continue
		}

		code, err := strconv.Atoi(strings.TrimSpace(record[sicCol]))
		if err != nil {
			logger.WarnContext(ctx, "skipping assignment with unparseable SIC code",
				"line", lineNum,
				"entity_id", entityID,
				"siccd", record[sicCol],
			)
			continue
		}

		assignments = append(assignments, eventstudy.IndustryAssignment{
			EntityID:      entityID,
			EffectiveDate: date,
			Label:         eventstudy.IndustryFromSIC(code),
		})
	}

	if len(assignments) == 0 {
		return nil, fmt.Errorf("no usable assignments in %s", filepath.Base(path))
	}

	logger.InfoContext(ctx, "loaded industry assignments",
		"file", filepath.Base(path),
		"assignments", len(assignments),
	)

	return assignments, nil
}
