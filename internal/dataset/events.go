package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"breachstudy/internal/eventstudy"
)

// LoadEvents reads breach disclosure events from an Excel workbook or a CSV
// file, chosen by file extension.
//
// Breach datasets arrive as hand-maintained spreadsheets, so the loader
// scans for a header row naming an entity column (entity_id, permno, ticker,
// or symbol) and a date column (any header containing "date", such as "Date
// Made Public"). Rows missing either value are skipped with a warning.
func LoadEvents(ctx context.Context, path string, logger *slog.Logger) ([]eventstudy.EventRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		events []eventstudy.EventRecord
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		events, err = loadEventsWorkbook(ctx, path, logger)
	case ".csv":
		events, err = loadEventsCSV(ctx, path, logger)
	default:
		return nil, fmt.Errorf("unsupported events file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("no usable events in %s", filepath.Base(path))
	}

	logger.InfoContext(ctx, "loaded breach events",
		"file", filepath.Base(path),
		"events", len(events),
	)

	return events, nil
}

// loadEventsWorkbook scans every sheet for one with recognizable event
// columns and parses its rows.
func loadEventsWorkbook(ctx context.Context, path string, logger *slog.Logger) ([]eventstudy.EventRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open events workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		headerRow, entityCol, dateCol := findEventHeader(rows)
		if headerRow < 0 {
			continue
		}

		logger.DebugContext(ctx, "found event data sheet",
			"file", filepath.Base(path),
			"sheet", sheet,
			"header_row", headerRow+1,
		)

		return parseEventRows(ctx, rows[headerRow+1:], headerRow+2, entityCol, dateCol, logger), nil
	}

	return nil, fmt.Errorf("no sheet with entity and date columns in %s", filepath.Base(path))
}

// loadEventsCSV parses a CSV events file. Files without a header are read
// positionally as entity_id,event_date.
func loadEventsCSV(ctx context.Context, path string, logger *slog.Logger) ([]eventstudy.EventRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty events file %s", filepath.Base(path))
	}

	dataStart, entityCol, dateCol := 0, 0, 1
	if headerRow, e, d := findEventHeader(records); headerRow >= 0 {
		dataStart, entityCol, dateCol = headerRow+1, e, d
	}

	return parseEventRows(ctx, records[dataStart:], dataStart+1, entityCol, dateCol, logger), nil
}

// findEventHeader locates the header row and its entity and date columns
// within the first rows of a sheet. Returns -1 when no row qualifies.
func findEventHeader(rows [][]string) (headerRow, entityCol, dateCol int) {
	const scanLimit = 10
	for i, row := range rows {
		if i >= scanLimit {
			break
		}
		e := headerIndex(row, "entity_id", "permno", "ticker", "symbol")
		d := headerIndexContains(row, "date")
		if e >= 0 && d >= 0 {
			return i, e, d
		}
	}
	return -1, -1, -1
}

// parseEventRows converts sheet rows to event records, skipping rows that
// lack an entity or a parseable date. Spreadsheet rows are ragged, trailing
// empty cells are trimmed away, so cells are read positionally with an
// out-of-range guard.
func parseEventRows(ctx context.Context, rows [][]string, firstLine, entityCol, dateCol int, logger *slog.Logger) []eventstudy.EventRecord {
	var events []eventstudy.EventRecord
	for i, row := range rows {
		lineNum := firstLine + i

		entityID := cellAt(row, entityCol)
		dateStr := cellAt(row, dateCol)
		if entityID == "" && dateStr == "" {
			continue
		}
		if entityID == "" {
			logger.WarnContext(ctx, "skipping event without entity", "line", lineNum)
			continue
		}

		date, err := parseDate(dateStr)
		if err != nil {
			logger.WarnContext(ctx, "skipping event with unparseable date",
				"line", lineNum,
				"entity_id", entityID,
				"date", dateStr,
			)
			continue
		}

		events = append(events, eventstudy.EventRecord{EntityID: entityID, EventDate: date})
	}
	return events
}

// cellAt reads a trimmed cell value, treating positions past the end of a
// ragged row as empty.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
