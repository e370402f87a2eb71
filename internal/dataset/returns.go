package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"breachstudy/internal/eventstudy"
)

// LoadReturnSeries reads per-entity daily returns from a CSV file and groups
// them into one ReturnSeries per entity.
//
// Expected CSV format: entity_id,date,ret. Files exported from CRSP keep
// these under permno/date/ret headers; when a header row is present the
// columns are located by name, otherwise the first three columns are used in
// that order. Records whose return is not numeric (CRSP codes missing
// returns as "C", "B", or ".") are skipped and counted.
func LoadReturnSeries(ctx context.Context, path string, logger *slog.Logger) (map[string]*eventstudy.ReturnSeries, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open returns file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Column positions, adjusted if the first row is a header.
	entityCol, dateCol, retCol := 0, 1, 2

	first, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read returns file: %w", err)
	}
	lineNum := 1

	byEntity := make(map[string][]eventstudy.ReturnObservation)
	var parsed, skipped int

	if isHeaderRow(first) {
		if i := headerIndex(first, "entity_id", "permno", "ticker", "symbol"); i >= 0 {
			entityCol = i
		}
		if i := headerIndex(first, "date", "caldt"); i >= 0 {
			dateCol = i
		}
		if i := headerIndex(first, "ret", "return", "dlret"); i >= 0 {
			retCol = i
		}
	} else if ok := appendReturn(byEntity, first, entityCol, dateCol, retCol); ok {
		parsed++
	} else {
		skipped++
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read returns file (line %d): %w", lineNum+1, err)
		}
		lineNum++

		if appendReturn(byEntity, record, entityCol, dateCol, retCol) {
			parsed++
		} else {
			skipped++
		}
	}

	if len(byEntity) == 0 {
		return nil, fmt.Errorf("no usable return records in %s", filepath.Base(path))
	}

	firms := make(map[string]*eventstudy.ReturnSeries, len(byEntity))
	for id, obs := range byEntity {
		firms[id] = eventstudy.NewReturnSeries(id, obs)
	}

	logger.InfoContext(ctx, "loaded return series",
		"file", filepath.Base(path),
		"entities", len(firms),
		"observations", parsed,
		"skipped", skipped,
	)

	return firms, nil
}

// appendReturn parses one record into the per-entity observation map. It
// reports false for records it cannot use, including the missing-return
// sentinels.
func appendReturn(byEntity map[string][]eventstudy.ReturnObservation, record []string, entityCol, dateCol, retCol int) bool {
	maxCol := max(entityCol, max(dateCol, retCol))
	if len(record) <= maxCol {
		return false
	}

	entityID := strings.TrimSpace(record[entityCol])
	if entityID == "" {
		return false
	}

	date, err := parseDate(strings.TrimSpace(record[dateCol]))
	if err != nil {
		return false
	}

	ret, err := strconv.ParseFloat(strings.TrimSpace(record[retCol]), 64)
	if err != nil {
		return false
	}

	byEntity[entityID] = append(byEntity[entityID], eventstudy.ReturnObservation{Date: date, Return: ret})
	return true
}
