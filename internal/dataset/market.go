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

// LoadMarketIndex reads one market index return series from a CSV file.
//
// The file must carry a header row naming its columns; CRSP index files ship
// several return columns side by side (vwretd, ewretd, sprtrn), so the
// caller picks one by name. Records with a missing or non-numeric value in
// that column are skipped and counted.
func LoadMarketIndex(ctx context.Context, path, column string, logger *slog.Logger) (*eventstudy.ReturnSeries, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if column == "" {
		return nil, fmt.Errorf("no index column named")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market index file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read market index file: %w", err)
	}
	if !isHeaderRow(header) {
		return nil, fmt.Errorf("market index file %s has no header row to locate column %q", filepath.Base(path), column)
	}

	dateCol := headerIndex(header, "date", "caldt")
	if dateCol < 0 {
		return nil, fmt.Errorf("market index file %s has no date column", filepath.Base(path))
	}
	retCol := headerIndex(header, strings.ToLower(column))
	if retCol < 0 {
		return nil, fmt.Errorf("market index file %s has no column %q", filepath.Base(path), column)
	}

	var obs []eventstudy.ReturnObservation
	var skipped int
	lineNum := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read market index file (line %d): %w", lineNum+1, err)
		}
		lineNum++

		if len(record) <= dateCol || len(record) <= retCol {
			skipped++
			continue
		}

		date, err := parseDate(strings.TrimSpace(record[dateCol]))
		if err != nil {
			skipped++
			continue
		}
		ret, err := strconv.ParseFloat(strings.TrimSpace(record[retCol]), 64)
		if err != nil {
			skipped++
			continue
		}

		obs = append(obs, eventstudy.ReturnObservation{Date: date, Return: ret})
	}

	if len(obs) == 0 {
		return nil, fmt.Errorf("no usable index records in %s", filepath.Base(path))
	}

	logger.InfoContext(ctx, "loaded market index",
		"file", filepath.Base(path),
		"column", column,
		"observations", len(obs),
		"skipped", skipped,
	)

	return eventstudy.NewReturnSeries(column, obs), nil
}
