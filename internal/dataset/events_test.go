package dataset

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TestLoadEventsCSV tests the CSV branch of the events loader
func TestLoadEventsCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("header with canonical columns", func(t *testing.T) {
		path := writeTempFile(t, "events.csv",
			"entity_id,event_date\n"+
				"10001,2019-07-15\n"+
				"10002,2019-08-02\n")

		events, err := LoadEvents(ctx, path, nil)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "10001", events[0].EntityID)
		assert.Equal(t, time.Date(2019, 7, 15, 0, 0, 0, 0, time.UTC), events[0].EventDate)
	})

	t.Run("headerless file reads positionally", func(t *testing.T) {
		path := writeTempFile(t, "events.csv",
			"10001,2019-07-15\n"+
				"10002,2019-08-02\n")

		events, err := LoadEvents(ctx, path, nil)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("vendor-style header past preamble rows", func(t *testing.T) {
		path := writeTempFile(t, "events.csv",
			"Breach Notification Export,,\n"+
				",,\n"+
				"Ticker,Company Name,Date Made Public\n"+
				"ACME,Acme Corp,2019-07-15\n"+
				"BOLT,Bolt Inc,2019-08-02\n")

		events, err := LoadEvents(ctx, path, nil)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "ACME", events[0].EntityID)
		assert.Equal(t, "BOLT", events[1].EntityID)
	})

	t.Run("skips rows missing entity or date", func(t *testing.T) {
		path := writeTempFile(t, "events.csv",
			"entity_id,event_date\n"+
				",2019-07-15\n"+
				"10001,never\n"+
				",,\n"+
				"10002,2019-08-02\n")

		events, err := LoadEvents(ctx, path, nil)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "10002", events[0].EntityID)
	})

	t.Run("no usable events is an error", func(t *testing.T) {
		path := writeTempFile(t, "events.csv", "entity_id,event_date\n,\n")

		_, err := LoadEvents(ctx, path, nil)
		assert.Error(t, err)
	})

	t.Run("unsupported extension is an error", func(t *testing.T) {
		path := writeTempFile(t, "events.json", "[]")

		_, err := LoadEvents(ctx, path, nil)
		assert.Error(t, err)
	})
}

// TestLoadEventsWorkbook tests the Excel branch of the events loader
func TestLoadEventsWorkbook(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a sheet with preamble and vendor headers", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Breach Notification Database"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Ticker", "Company Name", "Date Made Public"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"ACME", "Acme Corp", "2019-07-15"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A5", &[]interface{}{"BOLT", "Bolt Inc", "2019-08-02"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A6", &[]interface{}{"", "No ticker row", "2019-08-09"}))

		path := filepath.Join(t.TempDir(), "events.xlsx")
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		events, err := LoadEvents(ctx, path, nil)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "ACME", events[0].EntityID)
		assert.Equal(t, time.Date(2019, 7, 15, 0, 0, 0, 0, time.UTC), events[0].EventDate)
		assert.Equal(t, "BOLT", events[1].EntityID)
	})

	t.Run("finds the data sheet among several", func(t *testing.T) {
		f := excelize.NewFile()
		_, err := f.NewSheet("Notes")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Notes", "A1", &[]interface{}{"methodology notes, no data"}))
		_, err = f.NewSheet("Breaches")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Breaches", "A1", &[]interface{}{"permno", "event_date"}))
		require.NoError(t, f.SetSheetRow("Breaches", "A2", &[]interface{}{"10001", "2019-07-15"}))

		path := filepath.Join(t.TempDir(), "events.xlsx")
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		events, err := LoadEvents(ctx, path, nil)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "10001", events[0].EntityID)
	})

	t.Run("workbook without event columns is an error", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"nothing", "useful"}))

		path := filepath.Join(t.TempDir(), "events.xlsx")
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		_, err := LoadEvents(ctx, path, nil)
		assert.Error(t, err)
	})
}
