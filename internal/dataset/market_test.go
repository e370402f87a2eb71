package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadMarketIndex tests index column selection and parsing
func TestLoadMarketIndex(t *testing.T) {
	ctx := context.Background()

	content := "date,vwretd,ewretd\n" +
		"2019-07-01,0.0011,0.0008\n" +
		"2019-07-02,-0.0005,0.0002\n" +
		"2019-07-03,,0.0004\n"

	t.Run("selects the value-weighted column", func(t *testing.T) {
		path := writeTempFile(t, "index.csv", content)

		index, err := LoadMarketIndex(ctx, path, "vwretd", nil)
		require.NoError(t, err)

		// The blank vwretd cell on the third date is skipped.
		assert.Equal(t, "vwretd", index.EntityID())
		assert.Equal(t, 2, index.Len())
		assert.InDelta(t, 0.0011, index.Return(0), 1e-12)
		assert.InDelta(t, -0.0005, index.Return(1), 1e-12)
	})

	t.Run("selects the equal-weighted column", func(t *testing.T) {
		path := writeTempFile(t, "index.csv", content)

		index, err := LoadMarketIndex(ctx, path, "ewretd", nil)
		require.NoError(t, err)

		assert.Equal(t, 3, index.Len())
		assert.Equal(t, time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC), index.Date(2))
	})

	t.Run("column name is case-insensitive", func(t *testing.T) {
		path := writeTempFile(t, "index.csv", "DATE,VWRETD\n2019-07-01,0.001\n")

		index, err := LoadMarketIndex(ctx, path, "vwretd", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, index.Len())
	})

	t.Run("unknown column is an error", func(t *testing.T) {
		path := writeTempFile(t, "index.csv", content)

		_, err := LoadMarketIndex(ctx, path, "sprtrn", nil)
		assert.Error(t, err)
	})

	t.Run("missing header is an error", func(t *testing.T) {
		path := writeTempFile(t, "index.csv", "2019-07-01,0.0011,0.0008\n")

		_, err := LoadMarketIndex(ctx, path, "vwretd", nil)
		assert.Error(t, err)
	})

	t.Run("empty column name is an error", func(t *testing.T) {
		path := writeTempFile(t, "index.csv", content)

		_, err := LoadMarketIndex(ctx, path, "", nil)
		assert.Error(t, err)
	})

	t.Run("header with no data is an error", func(t *testing.T) {
		path := writeTempFile(t, "index.csv", "date,vwretd\n")

		_, err := LoadMarketIndex(ctx, path, "vwretd", nil)
		assert.Error(t, err)
	})
}
