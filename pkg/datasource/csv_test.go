package datasource_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge/pkg/datasource"
	"github.com/dmitrymomot/mailmerge/pkg/engine"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSV_LoadRecords(t *testing.T) {
	t.Parallel()

	t.Run("parses headers and rows", func(t *testing.T) {
		t.Parallel()
		path := writeCSV(t, "name,email\nAlice,alice@example.com\nBob,bob@example.com\n")

		data, err := datasource.NewCSV(path, nil).LoadRecords()
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "email"}, data.Headers)
		require.Len(t, data.Records, 2)
		assert.Equal(t, engine.Record{"name": "Alice", "email": "alice@example.com"}, data.Records[0])
		assert.Equal(t, engine.Record{"name": "Bob", "email": "bob@example.com"}, data.Records[1])
	})

	t.Run("quoted values with commas", func(t *testing.T) {
		t.Parallel()
		path := writeCSV(t, "name,note\n\"Smith, Alice\",\"line one\nline two\"\n")

		data, err := datasource.NewCSV(path, nil).LoadRecords()
		require.NoError(t, err)
		assert.Equal(t, "Smith, Alice", data.Records[0]["name"])
		assert.Equal(t, "line one\nline two", data.Records[0]["note"])
	})

	t.Run("header only is empty", func(t *testing.T) {
		t.Parallel()
		path := writeCSV(t, "name,email\n")

		_, err := datasource.NewCSV(path, nil).LoadRecords()
		require.ErrorIs(t, err, datasource.ErrEmpty)
	})

	t.Run("missing file is a source error", func(t *testing.T) {
		t.Parallel()
		_, err := datasource.NewCSV(filepath.Join(t.TempDir(), "nope.csv"), nil).LoadRecords()
		require.ErrorIs(t, err, datasource.ErrSource)
	})

	t.Run("ragged row is a source error", func(t *testing.T) {
		t.Parallel()
		path := writeCSV(t, "a,b\n1,2,3\n")

		_, err := datasource.NewCSV(path, nil).LoadRecords()
		require.ErrorIs(t, err, datasource.ErrSource)
	})
}
