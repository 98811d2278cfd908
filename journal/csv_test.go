package journal

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaderOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "points.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{{"run_id", "series", "time", "value"}}, readCSV(t, path))
}

func TestCSVJournalRecordDataset(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "points.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	ds := buildDataset(t, time.Now())
	require.NoError(t, j.RecordDataset(context.Background(), ds))
	require.NoError(t, j.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{ds.RunID, "a", "2024-01-01T00:00:00Z", "2"}, rows[1])
	assert.Equal(t, []string{ds.RunID, "a", "2024-01-01T00:01:01Z", "10"}, rows[2])
	assert.Equal(t, []string{ds.RunID, "b", "2024-01-01T00:00:05Z", "4"}, rows[3])
}

func TestCSVJournalAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "points.csv")
	for i := 0; i < 2; i++ {
		j, err := NewCSV(path)
		require.NoError(t, err)
		require.NoError(t, j.RecordDataset(context.Background(), buildDataset(t, time.Now())))
		require.NoError(t, j.Close())
	}

	rows := readCSV(t, path)
	assert.Len(t, rows, 7)
	assert.Equal(t, "run_id", rows[0][0])
	assert.NotEqual(t, rows[1][0], rows[4][0])
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "points.csv"))
	assert.Error(t, err)
}
