package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	t    time.Time
	v    float64
	null bool
}

func drain(t *testing.T, c Cursor) []row {
	t.Helper()

	var out []row
	for c.Next() {
		ts, err := c.Timestamp()
		require.NoError(t, err)
		out = append(out, row{t: ts, v: c.Value(), null: c.WasNull()})
	}
	require.NoError(t, c.Err())
	return out
}

func TestCSVHeaderByName(t *testing.T) {
	t.Parallel()

	in := "host,value,time\n" +
		"a,1.5,2024-01-02T03:04:05Z\n" +
		"a,,2024-01-02T03:04:06Z\n" +
		"a,NaN,2024-01-02T03:04:07Z\n" +
		"\n" +
		"a, 2 ,2024-01-02T03:04:08.250Z\n"

	c, err := NewCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	defer c.Close()

	got := drain(t, c)
	require.Len(t, got, 4)

	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), got[0].t.UTC())
	assert.Equal(t, 1.5, got[0].v)
	assert.False(t, got[0].null)
	assert.True(t, got[1].null)
	assert.True(t, got[2].null)
	assert.Equal(t, 2.0, got[3].v)
	assert.Equal(t, 250*time.Millisecond, got[3].t.Sub(got[2].t)-time.Second)
}

func TestCSVNoHeader(t *testing.T) {
	t.Parallel()

	in := "1700000000000,10\n1700000001000,11\n"

	c, err := NewCSV(strings.NewReader(in), CSVOptions{TimeFormat: TimeUnixMs, Location: time.UTC})
	require.NoError(t, err)

	got := drain(t, c)
	require.Len(t, got, 2)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), got[0].t)
	assert.Equal(t, 11.0, got[1].v)
}

func TestCSVLayoutAndComma(t *testing.T) {
	t.Parallel()

	in := "time;value\n2024-03-01 10:00:00;7\n"
	loc := time.FixedZone("EST", -5*3600)

	c, err := NewCSV(strings.NewReader(in), CSVOptions{
		TimeFormat: "2006-01-02 15:04:05",
		Location:   loc,
		Comma:      ';',
	})
	require.NoError(t, err)

	got := drain(t, c)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, loc), got[0].t)
}

func TestCSVMissingTimestamp(t *testing.T) {
	t.Parallel()

	in := "time,value\n,5\n"

	c, err := NewCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)

	require.True(t, c.Next())
	_, err = c.Timestamp()
	assert.ErrorIs(t, err, ErrMissingTimestamp)
}

func TestCSVBadValue(t *testing.T) {
	t.Parallel()

	in := "time,value\n2024-01-02T03:04:05Z,1\n2024-01-02T03:04:06Z,abc\n2024-01-02T03:04:07Z,3\n"

	c, err := NewCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)

	require.True(t, c.Next())
	assert.False(t, c.Next())
	assert.False(t, c.Next())
	require.Error(t, c.Err())
	assert.Contains(t, c.Err().Error(), "line 3")
}

func TestCSVHeaderWithoutValueColumn(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(strings.NewReader("time,price\n"), CSVOptions{})
	assert.Error(t, err)
}

func TestCSVUTF16(t *testing.T) {
	t.Parallel()

	text := "time,value\n2024-01-02T03:04:05Z,4\n"
	buf := []byte{0xFF, 0xFE}
	for _, r := range text {
		buf = append(buf, byte(r), 0)
	}

	path := filepath.Join(t.TempDir(), "utf16.csv")
	require.NoError(t, os.WriteFile(path, buf, 0644))

	c, err := OpenCSV(path, CSVOptions{})
	require.NoError(t, err)

	got := drain(t, c)
	require.Len(t, got, 1)
	assert.Equal(t, 4.0, got[0].v)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.False(t, c.Next())
}

func TestOpenCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := OpenCSV(filepath.Join(t.TempDir(), "nope.csv"), CSVOptions{})
	assert.Error(t, err)
}

func TestSliceCursor(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewSlice([]Sample{
		{Time: t0, Value: 1},
		{Time: t0.Add(time.Second), Null: true},
		{Value: 3},
	})

	require.True(t, c.Next())
	assert.Equal(t, 1.0, c.Value())
	require.True(t, c.Next())
	assert.True(t, c.WasNull())
	require.True(t, c.Next())
	_, err := c.Timestamp()
	assert.ErrorIs(t, err, ErrMissingTimestamp)
	assert.False(t, c.Next())

	assert.NoError(t, c.Close())
	assert.True(t, c.Closed())
}
