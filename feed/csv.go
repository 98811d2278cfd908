package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Time formats understood by CSVOptions.TimeFormat besides Go layouts.
const (
	TimeRFC3339 = "rfc3339"
	TimeUnix    = "unix"
	TimeUnixMs  = "unixms"
)

// CSVOptions selects the columns and time encoding of a CSV file.
type CSVOptions struct {
	TimeColumn  string // header name, default "time"
	ValueColumn string // header name, default "value"

	// TimeFormat is rfc3339 (default), unix, unixms or a Go time layout.
	TimeFormat string
	// Location applies to layouts without a zone. Default time.Local.
	Location *time.Location
	Comma    rune
}

func (o *CSVOptions) applyDefaults() {
	if o.TimeColumn == "" {
		o.TimeColumn = "time"
	}
	if o.ValueColumn == "" {
		o.ValueColumn = "value"
	}
	if o.TimeFormat == "" {
		o.TimeFormat = TimeRFC3339
	}
	if o.Location == nil {
		o.Location = time.Local
	}
}

// CSVCursor reads time,value rows from a CSV stream.
//
// A header row naming TimeColumn selects the columns by name; without a
// header the first column is the time and the second the value. Empty,
// "null", "NA" and "NaN" values are reported as nulls. An empty time field
// is a missing timestamp. UTF-8 and UTF-16 byte order marks are honoured.
type CSVCursor struct {
	f    io.Closer
	r    *csv.Reader
	opts CSVOptions

	timeIdx, valueIdx int
	pending           []string // first data row when the file has no header
	line              int

	ts    time.Time
	tsErr error
	value float64
	null  bool

	err    error
	done   bool
	closed bool
}

// OpenCSV opens path and returns a cursor that owns the file.
func OpenCSV(path string, opts CSVOptions) (*CSVCursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	c, err := NewCSV(f, opts)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.f = f
	return c, nil
}

// NewCSV reads from r. The caller keeps ownership of r.
func NewCSV(r io.Reader, opts CSVOptions) (*CSVCursor, error) {
	opts.applyDefaults()

	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	c := &CSVCursor{r: cr, opts: opts, timeIdx: 0, valueIdx: 1}
	if err := c.readHeader(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CSVCursor) readHeader() error {
	row, err := c.r.Read()
	if err == io.EOF {
		c.done = true
		return nil
	}
	if err != nil {
		return err
	}
	c.line++

	timeIdx, valueIdx := -1, -1
	for i, col := range row {
		name := strings.TrimSpace(col)
		if strings.EqualFold(name, c.opts.TimeColumn) {
			timeIdx = i
		}
		if strings.EqualFold(name, c.opts.ValueColumn) {
			valueIdx = i
		}
	}

	if timeIdx < 0 {
		// no header, first row is data
		c.pending = row
		return nil
	}
	if valueIdx < 0 {
		return fmt.Errorf("value column %q not in header %v", c.opts.ValueColumn, row)
	}
	c.timeIdx, c.valueIdx = timeIdx, valueIdx
	return nil
}

func (c *CSVCursor) Next() bool {
	if c.closed || c.done || c.err != nil {
		return false
	}

	for {
		var row []string
		if c.pending != nil {
			row, c.pending = c.pending, nil
		} else {
			var err error
			row, err = c.r.Read()
			if err == io.EOF {
				c.done = true
				return false
			}
			if err != nil {
				c.err = err
				return false
			}
			c.line++
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if err := c.parse(row); err != nil {
			c.err = fmt.Errorf("line %d: %w", c.line, err)
			return false
		}
		return true
	}
}

func (c *CSVCursor) parse(row []string) error {
	c.ts, c.tsErr = time.Time{}, nil
	c.value, c.null = 0, false

	ts := field(row, c.timeIdx)
	if ts == "" {
		c.tsErr = ErrMissingTimestamp
	} else {
		t, err := parseTime(ts, c.opts.TimeFormat, c.opts.Location)
		if err != nil {
			return fmt.Errorf("bad time %q: %w", ts, err)
		}
		c.ts = t
	}

	v := field(row, c.valueIdx)
	if isNullToken(v) {
		c.null = true
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("bad value %q: %w", v, err)
	}
	c.value = f
	return nil
}

func (c *CSVCursor) Timestamp() (time.Time, error) {
	if c.tsErr != nil {
		return time.Time{}, fmt.Errorf("line %d: %w", c.line, c.tsErr)
	}
	return c.ts, nil
}

func (c *CSVCursor) Value() float64 { return c.value }

func (c *CSVCursor) WasNull() bool { return c.null }

func (c *CSVCursor) Err() error { return c.err }

func (c *CSVCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.f != nil {
		return c.f.Close()
	}
	return nil
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "null", "na", "nan":
		return true
	}
	return false
}

func parseTime(s, format string, loc *time.Location) (time.Time, error) {
	switch format {
	case TimeRFC3339:
		// RFC3339Nano also accepts timestamps without fractional seconds
		return time.Parse(time.RFC3339Nano, s)
	case TimeUnix:
		sec, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, err
		}
		whole, frac := math.Modf(sec)
		return time.Unix(int64(whole), int64(frac*1e9)).In(loc), nil
	case TimeUnixMs:
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).In(loc), nil
	}
	return time.ParseInLocation(format, s, loc)
}
