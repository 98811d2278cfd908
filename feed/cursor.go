// Package feed provides the raw sample cursors the collation engine reads:
// CSV files, SQL queries and in-memory slices.
package feed

import (
	"errors"
	"time"
)

// ErrMissingTimestamp is returned by Cursor.Timestamp when the current row
// has no usable time.
var ErrMissingTimestamp = errors.New("missing timestamp")

// Cursor walks the raw rows of one series in time order.
//
// Next advances to the next row and returns false when the rows are
// exhausted or a read failed; Err tells the two apart. Timestamp, Value and
// WasNull describe the current row. Close is safe to call more than once.
type Cursor interface {
	Next() bool
	Timestamp() (time.Time, error)
	Value() float64
	WasNull() bool
	Err() error
	Close() error
}

// Sample is one raw reading.
type Sample struct {
	Time  time.Time
	Value float64
	Null  bool
}

// SliceCursor serves samples from memory. A zero Time is reported as a
// missing timestamp.
type SliceCursor struct {
	samples []Sample
	idx     int
	closed  bool
}

func NewSlice(samples []Sample) *SliceCursor {
	return &SliceCursor{samples: samples, idx: -1}
}

func (c *SliceCursor) Next() bool {
	if c.closed || c.idx+1 >= len(c.samples) {
		return false
	}
	c.idx++
	return true
}

func (c *SliceCursor) Timestamp() (time.Time, error) {
	t := c.samples[c.idx].Time
	if t.IsZero() {
		return time.Time{}, ErrMissingTimestamp
	}
	return t, nil
}

func (c *SliceCursor) Value() float64 { return c.samples[c.idx].Value }

func (c *SliceCursor) WasNull() bool { return c.samples[c.idx].Null }

func (c *SliceCursor) Err() error { return nil }

func (c *SliceCursor) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *SliceCursor) Closed() bool { return c.closed }
