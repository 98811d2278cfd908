package feed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/mattn/go-sqlite3"
)

// SQLCursor reads the first two columns of a query: the timestamp and the
// value. The timestamp column may be a DATETIME, an integer of unix
// milliseconds or text; a NULL timestamp is a missing timestamp.
type SQLCursor struct {
	db    *sql.DB // set only when the cursor owns the connection
	rows  *sql.Rows
	ncols int

	ts    time.Time
	tsErr error
	value sql.NullFloat64

	err    error
	closed bool
}

// OpenSQL opens a connection with driver ("sqlite3", "clickhouse") and dsn,
// runs query and returns a cursor that closes both rows and connection.
func OpenSQL(ctx context.Context, driver, dsn, query string, args ...any) (*SQLCursor, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	c, err := NewSQL(ctx, db, query, args...)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.db = db
	return c, nil
}

// NewSQL runs query on db. The caller keeps ownership of db.
func NewSQL(ctx context.Context, db *sql.DB, query string, args ...any) (*SQLCursor, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	if len(cols) < 2 {
		rows.Close()
		return nil, fmt.Errorf("query returns %d columns, need time and value", len(cols))
	}
	return &SQLCursor{rows: rows, ncols: len(cols)}, nil
}

func (c *SQLCursor) Next() bool {
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}

	var raw any
	c.value = sql.NullFloat64{}
	dest := make([]any, c.ncols)
	dest[0], dest[1] = &raw, &c.value
	for i := 2; i < len(dest); i++ {
		dest[i] = new(any)
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = fmt.Errorf("scan: %w", err)
		return false
	}

	c.ts, c.tsErr = sqlTime(raw)
	return true
}

func (c *SQLCursor) Timestamp() (time.Time, error) { return c.ts, c.tsErr }

func (c *SQLCursor) Value() float64 { return c.value.Float64 }

func (c *SQLCursor) WasNull() bool { return !c.value.Valid }

func (c *SQLCursor) Err() error { return c.err }

func (c *SQLCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.rows.Close()
	if c.db != nil {
		if cerr := c.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var sqlLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func sqlTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, ErrMissingTimestamp
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrMissingTimestamp
		}
		return v, nil
	case int64:
		return time.UnixMilli(v), nil
	case float64:
		return time.UnixMilli(int64(v)), nil
	case []byte:
		return parseSQLText(string(v))
	case string:
		return parseSQLText(v)
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp type %T", raw)
}

func parseSQLText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingTimestamp
	}
	for _, layout := range sqlLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
