package config

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rustyeddy/collate/collate"
	"github.com/rustyeddy/collate/dataset"
	"github.com/rustyeddy/collate/feed"
)

const (
	SourceCSV = "csv"
	SourceSQL = "sql"
)

// SeriesConfig names one series and where its raw samples come from.
type SeriesConfig struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"` // "csv" or "sql"

	// csv
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	TimeColumn  string `json:"time_column,omitempty" yaml:"time_column,omitempty"`
	ValueColumn string `json:"value_column,omitempty" yaml:"value_column,omitempty"`
	TimeFormat  string `json:"time_format,omitempty" yaml:"time_format,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	Comma       string `json:"comma,omitempty" yaml:"comma,omitempty"`

	// sql
	Driver string   `json:"driver,omitempty" yaml:"driver,omitempty"` // "sqlite3" or "clickhouse"
	DSN    string   `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Query  string   `json:"query,omitempty" yaml:"query,omitempty"`
	Args   []string `json:"args,omitempty" yaml:"args,omitempty"`
}

func (s SeriesConfig) validate(field string) error {
	if s.Name == "" {
		return &collate.ConfigError{Field: field + ".name", Reason: "required"}
	}
	switch s.Source {
	case SourceCSV:
		if s.Path == "" {
			return &collate.ConfigError{Field: field + ".path", Reason: "required for csv source"}
		}
		if _, err := s.csvOptions(); err != nil {
			return &collate.ConfigError{Field: field, Reason: err.Error()}
		}
	case SourceSQL:
		switch s.Driver {
		case "sqlite3", "clickhouse":
		default:
			return &collate.ConfigError{Field: field + ".driver", Reason: fmt.Sprintf("want sqlite3 or clickhouse, got %q", s.Driver)}
		}
		if s.DSN == "" {
			return &collate.ConfigError{Field: field + ".dsn", Reason: "required for sql source"}
		}
		if s.Query == "" {
			return &collate.ConfigError{Field: field + ".query", Reason: "required for sql source"}
		}
	default:
		return &collate.ConfigError{Field: field + ".source", Reason: fmt.Sprintf("want csv or sql, got %q", s.Source)}
	}
	return nil
}

func (s SeriesConfig) csvOptions() (feed.CSVOptions, error) {
	opts := feed.CSVOptions{
		TimeColumn:  s.TimeColumn,
		ValueColumn: s.ValueColumn,
		TimeFormat:  s.TimeFormat,
	}
	if s.Location != "" {
		loc, err := time.LoadLocation(s.Location)
		if err != nil {
			return opts, fmt.Errorf("location: %w", err)
		}
		opts.Location = loc
	}
	if s.Comma != "" {
		r, n := utf8.DecodeRuneInString(s.Comma)
		if n != len(s.Comma) || r == utf8.RuneError {
			return opts, fmt.Errorf("comma must be a single character, got %q", s.Comma)
		}
		opts.Comma = r
	}
	return opts, nil
}

// Opener returns the function that opens this series' cursor.
func (s SeriesConfig) Opener() (dataset.Opener, error) {
	switch s.Source {
	case SourceCSV:
		opts, err := s.csvOptions()
		if err != nil {
			return nil, err
		}
		path := s.Path
		return func(context.Context) (feed.Cursor, error) {
			c, err := feed.OpenCSV(path, opts)
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil

	case SourceSQL:
		args := make([]any, len(s.Args))
		for i, a := range s.Args {
			args[i] = a
		}
		driver, dsn, query := s.Driver, s.DSN, s.Query
		return func(ctx context.Context) (feed.Cursor, error) {
			c, err := feed.OpenSQL(ctx, driver, dsn, query, args...)
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil
	}
	return nil, fmt.Errorf("series %q: unknown source %q", s.Name, s.Source)
}
