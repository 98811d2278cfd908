// Package collate turns a raw stream of timestamped samples into a
// bucketed series. The bucket width comes from a granularity and the
// points each bucket contributes come from a policy.
package collate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/collate/feed"
	"github.com/rustyeddy/collate/internal/logger"
	"github.com/rustyeddy/collate/series"
)

// Engine collates cursors with one set of options. It keeps no state
// between calls and may be shared by goroutines.
type Engine struct {
	opts Options
	log  *zap.Logger
}

// New validates opts. A nil logger discards output.
func New(opts Options, log *zap.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts.withDefaults(), log: logger.OrNop(log)}, nil
}

// Options returns the effective options, defaults applied.
func (e *Engine) Options() Options { return e.opts }

// Collate drains cur into a new series called name. The cursor is closed
// before Collate returns, whatever the outcome. Rows whose value is null
// are skipped; a row without a timestamp aborts with ErrMissingTimestamp.
func (e *Engine) Collate(dataset, name string, cur feed.Cursor) (_ *series.Series, err error) {
	defer func() {
		if cerr := cur.Close(); cerr != nil && err == nil {
			err = &CursorError{Dataset: dataset, Series: name, Err: cerr}
		}
	}()

	out := series.New(name)
	acc := newAccumulator(e.opts, out)
	sp := newSpreader(e.opts, acc.feed)

	var rows, nulls int
	for cur.Next() {
		rows++
		ts, err := cur.Timestamp()
		if err != nil {
			if errors.Is(err, feed.ErrMissingTimestamp) {
				return nil, fmt.Errorf("dataset %q series %q row %d: %w", dataset, name, rows, err)
			}
			return nil, &CursorError{Dataset: dataset, Series: name, Err: err}
		}
		v := cur.Value()
		if cur.WasNull() {
			nulls++
			continue
		}
		if err := sp.add(ts, v); err != nil {
			return nil, fmt.Errorf("dataset %q series %q: %w", dataset, name, err)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, &CursorError{Dataset: dataset, Series: name, Err: err}
	}

	if err := sp.flush(); err != nil {
		return nil, fmt.Errorf("dataset %q series %q: %w", dataset, name, err)
	}
	if err := acc.finish(); err != nil {
		return nil, fmt.Errorf("dataset %q series %q: %w", dataset, name, err)
	}

	e.log.Debug("series collated",
		zap.String("dataset", dataset),
		zap.String("series", name),
		zap.Stringer("policy", e.opts.Policy),
		zap.Int("rows", rows),
		zap.Int("nulls", nulls),
		zap.Int("points", out.Len()),
	)
	return out, nil
}
