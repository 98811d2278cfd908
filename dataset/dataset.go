// Package dataset builds every series of a configured dataset with one
// collate engine and stamps the result with a run ID.
package dataset

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/collate/collate"
	"github.com/rustyeddy/collate/feed"
	"github.com/rustyeddy/collate/internal/logger"
	"github.com/rustyeddy/collate/pkg/id"
	"github.com/rustyeddy/collate/series"
)

// Opener acquires the cursor for one series. The engine closes it.
type Opener func(ctx context.Context) (feed.Cursor, error)

type SeriesSpec struct {
	Name string
	Open Opener
}

// Spec describes a dataset: a name, the engine options shared by all of
// its series, and the series themselves in build order.
type Spec struct {
	Name    string
	Options collate.Options
	Series  []SeriesSpec
}

// Validate checks the spec before any cursor is opened.
func (s Spec) Validate() error {
	if s.Name == "" {
		return &collate.ConfigError{Field: "dataset.name", Reason: "required"}
	}
	if len(s.Series) == 0 {
		return &collate.ConfigError{Field: "dataset.series", Reason: "at least one series required"}
	}
	seen := make(map[string]bool, len(s.Series))
	for i, ss := range s.Series {
		switch {
		case ss.Name == "":
			return &collate.ConfigError{Field: fmt.Sprintf("dataset.series[%d].name", i), Reason: "required"}
		case seen[ss.Name]:
			return &collate.ConfigError{Field: fmt.Sprintf("dataset.series[%d].name", i), Reason: fmt.Sprintf("duplicate series %q", ss.Name)}
		case ss.Open == nil:
			return &collate.ConfigError{Field: fmt.Sprintf("dataset.series[%d]", i), Reason: "no source"}
		}
		seen[ss.Name] = true
	}
	return s.Options.Validate()
}

// Dataset is the result of one successful build.
type Dataset struct {
	RunID   string
	Name    string
	Options collate.Options
	Series  []*series.Series
	Built   time.Time
}

// Lookup returns the series called name.
func (d *Dataset) Lookup(name string) (*series.Series, bool) {
	for _, s := range d.Series {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Points counts the points across all series.
func (d *Dataset) Points() int {
	n := 0
	for _, s := range d.Series {
		n += s.Len()
	}
	return n
}

type Builder struct {
	log *zap.Logger
	now func() time.Time
}

type Option func(*Builder)

func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.log = logger.OrNop(l) }
}

// WithClock replaces time.Now for the build time and run ID.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build collates the series one after another. The first failure aborts
// the build and nothing built so far is returned.
func (b *Builder) Build(ctx context.Context, spec Spec) (*Dataset, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	built := b.now()
	runID := id.NewAt(built)
	log := b.log.With(zap.String("run_id", runID), zap.String("dataset", spec.Name))

	engine, err := collate.New(spec.Options, log)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		RunID:   runID,
		Name:    spec.Name,
		Options: engine.Options(),
		Series:  make([]*series.Series, 0, len(spec.Series)),
		Built:   built,
	}

	for _, ss := range spec.Series {
		cur, err := ss.Open(ctx)
		if err != nil {
			log.Error("open series", zap.String("series", ss.Name), zap.Error(err))
			return nil, &collate.CursorError{Dataset: spec.Name, Series: ss.Name, Err: err}
		}

		out, err := engine.Collate(spec.Name, ss.Name, cur)
		if err != nil {
			log.Error("collate series", zap.String("series", ss.Name), zap.Error(err))
			return nil, err
		}

		log.Info("series built", zap.String("series", ss.Name), zap.Int("points", out.Len()))
		ds.Series = append(ds.Series, out)
	}

	log.Info("dataset built",
		zap.Int("series", len(ds.Series)),
		zap.Int("points", ds.Points()),
		zap.Duration("elapsed", b.now().Sub(built)),
	)
	return ds, nil
}
