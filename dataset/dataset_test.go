package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rustyeddy/collate/bucket"
	"github.com/rustyeddy/collate/collate"
	"github.com/rustyeddy/collate/feed"
	"github.com/rustyeddy/collate/pkg/id"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func slice(samples ...feed.Sample) Opener {
	return func(context.Context) (feed.Cursor, error) {
		return feed.NewSlice(samples), nil
	}
}

func at(s int, v float64) feed.Sample {
	return feed.Sample{Time: t0.Add(time.Duration(s) * time.Second), Value: v}
}

func avgSpec() Spec {
	return Spec{
		Name: "cpu",
		Options: collate.Options{
			Granularity: bucket.OneMinute,
			Policy:      collate.PolicyAverage,
		},
		Series: []SeriesSpec{
			{Name: "a", Open: slice(at(1, 1), at(2, 3), at(61, 10))},
			{Name: "b", Open: slice(at(5, 4))},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	built := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuilder(
		WithLogger(zap.New(core)),
		WithClock(func() time.Time { return built }),
	)

	ds, err := b.Build(context.Background(), avgSpec())
	require.NoError(t, err)

	assert.Equal(t, "cpu", ds.Name)
	assert.Equal(t, built, ds.Built)
	require.Len(t, ds.Series, 2)
	assert.Equal(t, 3, ds.Points())

	ts, err := id.Time(ds.RunID)
	require.NoError(t, err)
	assert.Equal(t, built, ts)

	a, ok := ds.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, []float64{2, 10}, a.Values())

	_, ok = ds.Lookup("zzz")
	assert.False(t, ok)

	assert.Equal(t, 2, logs.FilterMessage("series built").Len())
	done := logs.FilterMessage("dataset built").All()
	require.Len(t, done, 1)
	assert.Equal(t, ds.RunID, done[0].ContextMap()["run_id"])
}

func TestBuildAllOrNothing(t *testing.T) {
	t.Parallel()

	spec := avgSpec()
	bad := feed.NewSlice([]feed.Sample{at(1, 1), {Value: 2}})
	spec.Series = append(spec.Series, SeriesSpec{
		Name: "c",
		Open: func(context.Context) (feed.Cursor, error) { return bad, nil },
	})

	ds, err := NewBuilder().Build(context.Background(), spec)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, collate.ErrMissingTimestamp)
	assert.True(t, bad.Closed())
}

func TestBuildOpenFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("no such table")
	spec := avgSpec()
	spec.Series[1].Open = func(context.Context) (feed.Cursor, error) { return nil, boom }

	_, err := NewBuilder().Build(context.Background(), spec)

	var ce *collate.CursorError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "cpu", ce.Dataset)
	assert.Equal(t, "b", ce.Series)
	assert.ErrorIs(t, err, boom)
}

func TestSpecValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(*Spec)
		field string
	}{
		{"no name", func(s *Spec) { s.Name = "" }, "dataset.name"},
		{"no series", func(s *Spec) { s.Series = nil }, "dataset.series"},
		{"unnamed series", func(s *Spec) { s.Series[0].Name = "" }, "dataset.series[0].name"},
		{"duplicate series", func(s *Spec) { s.Series[1].Name = "a" }, "dataset.series[1].name"},
		{"no source", func(s *Spec) { s.Series[1].Open = nil }, "dataset.series[1]"},
		{"bad granularity", func(s *Spec) { s.Options.Granularity = bucket.Granularity{} }, "granularity"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := avgSpec()
			tt.edit(&spec)

			_, err := NewBuilder().Build(context.Background(), spec)
			var ce *collate.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}
