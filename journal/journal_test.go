package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/collate/bucket"
	"github.com/rustyeddy/collate/collate"
	"github.com/rustyeddy/collate/dataset"
	"github.com/rustyeddy/collate/feed"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(s int, v float64) feed.Sample {
	return feed.Sample{Time: t0.Add(time.Duration(s) * time.Second), Value: v}
}

func open(samples ...feed.Sample) dataset.Opener {
	return func(context.Context) (feed.Cursor, error) {
		return feed.NewSlice(samples), nil
	}
}

// buildDataset returns a two series dataset: "a" has points 2 and 10,
// "b" has one point 4.
func buildDataset(t *testing.T, built time.Time) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.NewBuilder(dataset.WithClock(func() time.Time { return built })).
		Build(context.Background(), dataset.Spec{
			Name: "cpu",
			Options: collate.Options{
				Granularity: bucket.OneMinute,
				Policy:      collate.PolicyAverage,
			},
			Series: []dataset.SeriesSpec{
				{Name: "a", Open: open(at(1, 1), at(2, 3), at(61, 10))},
				{Name: "b", Open: open(at(5, 4))},
			},
		})
	require.NoError(t, err)
	return ds
}
