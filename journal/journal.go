// Package journal persists built datasets so runs can be listed, shown
// and re-collated later.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/collate/dataset"
)

var ErrRunNotFound = errors.New("run not found")

// Run is the summary row of one recorded build.
type Run struct {
	RunID           string
	Dataset         string
	Policy          string
	Granularity     string
	BucketTimestamp string
	Series          int
	Points          int
	Built           time.Time
}

// PointRecord is one output point of one series of a run.
type PointRecord struct {
	RunID  string
	Series string
	Time   time.Time
	Value  float64
}

type Journal interface {
	RecordDataset(ctx context.Context, ds *dataset.Dataset) error
	Close() error
}

func runOf(ds *dataset.Dataset) Run {
	return Run{
		RunID:           ds.RunID,
		Dataset:         ds.Name,
		Policy:          ds.Options.Policy.String(),
		Granularity:     ds.Options.Granularity.String(),
		BucketTimestamp: ds.Options.BucketTimestamp.String(),
		Series:          len(ds.Series),
		Points:          ds.Points(),
		Built:           ds.Built.UTC(),
	}
}
