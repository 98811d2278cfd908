package journal

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/collate/dataset"
)

var pointsHeader = []string{"run_id", "series", "time", "value"}

// CSVJournal appends the points of every recorded run to one file.
type CSVJournal struct {
	points *csv.Writer
	pf     *os.File
}

// NewCSV opens path for appending. The header is written only when the
// file is new or empty.
func NewCSV(path string) (*CSVJournal, error) {
	pf, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	st, err := pf.Stat()
	if err != nil {
		_ = pf.Close()
		return nil, err
	}

	pw := csv.NewWriter(pf)
	if st.Size() == 0 {
		if err := pw.Write(pointsHeader); err != nil {
			_ = pf.Close()
			return nil, err
		}
		pw.Flush()
		if err := pw.Error(); err != nil {
			_ = pf.Close()
			return nil, err
		}
	}

	return &CSVJournal{points: pw, pf: pf}, nil
}

func (j *CSVJournal) RecordDataset(_ context.Context, ds *dataset.Dataset) error {
	for _, s := range ds.Series {
		for _, p := range s.Points() {
			err := j.points.Write([]string{
				ds.RunID,
				s.Name,
				p.Time.UTC().Format(time.RFC3339Nano),
				f(p.Value),
			})
			if err != nil {
				return err
			}
		}
	}

	j.points.Flush()
	return j.points.Error()
}

func (j *CSVJournal) Close() error {
	j.points.Flush()
	if err := j.points.Error(); err != nil {
		_ = j.pf.Close()
		return err
	}
	return j.pf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
