package collate

import (
	"time"

	"github.com/rustyeddy/collate/bucket"
)

// spreader gives samples that share one raw timestamp distinct times
// inside the input period that follows it. A lone sample keeps its time,
// and spread times stay before the next raw timestamp.
type spreader struct {
	enabled bool
	input   bucket.Granularity
	next    func(time.Time, float64) error

	ts      time.Time
	values  []float64
	pending bool
}

func newSpreader(opts Options, next func(time.Time, float64) error) *spreader {
	return &spreader{
		enabled: opts.AutoTimeSharing,
		input:   opts.InputGranularity,
		next:    next,
	}
}

func (s *spreader) add(ts time.Time, v float64) error {
	if !s.enabled {
		return s.next(ts, v)
	}
	if s.pending && !ts.Equal(s.ts) {
		if err := s.spread(ts, true); err != nil {
			return err
		}
	}
	if !s.pending {
		s.ts = ts
		s.values = s.values[:0]
		s.pending = true
	}
	s.values = append(s.values, v)
	return nil
}

func (s *spreader) flush() error {
	return s.spread(time.Time{}, false)
}

// spread emits the held samples. When the raw timestamp that follows is
// known the interval shrinks to fit before it.
func (s *spreader) spread(next time.Time, hasNext bool) error {
	if !s.pending {
		return nil
	}
	s.pending = false

	if len(s.values) == 1 {
		return s.next(s.ts, s.values[0])
	}
	parts := time.Duration(len(s.values) + 1)
	interval := bucket.Duration(s.ts, s.input) / parts
	if hasNext && next.After(s.ts) {
		if gap := next.Sub(s.ts) / parts; gap < interval {
			interval = gap
		}
	}
	for k, v := range s.values {
		if err := s.next(s.ts.Add(time.Duration(k+1)*interval), v); err != nil {
			return err
		}
	}
	return nil
}
