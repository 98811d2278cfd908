package collate

import (
	"time"

	"github.com/rustyeddy/collate/bucket"
)

// holder is the state of the bucket currently being filled plus the
// little that must survive across buckets.
type holder struct {
	open   bool
	bucket bucket.Bucket
	first  time.Time // real time of the sample that opened the bucket
	latest float64
	n      int

	values      []float64 // All, Sum, Average
	shape       shape     // OHLC
	placeholder bool      // a provisional point for this bucket is in the sink

	// validValue holds the latest sample dropped by PolicyStart.
	// It is never read back.
	validValue float64

	committed    float64
	hasCommitted bool
	runLen       int // length of the equal-value tail, PolicyAll only
}

func (h *holder) reset(b bucket.Bucket, real time.Time) {
	h.open = true
	h.bucket = b
	h.first = real
	h.n = 0
	h.values = h.values[:0]
	h.placeholder = false
}

func (h *holder) commit(v float64) {
	h.committed = v
	h.hasCommitted = true
}

// shape tracks the extremes of a bucket and which one came first.
type shape struct {
	open, high, low, close float64
	highAt, lowAt          int
	n                      int
}

func (s *shape) reset(v float64) {
	*s = shape{open: v, high: v, low: v, close: v, n: 1}
}

func (s *shape) add(v float64) {
	if v > s.high {
		s.high, s.highAt = v, s.n
	}
	if v < s.low {
		s.low, s.lowAt = v, s.n
	}
	s.close = v
	s.n++
}

// path returns open, the extremes in the order they occurred, and close.
// Extremes equal to open or close are dropped, so the path has 2 to 4
// values.
func (s *shape) path() []float64 {
	out := make([]float64, 0, 4)
	out = append(out, s.open)

	first, second := s.high, s.low
	if s.lowAt < s.highAt {
		first, second = s.low, s.high
	}
	for _, v := range [2]float64{first, second} {
		if v != s.open && v != s.close {
			out = append(out, v)
		}
	}
	return append(out, s.close)
}
