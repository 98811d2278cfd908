package collate

import (
	"fmt"
	"time"

	"github.com/rustyeddy/collate/bucket"
	"github.com/rustyeddy/collate/series"
)

// accumulator applies one policy to a stream of samples and writes the
// result into a series. It holds back one sample so the last step of a
// scan can be flagged final.
type accumulator struct {
	opts Options
	out  *series.Series
	h    holder

	pending bool
	pt      time.Time
	pv      float64

	err error // first sink failure, sticky
}

func newAccumulator(opts Options, out *series.Series) *accumulator {
	return &accumulator{opts: opts, out: out}
}

func (a *accumulator) feed(ts time.Time, v float64) error {
	if a.pending {
		if err := a.step(a.pt, a.pv, false); err != nil {
			return err
		}
	}
	a.pt, a.pv, a.pending = ts, v, true
	return nil
}

func (a *accumulator) finish() error {
	if !a.pending {
		return nil
	}
	a.pending = false
	return a.step(a.pt, a.pv, true)
}

func (a *accumulator) step(real time.Time, v float64, final bool) error {
	if a.opts.Policy == PolicyNone {
		a.append(real, v)
		return a.err
	}

	b := bucket.Of(real, a.opts.Granularity)
	switch {
	case !a.h.open:
		a.open(b, real, v)
	case a.h.bucket.Contains(real):
		a.add(v)
	case b.Start.After(a.h.bucket.Start):
		a.close(false)
		a.open(b, real, v)
	default:
		// A late sample from an earlier bucket is folded into the open one.
		a.add(v)
	}
	if final {
		a.close(true)
	}
	return a.err
}

func (a *accumulator) open(b bucket.Bucket, real time.Time, v float64) {
	h := &a.h
	if real.Before(b.Start) {
		real = b.Start
	}
	h.reset(b, real)
	h.n = 1
	h.latest = v

	switch a.opts.Policy {
	case PolicyStart:
		a.append(a.stamp(b), v)
		h.validValue = v
	case PolicyEnd:
		a.append(a.stamp(b), v)
		h.placeholder = true
	case PolicyAll:
		h.values = append(h.values, v)
	case PolicySum, PolicyAverage:
		h.values = append(h.values, v)
		a.openPlaceholder(v)
	case PolicyOHLC:
		h.shape.reset(v)
		a.openPlaceholder(v)
	default:
		panic(fmt.Sprintf("collate: unhandled policy %s", a.opts.Policy))
	}
}

func (a *accumulator) add(v float64) {
	h := &a.h
	h.n++
	h.latest = v

	switch a.opts.Policy {
	case PolicyStart:
		h.validValue = v
	case PolicyEnd:
		a.updateLast(v)
	case PolicyAll, PolicySum, PolicyAverage:
		h.values = append(h.values, v)
	case PolicyOHLC:
		h.shape.add(v)
	default:
		panic(fmt.Sprintf("collate: unhandled policy %s", a.opts.Policy))
	}
}

func (a *accumulator) close(final bool) {
	h := &a.h
	if !h.open {
		return
	}

	switch a.opts.Policy {
	case PolicyStart:
	case PolicyEnd:
		if a.suppress(h.latest, final) {
			a.deleteLast()
		}
		h.commit(h.latest)
	case PolicyAll:
		a.closeAll()
	case PolicySum, PolicyAverage:
		a.closeCombined(final)
	case PolicyOHLC:
		a.closeOHLC(final)
	default:
		panic(fmt.Sprintf("collate: unhandled policy %s", a.opts.Policy))
	}

	h.open = false
	h.placeholder = false
	h.values = h.values[:0]
}

func (a *accumulator) closeAll() {
	h := &a.h
	times := a.spread(h.bucket, len(h.values))
	for i, v := range h.values {
		a.appendRun(times[i], v)
	}
}

// appendRun appends a point, keeping only the first and the latest point
// of a run of equal values when IgnoreSameValue is set.
func (a *accumulator) appendRun(ts time.Time, v float64) {
	h := &a.h
	if !a.opts.IgnoreSameValue {
		a.append(ts, v)
		return
	}
	last, ok := a.out.Last()
	if !ok || last.Value != v {
		a.append(ts, v)
		h.runLen = 1
		return
	}
	if h.runLen >= 2 {
		a.deleteLast()
	}
	a.append(ts, v)
	h.runLen = 2
}

func (a *accumulator) closeCombined(final bool) {
	h := &a.h
	if len(h.values) == 1 {
		v := h.values[0]
		if h.placeholder {
			a.deleteLast()
		}
		if !a.suppress(v, final) {
			a.append(h.first, v)
		}
		h.commit(v)
		return
	}

	var sum float64
	for _, v := range h.values {
		sum += v
	}
	combined := sum
	if a.opts.Policy == PolicyAverage {
		combined = sum / float64(len(h.values))
	}

	switch {
	case a.suppress(combined, final):
		if h.placeholder {
			a.deleteLast()
		}
	case h.placeholder:
		a.updateLast(combined)
	default:
		a.append(a.stamp(h.bucket), combined)
	}
	h.commit(combined)
}

func (a *accumulator) closeOHLC(final bool) {
	h := &a.h
	if h.placeholder {
		a.deleteLast()
	}
	if h.shape.n == 1 {
		a.appendShape(h.first, h.shape.open, final)
		return
	}

	path := h.shape.path()
	times := a.spread(h.bucket, len(path))
	for i, v := range path {
		a.appendShape(times[i], v, final && i == len(path)-1)
	}
}

// appendShape skips a point repeating the previous one under
// IgnoreSameValue unless keep is set.
func (a *accumulator) appendShape(ts time.Time, v float64, keep bool) {
	if a.opts.IgnoreSameValue && !keep {
		if last, ok := a.out.Last(); ok && last.Value == v {
			return
		}
	}
	a.append(ts, v)
}

// openPlaceholder emits the provisional point of a Sum, Average or OHLC
// bucket.
func (a *accumulator) openPlaceholder(v float64) {
	if a.opts.IgnoreSameValue {
		if last, ok := a.out.Last(); ok && last.Value == v {
			return
		}
	}
	a.append(a.stamp(a.h.bucket), v)
	a.h.placeholder = true
}

func (a *accumulator) suppress(v float64, final bool) bool {
	return a.opts.IgnoreSameValue && !final && a.h.hasCommitted && v == a.h.committed
}

func (a *accumulator) stamp(b bucket.Bucket) time.Time {
	if a.opts.BucketTimestamp == StampEnd {
		return b.End()
	}
	return b.Start
}

// spread places n points evenly across b.
func (a *accumulator) spread(b bucket.Bucket, n int) []time.Time {
	interval := b.Duration / time.Duration(n)
	offset := time.Duration(0)
	if a.opts.BucketTimestamp == StampEnd {
		offset = interval
	}
	times := make([]time.Time, n)
	for i := range times {
		times[i] = b.Start.Add(offset + time.Duration(i)*interval)
	}
	return times
}

func (a *accumulator) append(ts time.Time, v float64) {
	if a.err != nil {
		return
	}
	a.err = a.out.Append(series.Point{Time: ts, Value: v})
}

func (a *accumulator) updateLast(v float64) {
	if a.err != nil {
		return
	}
	a.err = a.out.UpdateLast(v)
}

func (a *accumulator) deleteLast() {
	if a.err != nil {
		return
	}
	a.err = a.out.DeleteLast()
}
