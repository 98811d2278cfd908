// Package bucket maps raw timestamps onto fixed-width time windows.
//
// Truncation happens on the wall clock of the timestamp's own location, so
// a "1d" bucket starts at local midnight and a "1M" bucket on the first of
// the month. Bucket widths for days, months and years follow the calendar:
// February buckets are shorter than March buckets.
package bucket

import "time"

// Bucket is one time window: [Start, Start+Duration).
type Bucket struct {
	Start    time.Time
	Duration time.Duration
}

// End returns the first instant after the bucket.
func (b Bucket) End() time.Time {
	return b.Start.Add(b.Duration)
}

// Contains reports whether t falls inside the bucket.
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End())
}

// Of returns the bucket containing t.
func Of(t time.Time, g Granularity) Bucket {
	start := Start(t, g)
	return Bucket{Start: start, Duration: end(start, g).Sub(start)}
}

// Start truncates t down to the start of its bucket. Start(Start(t)) is
// always Start(t).
func Start(t time.Time, g Granularity) time.Time {
	s := wallStart(t, g)
	if g.Field > Hour {
		return s
	}
	// Around a DST fall-back the wall clock repeats and time.Date picks
	// one of the two offsets. Truncate with t's own offset instead.
	switch {
	case s.After(t):
		s = t.Add(-sinceWallStart(t, g))
	case !end(s, g).After(t):
		s = t.Add(-sinceWallStart(t, g))
		if e := end(wallStart(t, g), g); e.After(s) {
			s = e
		}
	}
	return s
}

func wallStart(t time.Time, g Granularity) time.Time {
	n := multiplier(g)
	loc := t.Location()
	y, mo, d := t.Date()
	hh, mm, ss := t.Clock()
	ms := t.Nanosecond() / int(time.Millisecond)

	switch g.Field {
	case Millisecond:
		return time.Date(y, mo, d, hh, mm, ss, floor(ms, n)*int(time.Millisecond), loc)
	case Second:
		return time.Date(y, mo, d, hh, mm, floor(ss, n), 0, loc)
	case Minute:
		return time.Date(y, mo, d, hh, floor(mm, n), 0, 0, loc)
	case Hour:
		return time.Date(y, mo, d, floor(hh, n), 0, 0, 0, loc)
	case Day:
		return time.Date(y, mo, 1+floor(d-1, n), 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, time.Month(1+floor(int(mo)-1, n)), 1, 0, 0, 0, 0, loc)
	case Year:
		return time.Date(floor(y, n), time.January, 1, 0, 0, 0, 0, loc)
	}
	panic("bucket: unknown field " + g.Field.String())
}

// sinceWallStart is the wall clock time elapsed between the start of t's
// bucket and t, for fields up to Hour.
func sinceWallStart(t time.Time, g Granularity) time.Duration {
	n := multiplier(g)
	hh, mm, ss := t.Clock()
	ns := time.Duration(t.Nanosecond())

	switch g.Field {
	case Millisecond:
		ms := t.Nanosecond() / int(time.Millisecond)
		return time.Duration(ms-floor(ms, n))*time.Millisecond + ns%time.Millisecond
	case Second:
		return time.Duration(ss-floor(ss, n))*time.Second + ns
	case Minute:
		return time.Duration(mm-floor(mm, n))*time.Minute + time.Duration(ss)*time.Second + ns
	case Hour:
		return time.Duration(hh-floor(hh, n))*time.Hour + time.Duration(mm)*time.Minute +
			time.Duration(ss)*time.Second + ns
	}
	panic("bucket: no wall offset for field " + g.Field.String())
}

func multiplier(g Granularity) int {
	if g.Multiplier < 1 {
		return 1
	}
	return g.Multiplier
}

// Duration returns the width of the bucket containing t. Month and year
// buckets use the real length of the month or year they cover.
func Duration(t time.Time, g Granularity) time.Duration {
	start := Start(t, g)
	return end(start, g).Sub(start)
}

func end(start time.Time, g Granularity) time.Time {
	next := shift(start, g.Field, multiplier(g))
	if limit, ok := parentEnd(start, g.Field); ok && next.After(limit) {
		// multiplier does not divide the parent evenly; the last bucket
		// in the parent is cut short
		return limit
	}
	return next
}

func shift(start time.Time, f Field, n int) time.Time {
	switch f {
	case Millisecond:
		return start.Add(time.Duration(n) * time.Millisecond)
	case Second:
		return start.Add(time.Duration(n) * time.Second)
	case Minute:
		return start.Add(time.Duration(n) * time.Minute)
	case Hour:
		return start.Add(time.Duration(n) * time.Hour)
	case Day:
		return start.AddDate(0, 0, n)
	case Month:
		return start.AddDate(0, n, 0)
	case Year:
		return start.AddDate(n, 0, 0)
	}
	panic("bucket: unknown field " + f.String())
}

func parentEnd(start time.Time, f Field) (time.Time, bool) {
	switch f {
	case Millisecond:
		return Start(start, OneSecond).Add(time.Second), true
	case Second:
		return Start(start, OneMinute).Add(time.Minute), true
	case Minute:
		return Start(start, OneHour).Add(time.Hour), true
	case Hour:
		return Start(start, OneDay).AddDate(0, 0, 1), true
	case Day:
		return Start(start, Granularity{Field: Month, Multiplier: 1}).AddDate(0, 1, 0), true
	case Month:
		return Start(start, Granularity{Field: Year, Multiplier: 1}).AddDate(1, 0, 0), true
	}
	return time.Time{}, false
}

// floor rounds v down to a multiple of n, also for negative v.
func floor(v, n int) int {
	m := v % n
	if m < 0 {
		m += n
	}
	return v - m
}
