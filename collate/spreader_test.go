package collate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/collate/bucket"
)

type emitted struct {
	t time.Time
	v float64
}

func TestSpreader(t *testing.T) {
	t.Parallel()

	var got []emitted
	s := newSpreader(Options{AutoTimeSharing: true, InputGranularity: bucket.OneMinute},
		func(ts time.Time, v float64) error {
			got = append(got, emitted{ts, v})
			return nil
		})

	// 0s is followed by 15s, so its pair is squeezed to fit before it. The
	// last group has no successor and uses the whole minute.
	for _, in := range []emitted{
		{sec(0), 1},
		{sec(0), 2},
		{sec(15), 3},
		{sec(20), 4}, {sec(20), 5}, {sec(20), 6},
	} {
		require.NoError(t, s.add(in.t, in.v))
	}
	require.NoError(t, s.flush())
	require.NoError(t, s.flush())

	want := []emitted{
		{sec(5), 1}, {sec(10), 2},
		{sec(15), 3},
		{sec(35), 4}, {sec(50), 5}, {sec(65), 6},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].t.Equal(got[i].t), "emission %d at %s", i, got[i].t)
		assert.Equal(t, want[i].v, got[i].v)
	}
}

func TestSpreaderStaysBeforeNextSample(t *testing.T) {
	t.Parallel()

	var got []emitted
	s := newSpreader(Options{AutoTimeSharing: true, InputGranularity: bucket.OneSecond},
		func(ts time.Time, v float64) error {
			got = append(got, emitted{ts, v})
			return nil
		})

	for _, in := range []emitted{{sec(0), 1}, {sec(0), 2}, {sec(0.2), 3}, {sec(0.2), 4}, {sec(0.3), 5}} {
		require.NoError(t, s.add(in.t, in.v))
	}
	require.NoError(t, s.flush())

	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].t.Before(got[i].t), "emission %d at %s not before %s", i-1, got[i-1].t, got[i].t)
	}
	assert.True(t, got[1].t.Before(sec(0.2)))
	assert.True(t, got[3].t.Before(sec(0.3)))
	assert.True(t, sec(0.3).Equal(got[4].t))
}

func TestSpreaderDisabled(t *testing.T) {
	t.Parallel()

	var n int
	s := newSpreader(Options{}, func(ts time.Time, v float64) error {
		n++
		assert.True(t, sec(0).Equal(ts))
		return nil
	})
	require.NoError(t, s.add(sec(0), 1))
	require.NoError(t, s.add(sec(0), 2))
	require.NoError(t, s.flush())
	assert.Equal(t, 2, n)
}

func TestShapePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []float64
		want []float64
	}{
		{[]float64{5, 8, 3, 6}, []float64{5, 8, 3, 6}},
		{[]float64{5, 2, 9, 7}, []float64{5, 2, 9, 7}},
		{[]float64{1, 2, 3}, []float64{1, 3}},
		{[]float64{3, 2, 1}, []float64{3, 1}},
		{[]float64{2, 9, 2}, []float64{2, 9, 2}},
		{[]float64{4, 4}, []float64{4, 4}},
	}

	for _, tt := range tests {
		var s shape
		s.reset(tt.in[0])
		for _, v := range tt.in[1:] {
			s.add(v)
		}
		assert.Equal(t, tt.want, s.path(), "in=%v", tt.in)
	}
}
