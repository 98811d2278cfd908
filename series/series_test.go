package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)

func TestAppendOrder(t *testing.T) {
	t.Parallel()

	s := New("cpu")
	require.NoError(t, s.Append(Point{Time: t0, Value: 1}))
	require.NoError(t, s.Append(Point{Time: t0, Value: 2}))
	require.NoError(t, s.Append(Point{Time: t0.Add(time.Second), Value: 3}))

	err := s.Append(Point{Time: t0.Add(-time.Second), Value: 4})
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{1, 2, 3}, s.Values())
}

func TestUpdateLast(t *testing.T) {
	t.Parallel()

	s := New("cpu")
	assert.ErrorIs(t, s.UpdateLast(1), ErrEmpty)

	require.NoError(t, s.Append(Point{Time: t0, Value: 1}))
	require.NoError(t, s.Append(Point{Time: t0.Add(time.Minute), Value: 2}))
	require.NoError(t, s.UpdateLast(42))

	assert.Equal(t, []Point{
		{Time: t0, Value: 1},
		{Time: t0.Add(time.Minute), Value: 42},
	}, s.Points())
}

func TestDeleteLast(t *testing.T) {
	t.Parallel()

	s := New("cpu")
	assert.ErrorIs(t, s.DeleteLast(), ErrEmpty)

	require.NoError(t, s.Append(Point{Time: t0, Value: 1}))
	require.NoError(t, s.Append(Point{Time: t0.Add(time.Minute), Value: 2}))
	require.NoError(t, s.DeleteLast())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, Point{Time: t0, Value: 1}, last)

	// a deleted tail frees room for an earlier timestamp again
	require.NoError(t, s.Append(Point{Time: t0.Add(30 * time.Second), Value: 3}))
	assert.Equal(t, 2, s.Len())
}

func TestPointsIsCopy(t *testing.T) {
	t.Parallel()

	s := New("cpu")
	require.NoError(t, s.Append(Point{Time: t0, Value: 1}))

	pts := s.Points()
	pts[0].Value = 99

	last, _ := s.Last()
	assert.Equal(t, 1.0, last.Value)
}
