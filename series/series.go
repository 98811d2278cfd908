// Package series holds finished, chronologically ordered output points.
package series

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmpty      = errors.New("series is empty")
	ErrOutOfOrder = errors.New("point older than last point")
)

// Point is one output value.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is an append-only list of points whose most recent point may be
// revised or removed. Older points are never touched.
type Series struct {
	Name   string
	points []Point
}

func New(name string) *Series {
	return &Series{Name: name}
}

// Append adds p after the last point. p must not be older than it.
func (s *Series) Append(p Point) error {
	if n := len(s.points); n > 0 && p.Time.Before(s.points[n-1].Time) {
		return fmt.Errorf("%w: %s before %s", ErrOutOfOrder,
			p.Time.Format(time.RFC3339Nano), s.points[n-1].Time.Format(time.RFC3339Nano))
	}
	s.points = append(s.points, p)
	return nil
}

// UpdateLast replaces the value of the most recent point, keeping its time.
func (s *Series) UpdateLast(v float64) error {
	n := len(s.points)
	if n == 0 {
		return ErrEmpty
	}
	s.points[n-1].Value = v
	return nil
}

// DeleteLast removes the most recent point.
func (s *Series) DeleteLast() error {
	n := len(s.points)
	if n == 0 {
		return ErrEmpty
	}
	s.points = s.points[:n-1]
	return nil
}

// Last returns the most recent point.
func (s *Series) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

func (s *Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the points in order.
func (s *Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Values returns just the point values, in order.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}
