package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

func s(v float64, t int64) Sample {
	return Sample{Val: value.Float8(v), T: temporal.Timestamp(t)}
}

func TestValueAtLinear(t *testing.T) {
	a, b := s(0, 0), s(10, 10)
	got := ValueAt(a, b, temporal.Linear, 5)
	require.Equal(t, 5.0, got.Float)
}

func TestValueAtStep(t *testing.T) {
	a, b := s(1, 0), s(2, 10)
	got := ValueAt(a, b, temporal.Step, 5)
	require.Equal(t, 1.0, got.Float)
}

func TestLinearSegmentMeetsValue(t *testing.T) {
	a, b := s(0, 0), s(10, 10)
	tm, v, ok := LinearSegmentMeetsValue(a, b, value.Float8(4))
	require.True(t, ok)
	require.Equal(t, temporal.Timestamp(4), tm)
	require.Equal(t, 4.0, v.Float)

	_, _, ok = LinearSegmentMeetsValue(a, b, value.Float8(20))
	require.False(t, ok)

	c, d := s(5, 0), s(5, 10)
	_, _, ok = LinearSegmentMeetsValue(c, d, value.Float8(5))
	require.False(t, ok)
}

func TestTwoSegmentsIntersectionS2(t *testing.T) {
	a1, a2 := s(0, 0), s(2, 2)
	b1, b2 := s(2, 0), s(0, 2)
	tm, v, ok := TwoSegmentsIntersection(a1, a2, b1, b2)
	require.True(t, ok)
	require.Equal(t, temporal.Timestamp(1), tm)
	require.Equal(t, 1.0, v.Float)
}

func TestTwoSegmentsParallel(t *testing.T) {
	a1, a2 := s(0, 0), s(10, 10)
	b1, b2 := s(1, 0), s(11, 10)
	_, _, ok := TwoSegmentsIntersection(a1, a2, b1, b2)
	require.False(t, ok)
}
