package span

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/value"
)

func TestMakeCanonicalizesIntegerBounds(t *testing.T) {
	s := MustMake(value.Int4(1), value.Int4(10), false, true)
	require.True(t, s.LowerInc)
	require.False(t, s.UpperInc)
	require.Equal(t, int64(2), s.Lower.Int)
	require.Equal(t, int64(11), s.Upper.Int)
}

func TestMakeRejectsEmptySpan(t *testing.T) {
	_, err := Make(value.Int4(5), value.Int4(5), false, false)
	require.NotNil(t, err)
}

func TestContainsP2(t *testing.T) {
	s := MustMake(value.Int4(1), value.Int4(10), true, true)
	for v := int32(1); v <= 10; v++ {
		require.True(t, Contains(s, value.Int4(v)), "v=%d", v)
	}
	require.False(t, Contains(s, value.Int4(0)))
	require.False(t, Contains(s, value.Int4(11)))
}

func TestOverlapsAndAdjacent(t *testing.T) {
	a := MustMake(value.Int4(1), value.Int4(5), true, false)
	b := MustMake(value.Int4(5), value.Int4(10), true, false)
	require.False(t, Overlaps(a, b))
	require.True(t, Adjacent(a, b))

	c := MustMake(value.Int4(3), value.Int4(8), true, false)
	require.True(t, Overlaps(a, c))
	require.False(t, Adjacent(a, c))
}

func TestIntersectionFloat(t *testing.T) {
	a := MustMake(value.Float8(0), value.Float8(5), true, true)
	b := MustMake(value.Float8(3), value.Float8(8), false, true)
	inter, ok := Intersection(a, b)
	require.True(t, ok)
	require.Equal(t, 3.0, inter.Lower.Float)
	require.False(t, inter.LowerInc)
	require.Equal(t, 5.0, inter.Upper.Float)
	require.True(t, inter.UpperInc)
}

func TestDifferenceTwoPieces(t *testing.T) {
	a := MustMake(value.Int4(0), value.Int4(20), true, false)
	b := MustMake(value.Int4(5), value.Int4(10), true, false)
	diff := Difference(a, b)
	spans := diff.spans
	require.Len(t, spans, 2)
	require.True(t, Equal(spans[0], MustMake(value.Int4(0), value.Int4(5), true, false)))
	require.True(t, Equal(spans[1], MustMake(value.Int4(10), value.Int4(20), true, false)))
}

func TestSpanSetAddSpanMergesAdjacent(t *testing.T) {
	ss := New([]Span{
		MustMake(value.Int4(0), value.Int4(5), true, false),
		MustMake(value.Int4(10), value.Int4(15), true, false),
	})
	require.Equal(t, 2, ss.Count())

	ss = ss.AddSpan(MustMake(value.Int4(5), value.Int4(10), true, false))
	require.Equal(t, 1, ss.Count())
	box, ok := ss.Bbox()
	require.True(t, ok)
	require.True(t, Equal(box, MustMake(value.Int4(0), value.Int4(15), true, false)))
}

func TestSpanSetFindElement(t *testing.T) {
	ss := New([]Span{
		MustMake(value.Int4(0), value.Int4(5), true, false),
		MustMake(value.Int4(10), value.Int4(15), true, false),
	})
	idx, found := FindElement(ss, value.Int4(3))
	require.True(t, found)
	require.Equal(t, 0, idx)

	idx, found = FindElement(ss, value.Int4(7))
	require.False(t, found)
	require.Equal(t, 1, idx)
}

func TestSpanSetIntersectionAndDifference(t *testing.T) {
	a := New([]Span{MustMake(value.Int4(0), value.Int4(10), true, false)})
	b := New([]Span{
		MustMake(value.Int4(2), value.Int4(4), true, false),
		MustMake(value.Int4(6), value.Int4(20), true, false),
	})
	inter := SpanSetIntersection(a, b)
	require.Equal(t, 2, inter.Count())

	diff := SpanSetDifference(a, b)
	spans := diff.ToSpans()
	require.Len(t, spans, 2)
}
