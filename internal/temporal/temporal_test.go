package temporal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/value"
)

func mkInstant(v float64, t int64) Instant {
	return NewInstant(value.Float8(v), Timestamp(t))
}

func TestSequenceOrderingViolation(t *testing.T) {
	_, err := NewSequence([]Instant{mkInstant(1, 10), mkInstant(2, 5)}, true, true, Linear, true)
	require.NotNil(t, err)
	require.Equal(t, "ordering-violation", err.Kind.String())
}

func TestSingleInstantMustBeInclusive(t *testing.T) {
	_, err := NewSequence([]Instant{mkInstant(1, 10)}, true, false, Linear, true)
	require.NotNil(t, err)
}

func TestNormalizeLinearDropsColinear(t *testing.T) {
	s := MustNewSequence([]Instant{
		mkInstant(0, 0), mkInstant(1, 1), mkInstant(2, 2),
	}, true, true, Linear, true)
	require.Equal(t, 2, s.NumInstants())
	require.Equal(t, Timestamp(0), s.InstantN(0).T)
	require.Equal(t, Timestamp(2), s.InstantN(1).T)
}

func TestNormalizeIdempotentP1(t *testing.T) {
	s := MustNewSequence([]Instant{
		mkInstant(0, 0), mkInstant(1, 1), mkInstant(2, 2), mkInstant(5, 5),
	}, true, true, Linear, true)
	once := NormalizeSequence(s)
	twice := NormalizeSequence(once)
	require.Equal(t, once.NumInstants(), twice.NumInstants())
	for i := range once.Instants {
		require.True(t, value.Equal(once.Instants[i].Val, twice.Instants[i].Val))
		require.Equal(t, once.Instants[i].T, twice.Instants[i].T)
	}
}

func TestStepSequenceRequiresTerminalRepeat(t *testing.T) {
	_, err := NewSequence([]Instant{
		mkInstant(1, 0), mkInstant(2, 5),
	}, true, false, Step, false)
	require.NotNil(t, err)

	s, err := NewSequence([]Instant{
		mkInstant(1, 0), mkInstant(2, 5), mkInstant(2, 10),
	}, true, false, Step, false)
	require.Nil(t, err)
	require.Equal(t, 3, s.NumInstants())
}

func TestJoinableSequences(t *testing.T) {
	a := MustNewSequence([]Instant{mkInstant(1, 0), mkInstant(2, 10)}, true, false, Linear, true)
	b := MustNewSequence([]Instant{mkInstant(2, 10), mkInstant(3, 20)}, true, true, Linear, true)
	require.True(t, Joinable(a, b))

	// 1@0, 2@10, 3@20 are colinear, so the normalized join keeps only
	// its endpoints.
	joined := Join(a, b)
	require.Equal(t, 2, joined.NumInstants())
	require.True(t, joined.UpperInc)
}

func TestSequenceSetRequiresSeparation(t *testing.T) {
	a := MustNewSequence([]Instant{mkInstant(1, 0), mkInstant(2, 10)}, true, true, Linear, true)
	b := MustNewSequence([]Instant{mkInstant(2, 5), mkInstant(3, 20)}, true, true, Linear, true)
	_, err := NewSequenceSet([]Sequence{a, b}, true)
	require.NotNil(t, err)
}
