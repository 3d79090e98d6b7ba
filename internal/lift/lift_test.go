package lift

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/segment"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

func day(n int64) temporal.Timestamp {
	return temporal.Timestamp(n * 24 * 3600 * 1_000_000)
}

func TestDiscontinuousLiftCrossingS1(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(1), day(0)),
		temporal.NewInstant(value.Float8(3), day(2)),
	}, true, true, temporal.Linear, true)

	f := Func{
		Name:            "lt",
		Arity:           BinaryBase,
		BinaryFn:        func(a, b value.Value) value.Value { return value.Bool(a.Number() < b.Number()) },
		IsDiscontinuous: true,
		Comparison:      CmpLT,
	}
	out, err := BinaryBase(f, s, value.Float8(2))
	require.Nil(t, err)
	ss, ok := out.(temporal.SequenceSet)
	require.True(t, ok, "expected a sequence-set result")
	require.Equal(t, 2, ss.NumSequences())

	first := ss.SequenceN(0)
	require.True(t, first.InstantN(0).Val.Bool)
	require.False(t, first.UpperInc)

	second := ss.SequenceN(1)
	require.False(t, second.InstantN(0).Val.Bool)
	require.True(t, second.LowerInc)
}

func TestSynchronizedSumTurningPointS2(t *testing.T) {
	a := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), temporal.Timestamp(0)),
		temporal.NewInstant(value.Float8(2), temporal.Timestamp(2)),
	}, true, true, temporal.Linear, true)
	b := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(2), temporal.Timestamp(0)),
		temporal.NewInstant(value.Float8(0), temporal.Timestamp(2)),
	}, true, true, temporal.Linear, true)

	sumFunc := Func{
		Name:         "sum",
		Arity:        BinaryTemporal,
		BinaryFn:     func(x, y value.Value) value.Value { return value.Float8(x.Number() + y.Number()) },
		ResultLinear: true,
		TPFunc: func(a1, a2, b1, b2 segment.Sample) (temporal.Timestamp, value.Value, bool) {
			tm := a1.T + (a2.T-a1.T)/2
			if tm <= a1.T || tm >= a2.T {
				return 0, value.Value{}, false
			}
			va := segment.ValueAt(a1, a2, temporal.Linear, tm)
			vb := segment.ValueAt(b1, b2, temporal.Linear, tm)
			return tm, value.Float8(va.Number() + vb.Number()), true
		},
	}
	out, ok, err := BinaryTemporal(sumFunc, a, b)
	require.Nil(t, err)
	require.True(t, ok)
	seq := out.(temporal.Sequence)
	// after normalization the constant run collapses to two endpoints
	require.Equal(t, 2, seq.NumInstants())
	require.Equal(t, 2.0, seq.InstantN(0).Val.Float)
	require.Equal(t, 2.0, seq.InstantN(1).Val.Float)
}

func TestMultiplyInsertsProductTurningPoint(t *testing.T) {
	a := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), temporal.Timestamp(0)),
		temporal.NewInstant(value.Float8(2), temporal.Timestamp(100)),
	}, true, true, temporal.Linear, true)
	b := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(2), temporal.Timestamp(0)),
		temporal.NewInstant(value.Float8(0), temporal.Timestamp(100)),
	}, true, true, temporal.Linear, true)

	out, ok, err := BinaryTemporal(Multiply, a, b)
	require.Nil(t, err)
	require.True(t, ok)
	seq := out.(temporal.Sequence)
	require.Equal(t, 3, seq.NumInstants())
	require.Equal(t, temporal.Timestamp(0), seq.InstantN(0).T)
	require.Equal(t, 0.0, seq.InstantN(0).Val.Float)
	require.Equal(t, temporal.Timestamp(50), seq.InstantN(1).T)
	require.Equal(t, 1.0, seq.InstantN(1).Val.Float)
	require.Equal(t, temporal.Timestamp(100), seq.InstantN(2).T)
	require.Equal(t, 0.0, seq.InstantN(2).Val.Float)
}

func TestEverAlways(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(1), temporal.Timestamp(0)),
		temporal.NewInstant(value.Float8(5), temporal.Timestamp(10)),
	}, true, true, temporal.Linear, true)

	f := Func{
		Arity:           BinaryBase,
		BinaryFn:        func(a, b value.Value) value.Value { return value.Bool(a.Number() < b.Number()) },
		IsDiscontinuous: true,
		Comparison:      CmpLT,
	}
	ever, err := Ever(f, s, value.Float8(3))
	require.Nil(t, err)
	require.True(t, ever)

	always, err := Always(f, s, value.Float8(3))
	require.Nil(t, err)
	require.False(t, always)

	always2, err := Always(f, s, value.Float8(10))
	require.Nil(t, err)
	require.True(t, always2)
}
