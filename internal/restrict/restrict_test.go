package restrict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

func tsVal(t temporal.Timestamp) value.Value {
	return value.Value{Tag: basetype.TimestampTz, Int: int64(t)}
}

func day(n int64) temporal.Timestamp {
	return temporal.Timestamp(n * 24 * 3600 * 1_000_000)
}

func TestAtValueLinearCrossing(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	out, ok, err := AtValue(s, value.Float8(5))
	require.Nil(t, err)
	require.True(t, ok)
	seq, isSeq := out.(temporal.Sequence)
	require.True(t, isSeq)
	require.Equal(t, 1, seq.NumInstants())
	require.Equal(t, day(5), seq.StartTimestamp())
}

func TestMinusValueLinearCrossingSplitsInTwo(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	out, ok, err := MinusValue(s, value.Float8(5))
	require.Nil(t, err)
	require.True(t, ok)
	ss, isSS := out.(temporal.SequenceSet)
	require.True(t, isSS)
	require.Equal(t, 2, ss.NumSequences())
	require.False(t, ss.SequenceN(0).UpperInc)
	require.False(t, ss.SequenceN(1).LowerInc)
}

func TestAtSpanLinear(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	target := span.MustMake(value.Float8(2), value.Float8(4), true, true)
	out, ok, err := AtSpan(s, target)
	require.Nil(t, err)
	require.True(t, ok)
	seq := out.(temporal.Sequence)
	require.Equal(t, day(2), seq.StartTimestamp())
	require.Equal(t, day(4), seq.EndTimestamp())
}

func TestAtTimestampSamplesLinear(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	out, ok, err := AtTimestamp(s, day(5))
	require.Nil(t, err)
	require.True(t, ok)
	inst := out.(temporal.Instant)
	require.Equal(t, 5.0, inst.Val.Float)
}

func TestMinusTimestampSplitsSequence(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	out, ok, err := MinusTimestamp(s, day(5))
	require.Nil(t, err)
	require.True(t, ok)
	ss := out.(temporal.SequenceSet)
	require.Equal(t, 2, ss.NumSequences())
}

func TestAtPeriodCropsSequence(t *testing.T) {
	s := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	period := span.MustMake(tsVal(day(2)), tsVal(day(8)), true, true)
	out, ok, err := AtPeriod(s, period)
	require.Nil(t, err)
	require.True(t, ok)
	seq := out.(temporal.Sequence)
	require.Equal(t, day(2), seq.StartTimestamp())
	require.Equal(t, day(8), seq.EndTimestamp())
}
