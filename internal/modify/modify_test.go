package modify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

func day(n int64) temporal.Timestamp {
	return temporal.Timestamp(n * 24 * 3600 * 1_000_000)
}

func tsVal(t temporal.Timestamp) value.Value {
	return value.Value{Tag: basetype.TimestampTz, Int: int64(t)}
}

func linearSeq(points map[int64]float64) temporal.Sequence {
	var keys []int64
	for k := range points {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	var instants []temporal.Instant
	for _, k := range keys {
		instants = append(instants, temporal.NewInstant(value.Float8(points[k]), day(k)))
	}
	return temporal.MustNewSequence(instants, true, true, temporal.Linear, true)
}

func TestInsertDisjointProducesSequenceSet(t *testing.T) {
	a := linearSeq(map[int64]float64{0: 0, 1: 1})
	b := linearSeq(map[int64]float64{5: 5, 6: 6})

	out, err := Insert(a, b, false)
	require.Nil(t, err)
	ss, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	require.Equal(t, 2, ss.NumSequences())
}

func TestInsertTouchingGluesWithConnect(t *testing.T) {
	a := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(1), day(1)),
	}, true, false, temporal.Linear, true)
	b := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(1), day(1)),
		temporal.NewInstant(value.Float8(5), day(2)),
	}, true, true, temporal.Linear, true)

	out, err := Insert(a, b, true)
	require.Nil(t, err)
	seq, ok := out.(temporal.Sequence)
	require.True(t, ok)
	require.Equal(t, 3, seq.NumInstants())
}

func TestInsertDisagreeingBoundaryFails(t *testing.T) {
	a := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(1), day(1)),
	}, true, true, temporal.Linear, true)
	b := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(9), day(1)),
		temporal.NewInstant(value.Float8(2), day(2)),
	}, true, true, temporal.Linear, true)

	_, err := Insert(a, b, true)
	require.NotNil(t, err)
}

func TestUpdateReplacesOverlappingPeriod(t *testing.T) {
	a := linearSeq(map[int64]float64{0: 0, 10: 10})
	b := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(100), day(3)),
		temporal.NewInstant(value.Float8(101), day(4)),
	}, true, true, temporal.Linear, true)

	out, err := Update(a, b, false)
	require.Nil(t, err)
	ss, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	require.GreaterOrEqual(t, ss.NumSequences(), 2)
}

func TestDeleteRemovesPeriod(t *testing.T) {
	a := linearSeq(map[int64]float64{0: 0, 10: 10})
	period := span.MustMake(tsVal(day(3)), tsVal(day(7)), true, true)
	out, ok, err := Delete(a, span.New([]span.Span{period}), false)
	require.Nil(t, err)
	require.True(t, ok)
	ss, isSS := out.(temporal.SequenceSet)
	require.True(t, isSS)
	require.Equal(t, 2, ss.NumSequences())
}

func TestAppendInstantExtendsSequence(t *testing.T) {
	a := linearSeq(map[int64]float64{0: 0, 1: 1})
	out, err := AppendInstant(a, temporal.NewInstant(value.Float8(5), day(2)), AppendOptions{})
	require.Nil(t, err)
	seq, ok := out.(temporal.Sequence)
	require.True(t, ok)
	require.Equal(t, 3, seq.NumInstants())
}

func TestAppendInstantSplitsOnMaxT(t *testing.T) {
	a := linearSeq(map[int64]float64{0: 0, 1: 1})
	opts := AppendOptions{HasMaxT: true, MaxT: day(1)}
	out, err := AppendInstant(a, temporal.NewInstant(value.Float8(20), day(20)), opts)
	require.Nil(t, err)
	ss, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	require.Equal(t, 2, ss.NumSequences())
}

func TestAppendInstantDisagreementFails(t *testing.T) {
	a := linearSeq(map[int64]float64{0: 0, 1: 1})
	_, err := AppendInstant(a, temporal.NewInstant(value.Float8(99), day(1)), AppendOptions{})
	require.NotNil(t, err)
}

func TestAppendSequenceJoinsTouchingRun(t *testing.T) {
	a := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(1), day(1)),
	}, true, false, temporal.Linear, true)
	b := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(1), day(1)),
		temporal.NewInstant(value.Float8(5), day(2)),
	}, true, true, temporal.Linear, true)

	out, err := AppendSequence(a, b)
	require.Nil(t, err)
	seq, ok := out.(temporal.Sequence)
	require.True(t, ok)
	require.Equal(t, 3, seq.NumInstants())
}

func TestMergeArrayOfInstantsOrdersAndDedups(t *testing.T) {
	a := temporal.NewInstant(value.Float8(1), day(1))
	b := temporal.NewInstant(value.Float8(2), day(2))
	c := temporal.NewInstant(value.Float8(0), day(0))

	out, err := MergeArray([]temporal.Value{a, b, c})
	require.Nil(t, err)
	seq, ok := out.(temporal.Sequence)
	require.True(t, ok)
	require.Equal(t, day(0), seq.StartTimestamp())
	require.Equal(t, day(2), seq.EndTimestamp())
}

func TestMergeDisagreementFails(t *testing.T) {
	a := temporal.NewInstant(value.Float8(1), day(1))
	b := temporal.NewInstant(value.Float8(2), day(1))
	_, err := Merge(a, b)
	require.NotNil(t, err)
}
