package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

func day(n int64) temporal.Timestamp {
	return temporal.Timestamp(n * 24 * 3600 * 1_000_000)
}

func discSeq(vals []value.Value, ts []int64) temporal.Sequence {
	instants := make([]temporal.Instant, len(vals))
	for i := range vals {
		instants[i] = temporal.NewInstant(vals[i], day(ts[i]))
	}
	return temporal.MustNewSequence(instants, true, true, temporal.Discrete, true)
}

func linSeq(vals []float64, ts []int64) temporal.Sequence {
	instants := make([]temporal.Instant, len(vals))
	for i := range vals {
		instants[i] = temporal.NewInstant(value.Float8(vals[i]), temporal.Timestamp(ts[i]))
	}
	return temporal.MustNewSequence(instants, true, true, temporal.Linear, true)
}

func TestSkipListSumAcrossOverlappingTimestamps(t *testing.T) {
	sl := NewSkipList(KindSum, temporal.Discrete)
	a := discSeq([]value.Value{value.Float8(1), value.Float8(2)}, []int64{0, 1})
	b := discSeq([]value.Value{value.Float8(10), value.Float8(20)}, []int64{1, 2})

	require.Nil(t, sl.Splice(a))
	require.Nil(t, sl.Splice(b))
	require.Equal(t, 3, sl.Count())

	result, ok, err := sl.Final()
	require.Nil(t, err)
	require.True(t, ok)
	seq := result.(temporal.Sequence)
	require.Equal(t, 3, seq.NumInstants())
	require.Equal(t, 1.0, seq.InstantN(0).Val.Float)
	require.Equal(t, 12.0, seq.InstantN(1).Val.Float) // 2 + 10 at day 1
	require.Equal(t, 20.0, seq.InstantN(2).Val.Float)
}

func TestSkipListCountAccumulates(t *testing.T) {
	sl := NewSkipList(KindCount, temporal.Discrete)
	a := discSeq([]value.Value{value.Int8(1), value.Int8(1)}, []int64{0, 1})
	b := discSeq([]value.Value{value.Int8(1)}, []int64{1})

	require.Nil(t, sl.Splice(a))
	require.Nil(t, sl.Splice(b))

	result, ok, err := sl.Final()
	require.Nil(t, err)
	require.True(t, ok)
	seq := result.(temporal.Sequence)
	require.Equal(t, int64(1), seq.InstantN(0).Val.Int)
	require.Equal(t, int64(2), seq.InstantN(1).Val.Int)
}

func TestSkipListAvgDividesSumByCount(t *testing.T) {
	sl := NewSkipList(KindAvg, temporal.Discrete)
	a := discSeq([]value.Value{value.Float8(4)}, []int64{0})
	b := discSeq([]value.Value{value.Float8(8)}, []int64{0})

	require.Nil(t, sl.Splice(a))
	require.Nil(t, sl.Splice(b))

	result, ok, err := sl.Final()
	require.Nil(t, err)
	require.True(t, ok)
	seq := result.(temporal.Sequence)
	require.Equal(t, 1, seq.NumInstants())
	require.Equal(t, 6.0, seq.InstantN(0).Val.Float)
}

func TestSkipListMinMaxAndOr(t *testing.T) {
	minSl := NewSkipList(KindMin, temporal.Discrete)
	maxSl := NewSkipList(KindMax, temporal.Discrete)
	a := discSeq([]value.Value{value.Float8(5)}, []int64{0})
	b := discSeq([]value.Value{value.Float8(3)}, []int64{0})
	require.Nil(t, minSl.Splice(a))
	require.Nil(t, minSl.Splice(b))
	require.Nil(t, maxSl.Splice(a))
	require.Nil(t, maxSl.Splice(b))

	minR, _, err := minSl.Final()
	require.Nil(t, err)
	require.Equal(t, 3.0, minR.(temporal.Sequence).InstantN(0).Val.Float)

	maxR, _, err := maxSl.Final()
	require.Nil(t, err)
	require.Equal(t, 5.0, maxR.(temporal.Sequence).InstantN(0).Val.Float)

	andSl := NewSkipList(KindAnd, temporal.Discrete)
	orSl := NewSkipList(KindOr, temporal.Discrete)
	t1 := discSeq([]value.Value{value.Bool(true)}, []int64{0})
	t2 := discSeq([]value.Value{value.Bool(false)}, []int64{0})
	require.Nil(t, andSl.Splice(t1))
	require.Nil(t, andSl.Splice(t2))
	require.Nil(t, orSl.Splice(t1))
	require.Nil(t, orSl.Splice(t2))

	andR, _, err := andSl.Final()
	require.Nil(t, err)
	require.False(t, andR.(temporal.Sequence).InstantN(0).Val.Bool)

	orR, _, err := orSl.Final()
	require.Nil(t, err)
	require.True(t, orR.(temporal.Sequence).InstantN(0).Val.Bool)
}

func TestSkipListFinalOnEmptyIsNotOK(t *testing.T) {
	sl := NewSkipList(KindSum, temporal.Discrete)
	result, ok, err := sl.Final()
	require.Nil(t, err)
	require.False(t, ok)
	require.Nil(t, result)
}

func TestSkipListSpliceRejectsInterpolationMismatch(t *testing.T) {
	sl := NewSkipList(KindSum, temporal.Discrete)
	a := discSeq([]value.Value{value.Float8(1)}, []int64{0})
	require.Nil(t, sl.Splice(a))

	linear := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(1), day(1)),
		temporal.NewInstant(value.Float8(2), day(2)),
	}, true, true, temporal.Linear, true)
	err := sl.Splice(linear)
	require.NotNil(t, err)
}

func TestAppendAggregateGrowsExistingAccumulator(t *testing.T) {
	sl := NewSkipList(KindSum, temporal.Discrete)
	a := discSeq([]value.Value{value.Float8(1)}, []int64{0})
	require.Nil(t, AppendAggregate(sl, a))
	b := discSeq([]value.Value{value.Float8(9)}, []int64{0})
	require.Nil(t, AppendAggregate(sl, b))

	result, ok, err := sl.Final()
	require.Nil(t, err)
	require.True(t, ok)
	require.Equal(t, 10.0, result.(temporal.Sequence).InstantN(0).Val.Float)
}

func TestCombineMergesTwoShardsPreservingAvgWeighting(t *testing.T) {
	shardA := NewSkipList(KindAvg, temporal.Discrete)
	shardB := NewSkipList(KindAvg, temporal.Discrete)
	// Three samples at day 0 split across shards: 2, 4, 9 -> avg 5.
	require.Nil(t, shardA.Splice(discSeq([]value.Value{value.Float8(2)}, []int64{0})))
	require.Nil(t, shardA.Splice(discSeq([]value.Value{value.Float8(4)}, []int64{0})))
	require.Nil(t, shardB.Splice(discSeq([]value.Value{value.Float8(9)}, []int64{0})))

	combined, err := Combine(shardA, shardB)
	require.Nil(t, err)

	result, ok, ferr := combined.Final()
	require.Nil(t, ferr)
	require.True(t, ok)
	require.Equal(t, 5.0, result.(temporal.Sequence).InstantN(0).Val.Float)
}

func TestCombineRejectsMismatchedKinds(t *testing.T) {
	sumSl := NewSkipList(KindSum, temporal.Discrete)
	countSl := NewSkipList(KindCount, temporal.Discrete)
	_, err := Combine(sumSl, countSl)
	require.NotNil(t, err)
}

func TestExtentAccumulatesBoundingBoxAcrossSplices(t *testing.T) {
	e := NewExtent()
	a := discSeq([]value.Value{value.Float8(5), value.Float8(-2)}, []int64{1, 3})
	b := discSeq([]value.Value{value.Float8(9)}, []int64{0})
	require.Nil(t, e.Splice(a))
	require.Nil(t, e.Splice(b))

	timeSpan, valSpan, hasValue, ok := e.Final()
	require.True(t, ok)
	require.True(t, hasValue)
	require.Equal(t, day(0), temporal.Timestamp(timeSpan.Lower.Int))
	require.Equal(t, day(3), temporal.Timestamp(timeSpan.Upper.Int))
	require.Equal(t, -2.0, valSpan.Lower.Float)
	require.Equal(t, 9.0, valSpan.Upper.Float)
}

func TestExtentMergeCombinesTwoAccumulators(t *testing.T) {
	e1 := NewExtent()
	e2 := NewExtent()
	require.Nil(t, e1.Splice(discSeq([]value.Value{value.Float8(1)}, []int64{0})))
	require.Nil(t, e2.Splice(discSeq([]value.Value{value.Float8(100)}, []int64{5})))

	e1.Merge(e2)
	timeSpan, valSpan, hasValue, ok := e1.Final()
	require.True(t, ok)
	require.True(t, hasValue)
	require.Equal(t, day(5), temporal.Timestamp(timeSpan.Upper.Int))
	require.Equal(t, 100.0, valSpan.Upper.Float)
}

func TestExtentFinalOnEmptyIsNotOK(t *testing.T) {
	e := NewExtent()
	_, _, _, ok := e.Final()
	require.False(t, ok)
}

// Two overlapping linear pieces sampled at different timestamps must
// be synchronized through C5's lifting engine rather than unioning
// their raw sample points: b's extra sample at t=1 must not leak
// through to the result unsynchronized.
func TestSkipListContinuousSumSynchronizesDifferentSampleTimestamps(t *testing.T) {
	sl := NewSkipList(KindSum, temporal.Linear)
	a := linSeq([]float64{0, 10}, []int64{0, 2})
	b := linSeq([]float64{5, 10, 15}, []int64{0, 1, 2})

	require.Nil(t, sl.Splice(a))
	require.Nil(t, sl.Splice(b))

	result, ok, err := sl.Final()
	require.Nil(t, err)
	require.True(t, ok)
	seq := result.(temporal.Sequence)
	require.Equal(t, 5.0, seq.InstantN(0).Val.Float)
	require.Equal(t, 25.0, seq.InstantN(seq.NumInstants()-1).Val.Float)
}

func TestSkipListContinuousMaxInsertsCrossingTurningPoint(t *testing.T) {
	sl := NewSkipList(KindMax, temporal.Linear)
	a := linSeq([]float64{0, 10}, []int64{0, 10})
	b := linSeq([]float64{10, 0}, []int64{0, 10})

	require.Nil(t, sl.Splice(a))
	require.Nil(t, sl.Splice(b))

	result, ok, err := sl.Final()
	require.Nil(t, err)
	require.True(t, ok)
	seq := result.(temporal.Sequence)
	require.Equal(t, 3, seq.NumInstants())
	require.Equal(t, temporal.Timestamp(5), seq.InstantN(1).T)
	require.Equal(t, 5.0, seq.InstantN(1).Val.Float)
}

func TestSkipListContinuousRejectsCountAndAvg(t *testing.T) {
	a := linSeq([]float64{1, 2}, []int64{0, 10})

	countSl := NewSkipList(KindCount, temporal.Linear)
	require.NotNil(t, countSl.Splice(a))

	avgSl := NewSkipList(KindAvg, temporal.Linear)
	require.NotNil(t, avgSl.Splice(a))
}

func TestCombineMergesContinuousAccumulators(t *testing.T) {
	shardA := NewSkipList(KindSum, temporal.Linear)
	shardB := NewSkipList(KindSum, temporal.Linear)
	require.Nil(t, shardA.Splice(linSeq([]float64{0, 10}, []int64{0, 2})))
	require.Nil(t, shardB.Splice(linSeq([]float64{5, 10, 15}, []int64{0, 1, 2})))

	combined, err := Combine(shardA, shardB)
	require.Nil(t, err)

	result, ok, ferr := combined.Final()
	require.Nil(t, ferr)
	require.True(t, ok)
	seq := result.(temporal.Sequence)
	require.Equal(t, 5.0, seq.InstantN(0).Val.Float)
	require.Equal(t, 25.0, seq.InstantN(seq.NumInstants()-1).Val.Float)
}

func TestCombineRejectsMismatchedInterpolations(t *testing.T) {
	sumDiscrete := NewSkipList(KindSum, temporal.Discrete)
	sumLinear := NewSkipList(KindSum, temporal.Linear)
	_, err := Combine(sumDiscrete, sumLinear)
	require.NotNil(t, err)
}

func TestConfigRegisterFlagsAndApplyDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, maxLevel, cfg.MaxLevel)
	require.Equal(t, levelProbability, cfg.LevelProbability)
}

func TestNewSkipListWithConfigHonorsCustomLevels(t *testing.T) {
	cfg := Config{MaxLevel: 4, LevelProbability: 0.5}
	sl := NewSkipListWithConfig(KindSum, temporal.Discrete, cfg)
	require.Equal(t, 4, sl.maxLevel)
	require.Equal(t, 0.5, sl.levelProb)
}

