package tile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

func day(n int64) temporal.Timestamp {
	return temporal.Timestamp(n * 24 * 3600 * 1_000_000)
}

func TestSpanNumBinsAligned(t *testing.T) {
	s := span.MustMake(value.Int8(2), value.Int8(23), true, false)
	bins, err := SpanNumBins(s, 10, value.Int8(0))
	require.Nil(t, err)
	require.Equal(t, 3, bins.Count)
	require.Equal(t, int64(0), bins.Start.Int)
	require.Equal(t, int64(30), bins.End.Int)
}

func TestSpanBinsOverlap(t *testing.T) {
	s := span.MustMake(value.Int8(2), value.Int8(23), true, false)
	bins, err := SpanBins(s, 10, value.Int8(0))
	require.Nil(t, err)
	require.Len(t, bins, 3)
}

func TestSpanNumBinsRejectsNonPositiveSize(t *testing.T) {
	s := span.MustMake(value.Int8(0), value.Int8(10), true, false)
	_, err := SpanNumBins(s, 0, value.Int8(0))
	require.NotNil(t, err)
}

func TestValueSplitDistributesLinearSequence(t *testing.T) {
	seq := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(25), day(10)),
	}, true, true, temporal.Linear, true)

	frags, err := ValueSplit(seq, 10, value.Float8(0))
	require.Nil(t, err)
	require.NotEmpty(t, frags)
}

func TestTimeSplitSegmentsSequence(t *testing.T) {
	seq := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	frags, err := TimeSplit(seq, day(5), day(0))
	require.Nil(t, err)
	require.Len(t, frags, 2)
}

func tsVal(t temporal.Timestamp) value.Value {
	return value.Value{Tag: basetype.TimestampTz, Int: int64(t)}
}

func TestTimeBinsBoundsMatch(t *testing.T) {
	seq := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(10), day(10)),
	}, true, true, temporal.Linear, true)

	bins, err := TimeBins(seq, day(5), day(0))
	require.Nil(t, err)
	require.Len(t, bins, 2)
	require.Equal(t, tsVal(day(0)).Int, bins[0].Lower.Int)
}

func TestConfigRegisterFlagsAndApplyDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 1.0, cfg.DefaultValueBinSize)
	require.Equal(t, time.Hour, cfg.DefaultTimeBinDuration)
}

func TestTimeSplitDefaultUsesConfigDuration(t *testing.T) {
	seq := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), temporal.Timestamp(0)),
		temporal.NewInstant(value.Float8(10), temporal.Timestamp(3*time.Hour.Microseconds())),
	}, true, true, temporal.Linear, true)

	cfg := DefaultConfig()
	frags, err := TimeSplitDefault(seq, 0, cfg)
	require.Nil(t, err)
	require.Len(t, frags, 3)
}

func TestValueSplitDefaultUsesConfigBinSize(t *testing.T) {
	seq := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(3), day(10)),
	}, true, true, temporal.Linear, true)

	cfg := DefaultConfig()
	frags, err := ValueSplitDefault(seq, value.Float8(0), cfg)
	require.Nil(t, err)
	require.NotEmpty(t, frags)
}

// Past splitParallelThreshold bins, TimeSplit fans its per-bin
// restriction out over an errgroup; this only exercises that it still
// produces the right number of non-empty fragments, not the goroutine
// scheduling itself.
func TestTimeSplitParallelizesManyBins(t *testing.T) {
	seq := temporal.MustNewSequence([]temporal.Instant{
		temporal.NewInstant(value.Float8(0), day(0)),
		temporal.NewInstant(value.Float8(100), day(100)),
	}, true, true, temporal.Linear, true)

	frags, err := TimeSplit(seq, day(1), day(0))
	require.Nil(t, err)
	require.Len(t, frags, 100)
}
