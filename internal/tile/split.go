package tile

import (
	"golang.org/x/sync/errgroup"

	"github.com/meosgo/meos/internal/restrict"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// splitParallelThreshold is the bin count above which a split fans its
// per-bin restriction out across goroutines rather than running them
// in sequence, mirroring aggregate.combineParallelThreshold: each bin
// only reads temp and writes its own slice slot, so there's nothing to
// race on below the point where goroutine overhead outweighs the win.
const splitParallelThreshold = 32

// Fragment pairs a non-empty per-bin piece of a temporal value with
// the bin's lower bound.
type Fragment struct {
	Value temporal.Value
	Lower value.Value
}

// TimeSplit returns, for each non-empty time bin, the fragment
// at(temp, bin) and the bin's lower bound (spec.md §4.C8's
// temporal_time_split).
func TimeSplit(temp temporal.Value, duration temporal.Timestamp, torigin temporal.Timestamp) ([]Fragment, *temperr.Error) {
	period := timePeriod(temp)
	bins, err := SpanBins(period, float64(duration), timestampValue(torigin))
	if err != nil {
		return nil, err
	}
	return splitBins(bins, func(bin span.Span) (temporal.Value, bool, *temperr.Error) {
		return restrict.AtPeriod(temp, bin)
	})
}

// ValueSplit returns, per non-empty value bin, the sequence(s) whose
// value lies in that bin; AtSpan already introduces the synthetic
// crossing instants and distributes inclusivity so each fragment
// covers exactly the half-open [lb, ub) of its bin (spec.md §4.C8's
// tnumber_value_split).
func ValueSplit(temp temporal.Value, vsize float64, vorigin value.Value) ([]Fragment, *temperr.Error) {
	bbox, ok := valueBbox(temp)
	if !ok {
		return nil, nil
	}
	bins, err := SpanBins(bbox, vsize, vorigin)
	if err != nil {
		return nil, err
	}
	return splitBins(bins, func(bin span.Span) (temporal.Value, bool, *temperr.Error) {
		return restrict.AtSpan(temp, bin)
	})
}

// splitBins runs restrictTo once per bin, sequentially below
// splitParallelThreshold and fanned out over an errgroup above it:
// each goroutine only reads temp (via restrictTo's closure) and writes
// its own slot, so there is nothing shared to race on. Bin order is
// preserved in the output regardless of completion order.
func splitBins(bins []span.Span, restrictTo func(bin span.Span) (temporal.Value, bool, *temperr.Error)) ([]Fragment, *temperr.Error) {
	type result struct {
		val temporal.Value
		ok  bool
	}
	results := make([]result, len(bins))

	if len(bins) > splitParallelThreshold {
		var g errgroup.Group
		for i, bin := range bins {
			i, bin := i, bin
			g.Go(func() error {
				at, ok, aerr := restrictTo(bin)
				if aerr != nil {
					return aerr
				}
				results[i] = result{val: at, ok: ok}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err.(*temperr.Error)
		}
	} else {
		for i, bin := range bins {
			at, ok, aerr := restrictTo(bin)
			if aerr != nil {
				return nil, aerr
			}
			results[i] = result{val: at, ok: ok}
		}
	}

	out := make([]Fragment, 0, len(bins))
	for i, bin := range bins {
		if results[i].ok {
			out = append(out, Fragment{Value: results[i].val, Lower: bin.Lower})
		}
	}
	return out, nil
}

// TimeSplitDefault is TimeSplit using cfg's default bin duration in
// place of an explicit one, for callers that only need to pin torigin.
func TimeSplitDefault(temp temporal.Value, torigin temporal.Timestamp, cfg Config) ([]Fragment, *temperr.Error) {
	return TimeSplit(temp, temporal.Timestamp(cfg.DefaultTimeBinDuration.Microseconds()), torigin)
}

// ValueSplitDefault is ValueSplit using cfg's default bin size in
// place of an explicit one, for callers that only need to pin vorigin.
func ValueSplitDefault(temp temporal.Value, vorigin value.Value, cfg Config) ([]Fragment, *temperr.Error) {
	return ValueSplit(temp, cfg.DefaultValueBinSize, vorigin)
}

// ValueTimeSplit composes the two splits: for each value-bin fragment
// it further splits by time (spec.md §4.C8's tnumber_value_time_split).
func ValueTimeSplit(temp temporal.Value, vsize float64, duration temporal.Timestamp, vorigin value.Value, torigin temporal.Timestamp) ([]Fragment, *temperr.Error) {
	byValue, err := ValueSplit(temp, vsize, vorigin)
	if err != nil {
		return nil, err
	}
	var out []Fragment
	for _, vf := range byValue {
		byTime, terr := TimeSplit(vf.Value, duration, torigin)
		if terr != nil {
			return nil, terr
		}
		for _, tf := range byTime {
			out = append(out, Fragment{Value: tf.Value, Lower: vf.Lower})
		}
	}
	return out, nil
}
