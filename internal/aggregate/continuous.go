package aggregate

import (
	"sort"

	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/lift"
	"github.com/meosgo/meos/internal/restrict"
	"github.com/meosgo/meos/internal/segment"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// continuous accumulates non-Discrete (step/linear) pieces as a
// sorted, non-overlapping sequence list, each overlap resolved by
// synchronizing the two pieces through C5's lifting engine rather
// than merging raw per-instant samples. This is spec.md §4.C9's
// tsequence_tagg, grounded on
// _examples/original_source/meos/src/temporal/temporal_aggfuncs.c's
// tsequence_tagg_iter: intersect the two periods, keep whichever side
// extends beyond the intersection verbatim, and synchronize only the
// overlap.
type continuous struct {
	pieces []temporal.Sequence
}

func timestampValue(t temporal.Timestamp) value.Value {
	return value.Value{Tag: basetype.TimestampTz, Int: int64(t)}
}

func periodOfSeq(s temporal.Sequence) span.Span {
	return span.MustMake(timestampValue(s.StartTimestamp()), timestampValue(s.EndTimestamp()), s.LowerInc, s.UpperInc)
}

func asSequences(v temporal.Value) []temporal.Sequence {
	switch t := v.(type) {
	case temporal.Sequence:
		return []temporal.Sequence{t}
	case temporal.SequenceSet:
		out := make([]temporal.Sequence, t.NumSequences())
		for i := range out {
			out[i] = t.SequenceN(i)
		}
		return out
	default:
		return nil
	}
}

// cropSeq crops s to sp, expecting a single surviving sequence (never
// a sequence-set, since sp is itself a single contiguous span).
func cropSeq(s temporal.Sequence, sp span.Span) (temporal.Sequence, bool, *temperr.Error) {
	out, ok, err := restrict.AtPeriod(s, sp)
	if err != nil || !ok {
		return temporal.Sequence{}, ok, err
	}
	if inst, isInst := out.(temporal.Instant); isInst {
		single, serr := temporal.NewSequence([]temporal.Instant{inst}, true, true, s.Interp, true)
		return single, true, serr
	}
	seqs := asSequences(out)
	if len(seqs) != 1 {
		return temporal.Sequence{}, false, temperr.New(temperr.Internal, "aggregate: cropped piece split unexpectedly")
	}
	return seqs[0], true, nil
}

// aggFuncFor returns the synchronized pointwise transition lift.Func
// for kind, reused from C5 so continuous sequence aggregation gets
// turning-point insertion (min/max) and result-interpolation handling
// for free instead of a bespoke merge. Count and Avg have no pointwise
// continuous transition: they need the per-timestamp (sum, count)
// bookkeeping the discrete path already provides, so continuous
// accumulation of those kinds is rejected by Splice before reaching
// here (spec.md §4.C9 defines temporal_tagg's continuous variants only
// for and/or/min/max/sum).
func aggFuncFor(kind Kind) (lift.Func, *temperr.Error) {
	switch kind {
	case KindAnd:
		return lift.Func{
			Name: "tagg_and", Arity: lift.BinaryTemporal,
			BinaryFn: func(a, b value.Value) value.Value { return value.Bool(a.Bool && b.Bool) },
		}, nil
	case KindOr:
		return lift.Func{
			Name: "tagg_or", Arity: lift.BinaryTemporal,
			BinaryFn: func(a, b value.Value) value.Value { return value.Bool(a.Bool || b.Bool) },
		}, nil
	case KindMin:
		return lift.Func{
			Name: "tagg_min", Arity: lift.BinaryTemporal, ResultLinear: true,
			BinaryFn: func(a, b value.Value) value.Value {
				if value.Compare(a, b) < 0 {
					return a
				}
				return b
			},
			TPFunc: crossingTPFunc,
		}, nil
	case KindMax:
		return lift.Func{
			Name: "tagg_max", Arity: lift.BinaryTemporal, ResultLinear: true,
			BinaryFn: func(a, b value.Value) value.Value {
				if value.Compare(a, b) > 0 {
					return a
				}
				return b
			},
			TPFunc: crossingTPFunc,
		}, nil
	case KindSum:
		return lift.Func{
			Name: "tagg_sum", Arity: lift.BinaryTemporal, ResultLinear: true,
			BinaryFn: func(a, b value.Value) value.Value { return a.WithNumber(a.Number() + b.Number()) },
		}, nil
	default:
		return lift.Func{}, temperr.New(temperr.TypeMismatch, "aggregate: "+kind.String()+" has no continuous transition; count/avg require per-timestamp state")
	}
}

// crossingTPFunc reuses C4's two-segment intersection primitive as
// min/max's turning point: the timestamp at which the pointwise
// winner switches, a genuine kink even though the result stays
// continuous there.
func crossingTPFunc(a1, a2, b1, b2 segment.Sample) (temporal.Timestamp, value.Value, bool) {
	return segment.TwoSegmentsIntersection(a1, a2, b1, b2)
}

// spliceOne merges incoming into c's pieces in place.
func (c *continuous) spliceOne(incoming temporal.Sequence, f lift.Func) *temperr.Error {
	var result []temporal.Sequence
	cur := incoming
	haveCur := true
	for _, e := range c.pieces {
		if !haveCur || !span.Overlaps(periodOfSeq(e), periodOfSeq(cur)) {
			result = append(result, e)
			continue
		}
		merged, rest, restOk, err := mergeOverlap(e, cur, f)
		if err != nil {
			return err
		}
		result = append(result, merged...)
		cur, haveCur = rest, restOk
	}
	if haveCur {
		result = append(result, cur)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTimestamp() < result[j].StartTimestamp() })
	c.pieces = result
	return nil
}

// mergeOverlap synchronizes e (an existing, already-accumulated
// piece) against cur (the newly-spliced piece, known to overlap e),
// returning the piece(s) to place at this position now, and any tail
// of cur that extends past e's end so the caller can keep merging it
// against subsequent pieces.
func mergeOverlap(e, cur temporal.Sequence, f lift.Func) (out []temporal.Sequence, rest temporal.Sequence, restOk bool, err *temperr.Error) {
	pe, pc := periodOfSeq(e), periodOfSeq(cur)
	inter, ok := span.Intersection(pe, pc)
	if !ok {
		return []temporal.Sequence{e}, cur, true, nil
	}

	// cur starting before e: that lead-in is cur's alone, pass it
	// through unchanged before the synchronized region.
	if cur.StartTimestamp() < e.StartTimestamp() {
		before := span.MustMake(timestampValue(cur.StartTimestamp()), timestampValue(e.StartTimestamp()), cur.LowerInc, false)
		if piece, ok, cerr := cropSeq(cur, before); cerr != nil {
			return nil, temporal.Sequence{}, false, cerr
		} else if ok {
			out = append(out, piece)
		}
	}

	eSync, eOk, eerr := cropSeq(e, inter)
	if eerr != nil {
		return nil, temporal.Sequence{}, false, eerr
	}
	cSync, cOk, cerr := cropSeq(cur, inter)
	if cerr != nil {
		return nil, temporal.Sequence{}, false, cerr
	}
	if eOk && cOk {
		synced, syncOk, serr := lift.BinaryTemporal(f, eSync, cSync)
		if serr != nil {
			return nil, temporal.Sequence{}, false, serr
		}
		if syncOk {
			out = append(out, asSequences(synced)...)
		}
	}

	eEndsAfter := e.EndTimestamp() > cur.EndTimestamp() ||
		(e.EndTimestamp() == cur.EndTimestamp() && e.UpperInc && !cur.UpperInc)
	curEndsAfter := cur.EndTimestamp() > e.EndTimestamp() ||
		(cur.EndTimestamp() == e.EndTimestamp() && cur.UpperInc && !e.UpperInc)

	if eEndsAfter {
		after := span.MustMake(inter.Upper, timestampValue(e.EndTimestamp()), !inter.UpperInc, e.UpperInc)
		if piece, ok, perr := cropSeq(e, after); perr != nil {
			return nil, temporal.Sequence{}, false, perr
		} else if ok {
			out = append(out, piece)
		}
	}
	if curEndsAfter {
		after := span.MustMake(inter.Upper, timestampValue(cur.EndTimestamp()), !inter.UpperInc, cur.UpperInc)
		afterPiece, ok, perr := cropSeq(cur, after)
		if perr != nil {
			return nil, temporal.Sequence{}, false, perr
		}
		if ok {
			return out, afterPiece, true, nil
		}
	}
	return out, temporal.Sequence{}, false, nil
}

// finalContinuous concatenates c's normalized, non-overlapping pieces
// into a single sequence or sequence-set.
func finalContinuous(c *continuous) (temporal.Value, bool, *temperr.Error) {
	if len(c.pieces) == 0 {
		return nil, false, nil
	}
	if len(c.pieces) == 1 {
		return c.pieces[0], true, nil
	}
	ss, err := temporal.NewSequenceSet(c.pieces, true)
	if err != nil {
		return nil, false, err
	}
	return ss, true, nil
}
