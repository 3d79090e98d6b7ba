package restrict

import (
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
)

// AtSpan keeps the sub-periods where a number sequence's value lies
// within target.
func AtSpan(temp temporal.Value, target span.Span) (temporal.Value, bool, *temperr.Error) {
	return restrictSpan(temp, target, true)
}

// MinusSpan drops those sub-periods.
func MinusSpan(temp temporal.Value, target span.Span) (temporal.Value, bool, *temperr.Error) {
	return restrictSpan(temp, target, false)
}

func restrictSpan(temp temporal.Value, target span.Span, atMode bool) (temporal.Value, bool, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		if span.Contains(target, v.Val) == atMode {
			return v, true, nil
		}
		return nil, false, nil
	case temporal.Sequence:
		return restrictSpanSequence(v, target, atMode)
	case temporal.SequenceSet:
		var seqs []temporal.Sequence
		for i := 0; i < v.NumSequences(); i++ {
			out, ok, err := restrictSpanSequence(v.SequenceN(i), target, atMode)
			if err != nil {
				return nil, false, err
			}
			if ok {
				seqs = append(seqs, flattenToSequences(out)...)
			}
		}
		return buildResult(seqs)
	default:
		return nil, false, temperr.New(temperr.Internal, "restrict.restrictSpan: unreachable subtype")
	}
}

// restrictSpanSequence implements spec.md §4.C6's "Number sequence vs
// value-span" rule: intersect the segment's value-span with target,
// recomputing linear endpoints by solving the segment's line equation.
func restrictSpanSequence(s temporal.Sequence, target span.Span, atMode bool) (temporal.Value, bool, *temperr.Error) {
	if s.Interp == temporal.Discrete {
		var instants []temporal.Instant
		for i := 0; i < s.NumInstants(); i++ {
			it := s.InstantN(i)
			if span.Contains(target, it.Val) == atMode {
				instants = append(instants, it)
			}
		}
		if len(instants) == 0 {
			return nil, false, nil
		}
		seq, err := temporal.NewSequence(instants, true, true, temporal.Discrete, true)
		if err != nil {
			return nil, false, err
		}
		return seq, true, nil
	}

	periods := spanContainmentPeriods(s, target)
	if !atMode {
		periods = span.SpanSetDifference(span.New([]span.Span{s.Period()}), periods)
	}
	if periods.IsEmpty() {
		return nil, false, nil
	}
	var seqs []temporal.Sequence
	for _, p := range periods.ToSpans() {
		out, ok, err := cropToPeriod(s, p)
		if err != nil {
			return nil, false, err
		}
		if ok {
			seqs = append(seqs, flattenToSequences(out)...)
		}
	}
	return buildResult(seqs)
}

// spanContainmentPeriods returns the time periods over which s's value
// lies within target, walking segment by segment.
func spanContainmentPeriods(s temporal.Sequence, target span.Span) span.SpanSet {
	var ss span.SpanSet
	n := s.NumInstants()
	if n == 1 {
		if span.Contains(target, s.InstantN(0).Val) {
			ss = ss.AddSpan(s.Period())
		}
		return ss
	}
	for i := 0; i < n-1; i++ {
		a, b := s.InstantN(i), s.InstantN(i+1)
		if s.Interp == temporal.Step {
			if span.Contains(target, a.Val) {
				upperInc := false
				if i == n-2 {
					upperInc = s.UpperInc
				}
				p, err := span.Make(timestampValue(a.T), timestampValue(b.T), true, upperInc)
				if err == nil {
					ss = ss.AddSpan(p)
				}
			}
			continue
		}
		if p, ok := spanCrossingsInSegment(a, b, target); ok {
			ss = ss.AddSpan(p)
		}
	}
	return ss
}

// spanCrossingsInSegment intersects the value range swept by the
// linear segment (a,b) with target, mapping the resulting value bounds
// back to timestamps by solving the segment's line equation.
func spanCrossingsInSegment(a, b temporal.Instant, target span.Span) (span.Span, bool) {
	v1, v2 := a.Val.Number(), b.Val.Number()
	if v1 == v2 {
		if !span.Contains(target, a.Val) {
			return span.Span{}, false
		}
		p, err := span.Make(timestampValue(a.T), timestampValue(b.T), true, true)
		if err != nil {
			return span.Span{}, false
		}
		return p, true
	}
	segLo, segHi := v1, v2
	if segLo > segHi {
		segLo, segHi = segHi, segLo
	}
	tgtLo, tgtHi := target.Lower.Number(), target.Upper.Number()

	lo, lowerInc := segLo, true
	if tgtLo > segLo {
		lo, lowerInc = tgtLo, target.LowerInc
	}
	hi, upperInc := segHi, true
	if tgtHi < segHi {
		hi, upperInc = tgtHi, target.UpperInc
	}
	if lo > hi || (lo == hi && !(lowerInc && upperInc)) {
		return span.Span{}, false
	}

	loT := timestampForValue(a, b, lo)
	hiT := timestampForValue(a, b, hi)
	if loT > hiT {
		loT, hiT = hiT, loT
		lowerInc, upperInc = upperInc, lowerInc
	}
	p, err := span.Make(timestampValue(loT), timestampValue(hiT), lowerInc, upperInc)
	if err != nil {
		return span.Span{}, false
	}
	return p, true
}

func timestampForValue(a, b temporal.Instant, v float64) temporal.Timestamp {
	v1, v2 := a.Val.Number(), b.Val.Number()
	if v1 == v2 {
		return a.T
	}
	alpha := (v - v1) / (v2 - v1)
	return a.T + temporal.Timestamp(alpha*float64(b.T-a.T))
}

// AtSpanSet unions AtSpan over each of targets' spans.
func AtSpanSet(temp temporal.Value, targets span.SpanSet) (temporal.Value, bool, *temperr.Error) {
	var seqs []temporal.Sequence
	var instants []temporal.Instant
	for _, sp := range targets.ToSpans() {
		out, ok, err := AtSpan(temp, sp)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		switch t := out.(type) {
		case temporal.Instant:
			instants = append(instants, t)
		default:
			seqs = append(seqs, flattenToSequences(out)...)
		}
	}
	if len(instants) > 0 && len(seqs) == 0 {
		seq, err := temporal.NewSequence(instants, true, true, temporal.Discrete, true)
		if err != nil {
			return nil, false, err
		}
		return seq, true, nil
	}
	return buildResult(seqs)
}

// MinusSpanSet is seq \ at(seq, span-set), computed via time-periods.
func MinusSpanSet(temp temporal.Value, targets span.SpanSet) (temporal.Value, bool, *temperr.Error) {
	atResult, ok, err := AtSpanSet(temp, targets)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return temp, true, nil
	}
	comp := span.SpanSetDifference(span.New([]span.Span{domainPeriod(temp)}), atResult.TimeSpanSet())
	return AtPeriodSet(temp, comp)
}
