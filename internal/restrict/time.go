package restrict

import (
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// AtTimestamp samples temp at t, returning ok=false if t is outside
// temp's domain.
func AtTimestamp(temp temporal.Value, t temporal.Timestamp) (temporal.Value, bool, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		if v.T == t {
			return v, true, nil
		}
		return nil, false, nil
	case temporal.Sequence:
		val, ok := sequenceValueAt(v, t)
		if !ok {
			return nil, false, nil
		}
		return temporal.NewInstant(val, t), true, nil
	case temporal.SequenceSet:
		for i := 0; i < v.NumSequences(); i++ {
			if val, ok := sequenceValueAt(v.SequenceN(i), t); ok {
				return temporal.NewInstant(val, t), true, nil
			}
		}
		return nil, false, nil
	default:
		return nil, false, temperr.New(temperr.Internal, "restrict.AtTimestamp: unreachable subtype")
	}
}

// MinusTimestamp splits around t into at most two sub-sequences,
// inserting a synthetic instant at t under linear, or relying on the
// step-held value under step (spec.md §4.C6).
func MinusTimestamp(temp temporal.Value, t temporal.Timestamp) (temporal.Value, bool, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		if v.T == t {
			return nil, false, nil
		}
		return v, true, nil
	case temporal.Sequence:
		return minusTimestampSequence(v, t)
	case temporal.SequenceSet:
		var seqs []temporal.Sequence
		for i := 0; i < v.NumSequences(); i++ {
			out, ok, err := minusTimestampSequence(v.SequenceN(i), t)
			if err != nil {
				return nil, false, err
			}
			if ok {
				seqs = append(seqs, flattenToSequences(out)...)
			}
		}
		return buildResult(seqs)
	default:
		return nil, false, temperr.New(temperr.Internal, "restrict.MinusTimestamp: unreachable subtype")
	}
}

func minusTimestampSequence(s temporal.Sequence, t temporal.Timestamp) (temporal.Value, bool, *temperr.Error) {
	if t < s.StartTimestamp() || t > s.EndTimestamp() {
		return s, true, nil
	}
	if (t == s.StartTimestamp() && !s.LowerInc) || (t == s.EndTimestamp() && !s.UpperInc) {
		return s, true, nil
	}
	var seqs []temporal.Sequence
	if before, perr := span.Make(timestampValue(s.StartTimestamp()), timestampValue(t), s.LowerInc, false); perr == nil {
		if out, ok, cerr := cropToPeriod(s, before); cerr != nil {
			return nil, false, cerr
		} else if ok {
			seqs = append(seqs, flattenToSequences(out)...)
		}
	}
	if after, perr := span.Make(timestampValue(t), timestampValue(s.EndTimestamp()), false, s.UpperInc); perr == nil {
		if out, ok, cerr := cropToPeriod(s, after); cerr != nil {
			return nil, false, cerr
		} else if ok {
			seqs = append(seqs, flattenToSequences(out)...)
		}
	}
	return buildResult(seqs)
}

// AtTimestampSet interleave-merges temp's instants with ts, producing a
// discrete sequence of the surviving samples (spec.md §4.C6).
func AtTimestampSet(temp temporal.Value, ts temporal.TimestampSet) (temporal.Value, bool, *temperr.Error) {
	var instants []temporal.Instant
	for _, t := range ts.Timestamps() {
		out, ok, err := AtTimestamp(temp, t)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		instants = append(instants, out.(temporal.Instant))
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

// MinusTimestampSet is seq \ at(seq, set), computed by subtracting each
// timestamp in turn.
func MinusTimestampSet(temp temporal.Value, ts temporal.TimestampSet) (temporal.Value, bool, *temperr.Error) {
	cur := temp
	for _, t := range ts.Timestamps() {
		out, ok, err := MinusTimestamp(cur, t)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		cur = out
	}
	return cur, true, nil
}

// AtPeriod crops temp to period, evaluating endpoints per spec.md
// §4.C6's "Sequence vs timestamp-span" rule.
func AtPeriod(temp temporal.Value, period span.Span) (temporal.Value, bool, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		if span.Contains(period, timestampValue(v.T)) {
			return v, true, nil
		}
		return nil, false, nil
	case temporal.Sequence:
		return cropToPeriod(v, period)
	case temporal.SequenceSet:
		var seqs []temporal.Sequence
		for i := 0; i < v.NumSequences(); i++ {
			out, ok, err := cropToPeriod(v.SequenceN(i), period)
			if err != nil {
				return nil, false, err
			}
			if ok {
				seqs = append(seqs, flattenToSequences(out)...)
			}
		}
		return buildResult(seqs)
	default:
		return nil, false, temperr.New(temperr.Internal, "restrict.AtPeriod: unreachable subtype")
	}
}

// MinusPeriod is the time-complement of AtPeriod within temp's domain.
func MinusPeriod(temp temporal.Value, period span.Span) (temporal.Value, bool, *temperr.Error) {
	comp := span.Difference(domainPeriod(temp), period)
	return AtPeriodSet(temp, comp)
}

// AtPeriodSet iterates ps's spans and concatenates the surviving
// fragments (spec.md §4.C6's "Sequence-set vs X" dispatch rule).
func AtPeriodSet(temp temporal.Value, ps span.SpanSet) (temporal.Value, bool, *temperr.Error) {
	var seqs []temporal.Sequence
	for _, sp := range ps.ToSpans() {
		out, ok, err := AtPeriod(temp, sp)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		if inst, isInst := out.(temporal.Instant); isInst {
			return inst, true, nil
		}
		seqs = append(seqs, flattenToSequences(out)...)
	}
	return buildResult(seqs)
}

// MinusPeriodSet computes the complement span-set first, then takes
// at, per spec.md §4.C6's explicit rule for this case.
func MinusPeriodSet(temp temporal.Value, ps span.SpanSet) (temporal.Value, bool, *temperr.Error) {
	comp := span.SpanSetDifference(span.New([]span.Span{domainPeriod(temp)}), ps)
	return AtPeriodSet(temp, comp)
}

// cropToPeriod crops s's time domain to period, evaluating the
// sequence at the span boundaries: bounds of the result inherit
// period's inclusivity, combined with s's own per I1-I6, and a
// step-interpolated, exclusive-upper result restates the preceding
// held value (I5).
func cropToPeriod(s temporal.Sequence, period span.Span) (temporal.Value, bool, *temperr.Error) {
	inter, ok := span.Intersection(s.Period(), period)
	if !ok {
		return nil, false, nil
	}
	lowerT := temporal.Timestamp(inter.Lower.Int)
	upperT := temporal.Timestamp(inter.Upper.Int)
	lowerInc, upperInc := inter.LowerInc, inter.UpperInc

	if s.Interp == temporal.Discrete {
		var instants []temporal.Instant
		for i := 0; i < s.NumInstants(); i++ {
			it := s.InstantN(i)
			if span.Contains(inter, timestampValue(it.T)) {
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

	if lowerT == upperT {
		v, ok := sequenceValueAt(s, lowerT)
		if !ok {
			return nil, false, nil
		}
		seq, err := temporal.NewSequence([]temporal.Instant{temporal.NewInstant(v, lowerT)}, true, true, s.Interp, true)
		if err != nil {
			return nil, false, err
		}
		return seq, true, nil
	}

	lowerVal, ok := sequenceValueAt(s, lowerT)
	if !ok {
		return nil, false, nil
	}
	upperVal, ok := valueApproaching(s, upperT, upperInc)
	if !ok {
		return nil, false, nil
	}
	instants := []temporal.Instant{temporal.NewInstant(lowerVal, lowerT)}
	for i := 0; i < s.NumInstants(); i++ {
		it := s.InstantN(i)
		if it.T > lowerT && it.T < upperT {
			instants = append(instants, it)
		}
	}
	instants = append(instants, temporal.NewInstant(upperVal, upperT))

	seq, err := temporal.NewSequence(instants, lowerInc, upperInc, s.Interp, true)
	if err != nil {
		return nil, false, err
	}
	return seq, true, nil
}

// valueApproaching samples s at t: under step with an exclusive
// boundary it returns the still-held value from before t (I5) rather
// than the value the next instant introduces exactly at t.
func valueApproaching(s temporal.Sequence, t temporal.Timestamp, inclusive bool) (value.Value, bool) {
	if s.Interp == temporal.Step && !inclusive {
		for i := s.NumInstants() - 1; i >= 0; i-- {
			if s.InstantN(i).T < t {
				return s.InstantN(i).Val, true
			}
		}
		return value.Value{}, false
	}
	return sequenceValueAt(s, t)
}
