package restrict

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/lift"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// equalFunc is the lifted equality predicate whose true/false runs
// drive value restriction of step sequences and of linear sequences
// over non-numeric base types.
var equalFunc = lift.Func{
	Name:            "eq",
	Arity:           lift.BinaryBase,
	BinaryFn:        func(a, b value.Value) value.Value { return value.Bool(value.Equal(a, b)) },
	IsDiscontinuous: true,
	Comparison:      lift.CmpEQ,
}

// AtValue keeps only the sub-periods where temp equals target.
func AtValue(temp temporal.Value, target value.Value) (temporal.Value, bool, *temperr.Error) {
	return restrictValue(temp, target, true)
}

// MinusValue drops the sub-periods where temp equals target.
func MinusValue(temp temporal.Value, target value.Value) (temporal.Value, bool, *temperr.Error) {
	return restrictValue(temp, target, false)
}

func restrictValue(temp temporal.Value, target value.Value, atMode bool) (temporal.Value, bool, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		if value.Equal(v.Val, target) == atMode {
			return v, true, nil
		}
		return nil, false, nil
	case temporal.Sequence:
		return restrictValueSequence(v, target, atMode)
	case temporal.SequenceSet:
		var seqs []temporal.Sequence
		for i := 0; i < v.NumSequences(); i++ {
			out, ok, err := restrictValueSequence(v.SequenceN(i), target, atMode)
			if err != nil {
				return nil, false, err
			}
			if ok {
				seqs = append(seqs, flattenToSequences(out)...)
			}
		}
		return buildResult(seqs)
	default:
		return nil, false, temperr.New(temperr.Internal, "restrict.restrictValue: unreachable subtype")
	}
}

// restrictValueSequence handles the discrete case (plain filter), the
// linear numeric case (value-span restriction to the degenerate span
// [target, target], so at yields a singleton at each crossing and minus
// opens/closes there), and the remaining step/linear cases, which lift
// an equality predicate and crop the original sequence to the
// resulting true/false runs (spec.md §4.C6's "Continuous sequence vs
// value" rule).
func restrictValueSequence(s temporal.Sequence, target value.Value, atMode bool) (temporal.Value, bool, *temperr.Error) {
	if s.Interp == temporal.Discrete {
		var instants []temporal.Instant
		for i := 0; i < s.NumInstants(); i++ {
			it := s.InstantN(i)
			if value.Equal(it.Val, target) == atMode {
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
	if s.Interp == temporal.Linear && basetype.IsNumber(target.Tag) {
		point := span.Span{Lower: target, Upper: target, LowerInc: true, UpperInc: true, Base: target.Tag}
		return restrictSpanSequence(s, point, atMode)
	}

	eqResult, err := lift.BinaryBase(equalFunc, s, target)
	if err != nil {
		return nil, false, err
	}
	periods := periodsWhere(eqResult, atMode)
	if len(periods) == 0 {
		return nil, false, nil
	}
	var seqs []temporal.Sequence
	for _, p := range periods {
		out, ok, cerr := cropToPeriod(s, p)
		if cerr != nil {
			return nil, false, cerr
		}
		if ok {
			seqs = append(seqs, flattenToSequences(out)...)
		}
	}
	return buildResult(seqs)
}

// periodsWhere extracts the maximal time periods over which a boolean
// temporal.Value (produced by a lifted comparison) holds want, whether
// the value arrived as one step sequence with alternating instants or
// an already-split sequence-set of homogeneous runs.
func periodsWhere(v temporal.Value, want bool) []span.Span {
	switch t := v.(type) {
	case temporal.Instant:
		if t.Val.Bool == want {
			return []span.Span{span.MustMake(timestampValue(t.T), timestampValue(t.T), true, true)}
		}
		return nil
	case temporal.Sequence:
		return periodsInStepSequence(t, want)
	case temporal.SequenceSet:
		var out []span.Span
		for i := 0; i < t.NumSequences(); i++ {
			out = append(out, periodsInStepSequence(t.SequenceN(i), want)...)
		}
		return out
	default:
		return nil
	}
}

func periodsInStepSequence(s temporal.Sequence, want bool) []span.Span {
	n := s.NumInstants()
	if n == 1 {
		if s.InstantN(0).Val.Bool == want {
			return []span.Span{s.Period()}
		}
		return nil
	}
	var out []span.Span
	runStart := -1
	for i := 0; i < n; i++ {
		match := s.InstantN(i).Val.Bool == want
		if match && runStart == -1 {
			runStart = i
		}
		if !match && runStart != -1 {
			lowerInc := runStart > 0 || s.LowerInc
			out = append(out, span.MustMake(timestampValue(s.InstantN(runStart).T), timestampValue(s.InstantN(i).T), lowerInc, false))
			runStart = -1
		}
	}
	if runStart != -1 {
		lowerInc := runStart > 0 || s.LowerInc
		out = append(out, span.MustMake(timestampValue(s.InstantN(runStart).T), timestampValue(s.EndTimestamp()), lowerInc, s.UpperInc))
	}
	return out
}

// AtValueSet performs at-value for each set element and unions the
// result (spec.md §4.C6).
func AtValueSet(temp temporal.Value, set value.Set) (temporal.Value, bool, *temperr.Error) {
	var seqs []temporal.Sequence
	var instants []temporal.Instant
	for _, v := range set.Values() {
		out, ok, err := AtValue(temp, v)
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

// MinusValueSet is seq \ at(seq, set), computed via time-periods.
func MinusValueSet(temp temporal.Value, set value.Set) (temporal.Value, bool, *temperr.Error) {
	atResult, ok, err := AtValueSet(temp, set)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return temp, true, nil
	}
	comp := span.SpanSetDifference(span.New([]span.Span{domainPeriod(temp)}), atResult.TimeSpanSet())
	return AtPeriodSet(temp, comp)
}
