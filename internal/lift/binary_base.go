package lift

import (
	"github.com/meosgo/meos/internal/segment"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// BinaryBase lifts f over temp, holding the second argument fixed at
// base (spec.md §4.C5's "binary temporal-vs-base").
func BinaryBase(f Func, temp temporal.Value, base value.Value) (temporal.Value, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		return temporal.NewInstant(f.applyBinary(v.Val, base), v.T), nil
	case temporal.Sequence:
		if v.Interp == temporal.Discrete {
			return discreteBinaryBase(f, v, base)
		}
		if v.Interp == temporal.Step || !f.IsDiscontinuous {
			return stepOrTurningPointBinaryBase(f, v, base)
		}
		return discontinuousBinaryBase(f, v, base)
	case temporal.SequenceSet:
		var seqs []temporal.Sequence
		for i := 0; i < v.NumSequences(); i++ {
			out, err := BinaryBase(f, v.SequenceN(i), base)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, flattenToSequences(out)...)
		}
		return buildResult(seqs)
	default:
		return nil, temperr.New(temperr.Internal, "lift.BinaryBase: unreachable subtype")
	}
}

func flattenToSequences(v temporal.Value) []temporal.Sequence {
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

func buildResult(seqs []temporal.Sequence) (temporal.Value, *temperr.Error) {
	if len(seqs) == 0 {
		return nil, temperr.New(temperr.Internal, "lift: empty result")
	}
	if len(seqs) == 1 {
		return seqs[0], nil
	}
	ss, err := temporal.NewSequenceSet(seqs, true)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

func discreteBinaryBase(f Func, s temporal.Sequence, base value.Value) (temporal.Value, *temperr.Error) {
	instants := make([]temporal.Instant, s.NumInstants())
	for i := 0; i < s.NumInstants(); i++ {
		inst := s.InstantN(i)
		instants[i] = temporal.NewInstant(f.applyBinary(inst.Val, base), inst.T)
	}
	return temporal.NewSequence(instants, s.LowerInc, s.UpperInc, temporal.Discrete, true)
}

// stepOrTurningPointBinaryBase handles: step sequences (apply f to
// each instant, result is step), and linear non-discontinuous f with
// or without a turning-point computer.
func stepOrTurningPointBinaryBase(f Func, s temporal.Sequence, base value.Value) (temporal.Value, *temperr.Error) {
	n := s.NumInstants()
	instants := make([]temporal.Instant, 0, n*2)
	for i := 0; i < n; i++ {
		inst := s.InstantN(i)
		instants = append(instants, temporal.NewInstant(f.applyBinary(inst.Val, base), inst.T))
		if s.Interp == temporal.Linear && i < n-1 && f.TPFuncBase != nil {
			a, b := s.InstantN(i), s.InstantN(i+1)
			s1 := segment.Sample{Val: a.Val, T: a.T}
			s2 := segment.Sample{Val: b.Val, T: b.T}
			if tpT, tpV, ok := f.TPFuncBase(s1, s2, base); ok && tpT > a.T && tpT < b.T {
				instants = append(instants, temporal.NewInstant(tpV, tpT))
			}
		}
	}
	interp := temporal.Step
	if s.Interp == temporal.Linear {
		interp = resultInterp(f, s.Interp)
	}
	return temporal.NewSequence(instants, s.LowerInc, s.UpperInc, interp, true)
}

// discontinuousBinaryBase implements spec.md §4.C5's linear,
// discontinuous-f case: the result is a sequence-set built by walking
// each segment and splitting at value crossings.
func discontinuousBinaryBase(f Func, s temporal.Sequence, base value.Value) (temporal.Value, *temperr.Error) {
	n := s.NumInstants()
	var seqs []temporal.Sequence
	var curInstants []temporal.Instant
	curLowerInc := s.LowerInc

	flush := func(upperInc bool) *temperr.Error {
		if len(curInstants) == 0 {
			return nil
		}
		seq, err := temporal.NewSequence(curInstants, curLowerInc, upperInc, temporal.Step, true)
		if err != nil {
			return err
		}
		seqs = append(seqs, seq)
		curInstants = nil
		return nil
	}

	for i := 0; i < n-1; i++ {
		a, b := s.InstantN(i), s.InstantN(i+1)
		ra := f.applyBinary(a.Val, base)
		if len(curInstants) == 0 {
			curInstants = append(curInstants, temporal.NewInstant(ra, a.T))
		}
		mid := segment.ValueAt(segment.Sample{Val: a.Val, T: a.T}, segment.Sample{Val: b.Val, T: b.T}, temporal.Linear, a.T+(b.T-a.T)/2)
		rMid := f.applyBinary(mid, base)
		if value.Equal(rMid, ra) {
			// no crossing in this segment; extend through to b under the
			// constant result ra, unless b itself changes the result.
			rb := f.applyBinary(b.Val, base)
			if value.Equal(rb, ra) {
				curInstants = append(curInstants, temporal.NewInstant(ra, b.T))
				continue
			}
			// the crossing sits exactly at b: close here exclusive, open a
			// fresh run from b under rb.
			curInstants = append(curInstants, temporal.NewInstant(ra, b.T))
			if err := flush(false); err != nil {
				return nil, err
			}
			curLowerInc = true
			curInstants = append(curInstants, temporal.NewInstant(rb, b.T))
			continue
		}
		// find the crossing timestamp using the comparison fast path
		// (exact, avoids floating round-off per spec.md's Ever/Always
		// note) or the segment's generic crossing search otherwise.
		crossT, crossVal, ok := findCrossing(f, a, b, base)
		if !ok {
			// no closed-form crossing available; fall back to treating the
			// midpoint result as exact and closing there.
			crossT = a.T + (b.T-a.T)/2
			crossVal = rMid
		}
		curInstants = append(curInstants, temporal.NewInstant(ra, crossT))
		if err := flush(false); err != nil {
			return nil, err
		}
		rb := f.applyBinary(b.Val, base)
		curLowerInc = true
		curInstants = append(curInstants, temporal.NewInstant(rb, crossT))
		if b.T != crossT {
			curInstants = append(curInstants, temporal.NewInstant(rb, b.T))
		}
		_ = crossVal
	}
	if err := flush(s.UpperInc); err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		inst := s.InstantN(n - 1)
		single, err := temporal.NewSequence([]temporal.Instant{temporal.NewInstant(f.applyBinary(inst.Val, base), inst.T)}, true, true, temporal.Step, true)
		if err != nil {
			return nil, err
		}
		return single, nil
	}
	return buildResult(seqs)
}

// findCrossing locates the timestamp within (a.T, b.T) at which f's
// result changes, using the exact linear-segment-meets-value solver
// when f is a registered comparison against a numeric threshold
// (base), and reporting not-ok otherwise so the caller falls back to
// a coarser estimate.
func findCrossing(f Func, a, b temporal.Instant, base value.Value) (temporal.Timestamp, value.Value, bool) {
	if f.Comparison == NotComparison {
		return 0, value.Value{}, false
	}
	s1 := segment.Sample{Val: a.Val, T: a.T}
	s2 := segment.Sample{Val: b.Val, T: b.T}
	t, v, ok := segment.LinearSegmentMeetsValue(s1, s2, base)
	if !ok {
		return 0, value.Value{}, false
	}
	return t, v, true
}
