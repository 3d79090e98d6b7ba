package lift

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/segment"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// BinaryTemporal lifts f over two temporal values, synchronizing on
// their overlapping time domain (spec.md §4.C5's "binary
// temporal-vs-temporal"). Returns ok=false (absence) if the two
// values' bounding periods do not overlap.
func BinaryTemporal(f Func, a, b temporal.Value) (temporal.Value, bool, *temperr.Error) {
	pa, pb := periodOf(a), periodOf(b)
	if !span.Overlaps(pa, pb) {
		return nil, false, nil
	}

	switch av := a.(type) {
	case temporal.Instant:
		return binaryInstantOther(f, av, b, false)
	case temporal.Sequence:
		switch bv := b.(type) {
		case temporal.Instant:
			return binaryInstantOther(f, bv, a, true)
		case temporal.Sequence:
			return binarySequenceSequence(f, av, bv)
		case temporal.SequenceSet:
			return binarySequenceSeqSet(f, av, bv, false)
		}
	case temporal.SequenceSet:
		switch bv := b.(type) {
		case temporal.Instant:
			return binaryInstantOther(f, bv, a, true)
		case temporal.Sequence:
			return binarySequenceSeqSet(f, bv, av, true)
		case temporal.SequenceSet:
			return binarySeqSetSeqSet(f, av, bv)
		}
	}
	return nil, false, temperr.New(temperr.Internal, "lift.BinaryTemporal: unreachable subtype pair")
}

func periodOf(v temporal.Value) span.Span {
	tsv := func(t temporal.Timestamp) value.Value { return value.Value{Tag: basetype.TimestampTz, Int: int64(t)} }
	lowerInc, upperInc := true, true
	if s, ok := v.(temporal.Sequence); ok {
		lowerInc, upperInc = s.LowerInc, s.UpperInc
	}
	if ss, ok := v.(temporal.SequenceSet); ok {
		first := ss.SequenceN(0)
		last := ss.SequenceN(ss.NumSequences() - 1)
		lowerInc, upperInc = first.LowerInc, last.UpperInc
	}
	return span.MustMake(tsv(v.StartTimestamp()), tsv(v.EndTimestamp()), lowerInc, upperInc)
}

// valueAt samples v (discrete/continuous sequence or instant) at t,
// returning ok=false if t is not in the value's domain.
func valueAt(v temporal.Value, t temporal.Timestamp) (value.Value, bool) {
	switch tv := v.(type) {
	case temporal.Instant:
		if tv.T == t {
			return tv.Val, true
		}
		return value.Value{}, false
	case temporal.Sequence:
		return sequenceValueAt(tv, t)
	case temporal.SequenceSet:
		for i := 0; i < tv.NumSequences(); i++ {
			if val, ok := sequenceValueAt(tv.SequenceN(i), t); ok {
				return val, true
			}
		}
		return value.Value{}, false
	}
	return value.Value{}, false
}

func sequenceValueAt(s temporal.Sequence, t temporal.Timestamp) (value.Value, bool) {
	if t < s.StartTimestamp() || t > s.EndTimestamp() {
		return value.Value{}, false
	}
	if t == s.StartTimestamp() && !s.LowerInc {
		return value.Value{}, false
	}
	if t == s.EndTimestamp() && !s.UpperInc {
		return value.Value{}, false
	}
	if s.Interp == temporal.Discrete {
		for i := 0; i < s.NumInstants(); i++ {
			if s.InstantN(i).T == t {
				return s.InstantN(i).Val, true
			}
		}
		return value.Value{}, false
	}
	for i := 0; i < s.NumInstants()-1; i++ {
		a, b := s.InstantN(i), s.InstantN(i+1)
		if t >= a.T && t <= b.T {
			return segment.ValueAt(segment.Sample{Val: a.Val, T: a.T}, segment.Sample{Val: b.Val, T: b.T}, s.Interp, t), true
		}
	}
	last := s.InstantN(s.NumInstants() - 1)
	if t == last.T {
		return last.Val, true
	}
	return value.Value{}, false
}

func binaryInstantOther(f Func, inst temporal.Instant, other temporal.Value, instIsSecond bool) (temporal.Value, bool, *temperr.Error) {
	val, ok := valueAt(other, inst.T)
	if !ok {
		return nil, false, nil
	}
	var result value.Value
	if instIsSecond {
		result = f.applyBinary(val, inst.Val)
	} else {
		result = f.applyBinary(inst.Val, val)
	}
	return temporal.NewInstant(result, inst.T), true, nil
}

// binarySequenceSequence is the core synchronized-lift case: discrete
// x discrete (two-pointer intersection merge), discrete x continuous
// (sample continuous side at each discrete instant in range), and
// continuous x continuous (shared-timestamp synchronization, with
// turning-point insertion for non-discontinuous f and crossing
// splitting for discontinuous f).
func binarySequenceSequence(f Func, a, b temporal.Sequence) (temporal.Value, bool, *temperr.Error) {
	if a.Interp == temporal.Discrete && b.Interp == temporal.Discrete {
		return discreteDiscreteLift(f, a, b)
	}
	if a.Interp == temporal.Discrete || b.Interp == temporal.Discrete {
		disc, cont, discFirst := a, b, true
		if b.Interp == temporal.Discrete {
			disc, cont, discFirst = b, a, false
		}
		return discreteContinuousLift(f, disc, cont, discFirst)
	}
	return continuousContinuousLift(f, a, b)
}

func discreteDiscreteLift(f Func, a, b temporal.Sequence) (temporal.Value, bool, *temperr.Error) {
	var instants []temporal.Instant
	i, j := 0, 0
	for i < a.NumInstants() && j < b.NumInstants() {
		ta, tb := a.InstantN(i).T, b.InstantN(j).T
		switch {
		case ta < tb:
			i++
		case ta > tb:
			j++
		default:
			instants = append(instants, temporal.NewInstant(f.applyBinary(a.InstantN(i).Val, b.InstantN(j).Val), ta))
			i++
			j++
		}
	}
	if len(instants) == 0 {
		return nil, false, nil
	}
	seq, err := temporal.NewSequence(instants, true, true, temporal.Discrete, true)
	return seq, true, err
}

func discreteContinuousLift(f Func, disc, cont temporal.Sequence, discFirst bool) (temporal.Value, bool, *temperr.Error) {
	var instants []temporal.Instant
	for i := 0; i < disc.NumInstants(); i++ {
		inst := disc.InstantN(i)
		val, ok := sequenceValueAt(cont, inst.T)
		if !ok {
			continue
		}
		var result value.Value
		if discFirst {
			result = f.applyBinary(inst.Val, val)
		} else {
			result = f.applyBinary(val, inst.Val)
		}
		instants = append(instants, temporal.NewInstant(result, inst.T))
	}
	if len(instants) == 0 {
		return nil, false, nil
	}
	seq, err := temporal.NewSequence(instants, true, true, temporal.Discrete, true)
	return seq, true, err
}

// syncTimestamps returns the sorted union of a's and b's instant
// timestamps that lie within both sequences' overlap.
func syncTimestamps(a, b temporal.Sequence) []temporal.Timestamp {
	lo := a.StartTimestamp()
	if b.StartTimestamp() > lo {
		lo = b.StartTimestamp()
	}
	hi := a.EndTimestamp()
	if b.EndTimestamp() < hi {
		hi = b.EndTimestamp()
	}
	seen := map[temporal.Timestamp]bool{}
	var out []temporal.Timestamp
	add := func(t temporal.Timestamp) {
		if t >= lo && t <= hi && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for i := 0; i < a.NumInstants(); i++ {
		add(a.InstantN(i).T)
	}
	for i := 0; i < b.NumInstants(); i++ {
		add(b.InstantN(i).T)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func continuousContinuousLift(f Func, a, b temporal.Sequence) (temporal.Value, bool, *temperr.Error) {
	times := syncTimestamps(a, b)
	if len(times) == 0 {
		return nil, false, nil
	}
	mixed := a.Interp != b.Interp
	if mixed || !f.IsDiscontinuous {
		return syncedLiftWithTurningPoints(f, a, b, times, mixed)
	}
	return syncedDiscontinuousLift(f, a, b, times)
}

func syncedLiftWithTurningPoints(f Func, a, b temporal.Sequence, times []temporal.Timestamp, mixed bool) (temporal.Value, bool, *temperr.Error) {
	var instants []temporal.Instant
	for i, t := range times {
		va, _ := sequenceValueAt(a, t)
		vb, _ := sequenceValueAt(b, t)
		instants = append(instants, temporal.NewInstant(f.applyBinary(va, vb), t))
		if i < len(times)-1 && f.TPFunc != nil && !mixed {
			t2 := times[i+1]
			va2, _ := sequenceValueAt(a, t2)
			vb2, _ := sequenceValueAt(b, t2)
			s1 := segment.Sample{Val: va, T: t}
			s2 := segment.Sample{Val: va2, T: t2}
			r1 := segment.Sample{Val: vb, T: t}
			r2 := segment.Sample{Val: vb2, T: t2}
			if tpT, tpV, ok := f.TPFunc(s1, s2, r1, r2); ok && tpT > t && tpT < t2 {
				instants = append(instants, temporal.NewInstant(tpV, tpT))
			}
		}
	}
	interp := temporal.Step
	if f.ResultLinear && !mixed {
		interp = temporal.Linear
	}
	seq, err := temporal.NewSequence(instants, true, true, interp, true)
	return seq, true, err
}

// syncedDiscontinuousLift splits at value crossings between each
// synchronized pair, the temporal-vs-temporal analogue of
// discontinuousBinaryBase.
func syncedDiscontinuousLift(f Func, a, b temporal.Sequence, times []temporal.Timestamp) (temporal.Value, bool, *temperr.Error) {
	var seqs []temporal.Sequence
	var cur []temporal.Instant
	curLowerInc := true

	flush := func(upperInc bool) *temperr.Error {
		if len(cur) == 0 {
			return nil
		}
		seq, err := temporal.NewSequence(cur, curLowerInc, upperInc, temporal.Step, true)
		if err != nil {
			return err
		}
		seqs = append(seqs, seq)
		cur = nil
		return nil
	}

	for i := 0; i < len(times)-1; i++ {
		t1, t2 := times[i], times[i+1]
		va1, _ := sequenceValueAt(a, t1)
		vb1, _ := sequenceValueAt(b, t1)
		r1 := f.applyBinary(va1, vb1)
		if len(cur) == 0 {
			cur = append(cur, temporal.NewInstant(r1, t1))
		}
		tmid := t1 + (t2-t1)/2
		vaMid, _ := sequenceValueAt(a, tmid)
		vbMid, _ := sequenceValueAt(b, tmid)
		rMid := f.applyBinary(vaMid, vbMid)
		if value.Equal(rMid, r1) {
			va2, _ := sequenceValueAt(a, t2)
			vb2, _ := sequenceValueAt(b, t2)
			r2 := f.applyBinary(va2, vb2)
			if value.Equal(r2, r1) {
				cur = append(cur, temporal.NewInstant(r1, t2))
				continue
			}
			if err := flush(false); err != nil {
				return nil, false, err
			}
			curLowerInc = true
			cur = append(cur, temporal.NewInstant(r2, t2))
			continue
		}
		crossT := tmid
		cur = append(cur, temporal.NewInstant(r1, crossT))
		if err := flush(false); err != nil {
			return nil, false, err
		}
		va2, _ := sequenceValueAt(a, t2)
		vb2, _ := sequenceValueAt(b, t2)
		r2 := f.applyBinary(va2, vb2)
		curLowerInc = true
		cur = append(cur, temporal.NewInstant(r2, t2))
	}
	if err := flush(true); err != nil {
		return nil, false, err
	}
	if len(seqs) == 0 {
		return nil, false, nil
	}
	out, err := buildResult(seqs)
	return out, true, err
}

func binarySequenceSeqSet(f Func, seq temporal.Sequence, ss temporal.SequenceSet, seqIsSecond bool) (temporal.Value, bool, *temperr.Error) {
	var parts []temporal.Sequence
	for i := 0; i < ss.NumSequences(); i++ {
		var out temporal.Value
		var ok bool
		var err *temperr.Error
		if seqIsSecond {
			out, ok, err = binarySequenceSequence(f, ss.SequenceN(i), seq)
		} else {
			out, ok, err = binarySequenceSequence(f, seq, ss.SequenceN(i))
		}
		if err != nil {
			return nil, false, err
		}
		if ok {
			parts = append(parts, flattenToSequences(out)...)
		}
	}
	if len(parts) == 0 {
		return nil, false, nil
	}
	out, err := buildResult(parts)
	return out, true, err
}

func binarySeqSetSeqSet(f Func, a, b temporal.SequenceSet) (temporal.Value, bool, *temperr.Error) {
	var parts []temporal.Sequence
	for i := 0; i < a.NumSequences(); i++ {
		for j := 0; j < b.NumSequences(); j++ {
			if !span.Overlaps(a.SequenceN(i).Period(), b.SequenceN(j).Period()) {
				continue
			}
			out, ok, err := binarySequenceSequence(f, a.SequenceN(i), b.SequenceN(j))
			if err != nil {
				return nil, false, err
			}
			if ok {
				parts = append(parts, flattenToSequences(out)...)
			}
		}
	}
	if len(parts) == 0 {
		return nil, false, nil
	}
	out, err := buildResult(parts)
	return out, true, err
}
