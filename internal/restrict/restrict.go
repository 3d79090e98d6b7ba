// Package restrict implements the restriction engine (C6): the at/minus
// family of operations that narrow a temporal value to (at) or away
// from (minus) a target domain expressed as a base value, a value-set,
// a value-span, a value-span-set, a timestamp, a timestamp-set, a
// timestamp-span, a timestamp-span-set, or (for temporal numbers) a
// bounding box combining a value-span with a timestamp-span.
//
// Every operation returns (value, ok, err): ok=false means the
// restriction left nothing (absence), matching spec.md §4.C6's
// "Failure" rule rather than returning a zero-valued temporal.Value.
package restrict

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/segment"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// flattenToSequences and buildResult mirror internal/lift's helpers:
// every restriction that touches a sequence-set dispatches per
// component sequence and reassembles, normalizing the concatenation.
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

func buildResult(seqs []temporal.Sequence) (temporal.Value, bool, *temperr.Error) {
	if len(seqs) == 0 {
		return nil, false, nil
	}
	if len(seqs) == 1 {
		return seqs[0], true, nil
	}
	ss, err := temporal.NewSequenceSet(seqs, true)
	if err != nil {
		return nil, false, err
	}
	return ss, true, nil
}

func timestampValue(t temporal.Timestamp) value.Value {
	return value.Value{Tag: basetype.TimestampTz, Int: int64(t)}
}

// domainPeriod returns v's own time extent as a value-span, used by
// every minus-as-time-complement-of-at implementation in this package.
func domainPeriod(v temporal.Value) span.Span {
	lowerInc, upperInc := true, true
	if s, ok := v.(temporal.Sequence); ok {
		lowerInc, upperInc = s.LowerInc, s.UpperInc
	}
	if ss, ok := v.(temporal.SequenceSet); ok {
		first := ss.SequenceN(0)
		last := ss.SequenceN(ss.NumSequences() - 1)
		lowerInc, upperInc = first.LowerInc, last.UpperInc
	}
	return span.MustMake(timestampValue(v.StartTimestamp()), timestampValue(v.EndTimestamp()), lowerInc, upperInc)
}

// sequenceValueAt samples s at t, returning ok=false if t falls outside
// s's (inclusivity-aware) domain. Grounded on
// internal/lift/binary_temporal.go's sequenceValueAt.
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
