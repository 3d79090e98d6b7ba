package lift

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// Ever reports whether f(temp, base) holds at any instant, short
// circuiting on the first segment where it does. For comparisons this
// uses the exact crossing test rather than resampling the midpoint, to
// avoid floating-point round-off (spec.md's Ever/Always note).
func Ever(f Func, temp temporal.Value, base value.Value) (bool, *temperr.Error) {
	return everAlways(f, temp, base, true)
}

// Always reports whether f(temp, base) holds at every instant, short
// circuiting false on the first segment where it does not.
func Always(f Func, temp temporal.Value, base value.Value) (bool, *temperr.Error) {
	return everAlways(f, temp, base, false)
}

func everAlways(f Func, temp temporal.Value, base value.Value, ever bool) (bool, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		h := holds(f, v.Val, base)
		return h, nil
	case temporal.Sequence:
		return everAlwaysSequence(f, v, base, ever)
	case temporal.SequenceSet:
		for i := 0; i < v.NumSequences(); i++ {
			h, err := everAlwaysSequence(f, v.SequenceN(i), base, ever)
			if err != nil {
				return false, err
			}
			if ever && h {
				return true, nil
			}
			if !ever && !h {
				return false, nil
			}
		}
		return !ever, nil
	default:
		return false, temperr.New(temperr.Internal, "lift.everAlways: unreachable subtype")
	}
}

func holds(f Func, a, b value.Value) bool {
	r := f.applyBinary(a, b)
	return r.Tag == basetype.Bool && r.Bool
}

func everAlwaysSequence(f Func, s temporal.Sequence, base value.Value, ever bool) (bool, *temperr.Error) {
	for i := 0; i < s.NumInstants(); i++ {
		h := holds(f, s.InstantN(i).Val, base)
		if ever && h {
			return true, nil
		}
		if !ever && !h {
			return false, nil
		}
	}
	if s.Interp != temporal.Linear || !f.IsDiscontinuous {
		return !ever, nil
	}
	// For linear segments, a comparison can flip strictly between two
	// instants with both endpoints on the same side; check via the
	// exact crossing test so ever/always doesn't miss a transient hold.
	for i := 0; i < s.NumInstants()-1; i++ {
		a, b := s.InstantN(i), s.InstantN(i+1)
		_, _, ok := findCrossing(f, a, b, base)
		if ok {
			// a crossing exists strictly inside the segment: the result
			// changes there, so ever holds and always does not.
			return ever, nil
		}
	}
	return !ever, nil
}
