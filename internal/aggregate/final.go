package aggregate

import (
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// Final materializes the accumulator. Discrete accumulators produce
// one instant per distinct timestamp spliced in, with KindAvg's
// (sum,count) tuple divided out to a plain number (tinstant_tagg).
// Step/Linear accumulators return the continuous accumulator's
// already-synchronized pieces directly (tsequence_tagg) — Final does
// no further resynchronization there, since Splice already resolved
// every overlap through C5's lifting engine.
func (sl *SkipList) Final() (temporal.Value, bool, *temperr.Error) {
	if sl.interp != temporal.Discrete {
		return finalContinuous(&sl.cont)
	}
	if sl.count == 0 {
		return nil, false, nil
	}
	instants := make([]temporal.Instant, 0, sl.count)
	for n := sl.head.forward[0]; n != nil; n = n.forward[0] {
		instants = append(instants, temporal.NewInstant(finalValue(sl.kind, n.state), n.t))
	}
	seq, err := temporal.NewSequence(instants, true, true, temporal.Discrete, true)
	if err != nil {
		return nil, false, err
	}
	return seq, true, nil
}

func finalValue(kind Kind, state value.Value) value.Value {
	if kind == KindAvg {
		return value.Float8(state.D2[0] / state.D2[1])
	}
	return state
}

// AppendAggregate feeds temp into an existing accumulator in place,
// the C9 analogue of modify.AppendInstant/AppendSequence's in-place
// growth for aggregation: callers keep one SkipList per aggregation
// group and push new pieces into it as they arrive.
func AppendAggregate(sl *SkipList, temp temporal.Value) *temperr.Error {
	return sl.Splice(temp)
}
