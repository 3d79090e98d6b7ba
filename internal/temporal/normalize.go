package temporal

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/value"
)

// NormalizeSequence collapses redundant samples per spec.md §4.C3:
// colinear interior points under linear interpolation, repeated
// interior values under step (excluding the terminal repeat required
// by I5), and consecutive duplicate timestamps under discrete. The
// result satisfies I7 and Normalize(Normalize(x)) == Normalize(x) (P1).
func NormalizeSequence(s Sequence) Sequence {
	if len(s.Instants) < 2 {
		return s
	}
	switch s.Interp {
	case Discrete:
		return normalizeDiscreteSeq(s)
	case Step:
		return normalizeStepSeq(s)
	case Linear:
		return normalizeLinearSeq(s)
	default:
		return s
	}
}

func normalizeDiscreteSeq(s Sequence) Sequence {
	out := make([]Instant, 0, len(s.Instants))
	for _, inst := range s.Instants {
		if len(out) > 0 && out[len(out)-1].T == inst.T {
			continue
		}
		out = append(out, inst)
	}
	s.Instants = out
	return s
}

func normalizeStepSeq(s Sequence) Sequence {
	out := make([]Instant, 0, len(s.Instants))
	out = append(out, s.Instants[0])
	n := len(s.Instants)
	for i := 1; i < n; i++ {
		cur := s.Instants[i]
		// The terminal instant of a step sequence closes its period and,
		// with exclusive upper bound, restates the held value (I5): never
		// drop it.
		isTerminalRepeat := i == n-1
		if !isTerminalRepeat && value.Equal(out[len(out)-1].Val, cur.Val) {
			// b (= out's last) would be dropped from a,b,c if value(a)=value(b);
			// here we fold b into a by simply not re-appending the repeat,
			// keeping a's timestamp as the start of the held run.
			continue
		}
		out = append(out, cur)
	}
	s.Instants = out
	return s
}

func normalizeLinearSeq(s Sequence) Sequence {
	out := make([]Instant, 0, len(s.Instants))
	out = append(out, s.Instants[0])
	n := len(s.Instants)
	for i := 1; i < n-1; i++ {
		a, b, c := out[len(out)-1], s.Instants[i], s.Instants[i+1]
		if colinear(a, b, c) {
			continue // drop b: redundant, same slope a->b->c
		}
		out = append(out, b)
	}
	out = append(out, s.Instants[n-1])
	s.Instants = out
	return s
}

func colinear(a, b, c Instant) bool {
	if !basetype.IsNumber(a.Val.Tag) {
		return false
	}
	dtAB := float64(b.T - a.T)
	dtBC := float64(c.T - b.T)
	if dtAB == 0 || dtBC == 0 {
		return false
	}
	slopeAB := (b.Val.Number() - a.Val.Number()) / dtAB
	slopeBC := (c.Val.Number() - b.Val.Number()) / dtBC
	return slopeAB == slopeBC
}

// Joinable reports whether two adjacent sequences can be merged into
// one without changing continuity (spec.md §4.C3's sequence-set merge
// rule): their shared endpoint must agree in value, and the bound
// shape must be exactly (x, x] followed by [x, y) — i.e. exactly one
// side open at the shared instant, the other closed.
func Joinable(a, b Sequence) bool {
	if a.Interp != b.Interp {
		return false
	}
	if a.EndTimestamp() != b.StartTimestamp() {
		return false
	}
	if a.UpperInc == b.LowerInc {
		return false
	}
	aLast := a.Instants[len(a.Instants)-1]
	bFirst := b.Instants[0]
	return value.Equal(aLast.Val, bFirst.Val)
}

// Join merges two joinable sequences into one, demoting the repeated
// shared instant per I5 where the result is a step sequence.
func Join(a, b Sequence) Sequence {
	instants := make([]Instant, 0, len(a.Instants)+len(b.Instants)-1)
	instants = append(instants, a.Instants...)
	instants = append(instants, b.Instants[1:]...)
	return MustNewSequence(instants, a.LowerInc, b.UpperInc, a.Interp, true)
}

// NormalizeSequenceSet joins any adjacent joinable sequences of an
// already time-sorted set, so the result satisfies I9-I11.
func NormalizeSequenceSet(ss SequenceSet) SequenceSet {
	if len(ss.Sequences) < 2 {
		return ss
	}
	out := make([]Sequence, 0, len(ss.Sequences))
	cur := ss.Sequences[0]
	for i := 1; i < len(ss.Sequences); i++ {
		next := ss.Sequences[i]
		if Joinable(cur, next) {
			cur = Join(cur, next)
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	ss.Sequences = out
	return ss
}
