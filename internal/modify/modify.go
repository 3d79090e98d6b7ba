// Package modify implements the modification engine (C7): insert,
// update, delete, append-instant, append-sequence, merge, and
// merge-array, expressed largely in terms of C6's restriction engine
// and C3's join/joinable normalization rules. Grounded on
// friggdb/compactor_block.go's promote-then-concatenate shape and
// friggdb/record.go's sorted-slice discipline (sortRecords).
package modify

import (
	"sort"

	"github.com/go-kit/log/level"

	"github.com/meosgo/meos/internal/obslog"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// flattenPieces unwraps a sequence-set into its component sequences,
// leaving an instant or a bare sequence untouched.
func flattenPieces(v temporal.Value) []temporal.Value {
	if ss, ok := v.(temporal.SequenceSet); ok {
		out := make([]temporal.Value, ss.NumSequences())
		for i := range out {
			out[i] = ss.SequenceN(i)
		}
		return out
	}
	return []temporal.Value{v}
}

// toSequences promotes every piece to a Sequence (an instant becomes a
// trivial single-instant, both-inclusive sequence), the common
// subtype needed before time-ordering and gluing.
func toSequences(pieces []temporal.Value) ([]temporal.Sequence, *temperr.Error) {
	var out []temporal.Sequence
	for _, p := range pieces {
		switch v := p.(type) {
		case temporal.Instant:
			seq, err := temporal.NewSequence([]temporal.Instant{v}, true, true, temporal.Discrete, true)
			if err != nil {
				return nil, err
			}
			out = append(out, seq)
		case temporal.Sequence:
			out = append(out, v)
		case temporal.SequenceSet:
			for i := 0; i < v.NumSequences(); i++ {
				out = append(out, v.SequenceN(i))
			}
		default:
			return nil, temperr.New(temperr.Internal, "modify.toSequences: unreachable subtype")
		}
	}
	return out, nil
}

func sortSeqsByStart(seqs []temporal.Sequence) {
	sort.Slice(seqs, func(i, j int) bool { return seqs[i].StartTimestamp() < seqs[j].StartTimestamp() })
}

// checkNoOverlap rejects genuinely overlapping (not merely touching)
// time extents; a shared boundary timestamp is left for gluePass to
// validate for value agreement.
func checkNoOverlap(seqs []temporal.Sequence) *temperr.Error {
	for i := 1; i < len(seqs); i++ {
		prev, cur := seqs[i-1], seqs[i]
		if cur.StartTimestamp() < prev.EndTimestamp() {
			return temperr.New(temperr.OrderingViolation, "modify: overlapping time extents cannot be concatenated")
		}
	}
	return nil
}

// gluePass walks sorted, non-overlapping sequences and splices
// adjacent pieces that touch at a shared timestamp: always when both
// sides are inclusive there (otherwise I9 would be violated by an
// instant belonging to two sequences at once), and additionally
// whenever forceJoin requests fusing exclusive/inclusive-touching runs
// into one continuous sequence (spec.md §4.C7's connect flag).
func gluePass(seqs []temporal.Sequence, forceJoin bool) ([]temporal.Sequence, *temperr.Error) {
	if len(seqs) == 0 {
		return seqs, nil
	}
	out := make([]temporal.Sequence, 0, len(seqs))
	cur := seqs[0]
	for i := 1; i < len(seqs); i++ {
		next := seqs[i]
		if cur.EndTimestamp() == next.StartTimestamp() {
			aLast := cur.InstantN(cur.NumInstants() - 1)
			bFirst := next.InstantN(0)
			agree := value.Equal(aLast.Val, bFirst.Val)
			bothInclusive := cur.UpperInc && next.LowerInc
			if !agree && bothInclusive {
				err := temperr.New(temperr.ValueDisagreement, "modify: adjacent pieces disagree on value at a shared timestamp")
				level.Warn(obslog.Get()).Log("msg", "glue rejected mismatched boundary values", "at", next.StartTimestamp(), "kind", err.Kind)
				return nil, err
			}
			canMerge, interp := mergeInterp(cur, next)
			if agree && canMerge && (bothInclusive || forceJoin) {
				instants := make([]temporal.Instant, 0, cur.NumInstants()+next.NumInstants()-1)
				instants = append(instants, cur.Instants...)
				instants = append(instants, next.Instants[1:]...)
				merged, err := temporal.NewSequence(instants, cur.LowerInc, next.UpperInc, interp, true)
				if err != nil {
					return nil, err
				}
				cur = merged
				continue
			}
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out, nil
}

// mergeInterp reports whether two adjacent pieces can share one
// interpolation: either they already agree, or one side is a bare
// single-instant piece (a promoted Instant) that adopts the other's.
func mergeInterp(a, b temporal.Sequence) (bool, temporal.Interpolation) {
	if a.Interp == b.Interp {
		return true, a.Interp
	}
	if a.NumInstants() == 1 {
		return true, b.Interp
	}
	if b.NumInstants() == 1 {
		return true, a.Interp
	}
	return false, a.Interp
}

func assemble(pieces []temporal.Value, connect bool) (temporal.Value, *temperr.Error) {
	seqs, err := toSequences(pieces)
	if err != nil {
		return nil, err
	}
	sortSeqsByStart(seqs)
	if err := checkNoOverlap(seqs); err != nil {
		return nil, err
	}
	glued, err := gluePass(seqs, connect)
	if err != nil {
		return nil, err
	}
	if len(glued) == 1 {
		return glued[0], nil
	}
	// Discrete pieces (promoted instants included) concatenate into one
	// discrete sequence, their highest common subtype.
	discrete := true
	var instants []temporal.Instant
	for _, s := range glued {
		discrete = discrete && s.Interp == temporal.Discrete
		instants = append(instants, s.Instants...)
	}
	if discrete {
		seq, serr := temporal.NewSequence(instants, true, true, temporal.Discrete, true)
		if serr != nil {
			return nil, serr
		}
		return seq, nil
	}
	ss, nerr := temporal.NewSequenceSet(glued, false)
	if nerr != nil {
		return nil, nerr
	}
	return ss, nil
}

// Insert concatenates A and B in time order, promoting both to the
// common subtype pair and gluing touching boundaries per connect
// (spec.md §4.C7).
func Insert(a, b temporal.Value, connect bool) (temporal.Value, *temperr.Error) {
	pieces := append(flattenPieces(a), flattenPieces(b)...)
	return assemble(pieces, connect)
}

// Merge promotes a and b to the highest common subtype, sorts by
// time, and demands value agreement at any shared timestamp.
func Merge(a, b temporal.Value) (temporal.Value, *temperr.Error) {
	return MergeArray([]temporal.Value{a, b})
}

// MergeArray is Merge generalized to any number of inputs.
func MergeArray(values []temporal.Value) (temporal.Value, *temperr.Error) {
	if len(values) == 0 {
		return nil, temperr.New(temperr.InvalidInput, "modify.MergeArray: empty input")
	}
	var pieces []temporal.Value
	for _, v := range values {
		pieces = append(pieces, flattenPieces(v)...)
	}
	return assemble(pieces, true)
}
