package modify

import (
	"math"

	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// AppendOptions configures AppendInstant's gap-splitting rule
// (spec.md §4.C7): a new instant farther than MaxDist in value or
// MaxT in time from the sequence's last instant starts a fresh
// sequence instead of extending the current one.
type AppendOptions struct {
	MaxDist    float64
	HasMaxDist bool
	MaxT       temporal.Timestamp
	HasMaxT    bool
}

func exceedsGap(last temporal.Instant, inst temporal.Instant, opts AppendOptions) bool {
	if opts.HasMaxT && inst.T-last.T > opts.MaxT {
		return true
	}
	if opts.HasMaxDist && basetype.IsNumber(last.Val.Tag) && basetype.IsNumber(inst.Val.Tag) {
		if math.Abs(inst.Val.Number()-last.Val.Number()) > opts.MaxDist {
			return true
		}
	}
	return false
}

// AppendInstant appends inst to the end of a, growing a's buffer via
// Builder when the gap thresholds allow it, or starting a new
// sequence (returned as a two-element sequence-set) when exceeded.
// Equal trailing timestamps are accepted only when the values agree
// (spec.md §4.C7's "equal-timestamp append must agree on value").
func AppendInstant(a temporal.Sequence, inst temporal.Instant, opts AppendOptions) (temporal.Value, *temperr.Error) {
	last := a.InstantN(a.NumInstants() - 1)
	if inst.T < last.T {
		return nil, temperr.New(temperr.OrderingViolation, "modify.AppendInstant: instant precedes the sequence's end")
	}
	if inst.T == last.T {
		if !value.Equal(inst.Val, last.Val) {
			return nil, temperr.New(temperr.ValueDisagreement, "modify.AppendInstant: disagreement at a shared timestamp")
		}
		return a, nil
	}
	if exceedsGap(last, inst, opts) {
		next, err := temporal.NewSequence([]temporal.Instant{inst}, true, true, a.Interp, true)
		if err != nil {
			return nil, err
		}
		return temporal.NewSequenceSet([]temporal.Sequence{a, next}, true)
	}

	b := temporal.NewBuilder(a.NumInstants()+1, a.LowerInc, a.Interp)
	for i := 0; i < a.NumInstants(); i++ {
		if _, err := b.AppendInstant(a.InstantN(i)); err != nil {
			return nil, err
		}
	}
	if _, err := b.AppendInstant(inst); err != nil {
		return nil, err
	}
	b.SetUpperInc(true)
	return b.Build(true)
}

// AppendSequence concatenates seq onto a, gluing touching boundaries
// automatically when they're joinable (spec.md §4.C7).
func AppendSequence(a temporal.Value, seq temporal.Sequence) (temporal.Value, *temperr.Error) {
	switch v := a.(type) {
	case temporal.Instant:
		single, err := temporal.NewSequence([]temporal.Instant{v}, true, true, seq.Interp, true)
		if err != nil {
			return nil, err
		}
		return AppendSequence(single, seq)
	case temporal.Sequence:
		if temporal.Joinable(v, seq) {
			return temporal.Join(v, seq), nil
		}
		return temporal.NewSequenceSet([]temporal.Sequence{v, seq}, true)
	case temporal.SequenceSet:
		last := v.SequenceN(v.NumSequences() - 1)
		seqs := make([]temporal.Sequence, v.NumSequences())
		copy(seqs, v.Sequences)
		if temporal.Joinable(last, seq) {
			seqs[len(seqs)-1] = temporal.Join(last, seq)
		} else {
			seqs = append(seqs, seq)
		}
		return temporal.NewSequenceSet(seqs, true)
	default:
		return nil, temperr.New(temperr.Internal, "modify.AppendSequence: unreachable subtype")
	}
}
