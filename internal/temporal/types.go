// Package temporal implements the in-memory layout for temporal values
// (C3): instants, discrete sequences, continuous sequences, and
// sequence-sets, their bounding boxes, and normalization.
package temporal

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/value"
)

// Interpolation is the rule by which values between stored instants
// are defined.
type Interpolation int

const (
	Discrete Interpolation = iota
	Step
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case Discrete:
		return "discrete"
	case Step:
		return "step"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// Subtype identifies which of the four shapes a Value takes.
type Subtype int

const (
	SubtypeInstant Subtype = iota
	SubtypeSequence
	SubtypeSequenceSet
)

// Value is any piecewise-temporal value: instant, sequence, or
// sequence-set. Implementations are immutable once constructed
// (spec.md §3's Lifecycle rule); every mutating operation in
// internal/modify returns a new Value.
type Value interface {
	TempType() basetype.TempType
	Subtype() Subtype
	Interpolation() Interpolation
	StartTimestamp() Timestamp
	EndTimestamp() Timestamp
	// TimeSpanSet returns the value's time domain as a span-set of
	// timestamp spans (an instant's is a single-point span, a
	// sequence's its period, a sequence-set's the union of its
	// sequences' periods).
	TimeSpanSet() span.SpanSet
}

// Instant is a single timestamped base value (spec.md §3).
type Instant struct {
	Val  value.Value
	T    Timestamp
	Type basetype.TempType
}

func NewInstant(v value.Value, t Timestamp) Instant {
	return Instant{Val: v, T: t, Type: basetype.TempTypeOfBaseType(v.Tag)}
}

func (i Instant) TempType() basetype.TempType { return i.Type }
func (i Instant) Subtype() Subtype            { return SubtypeInstant }
func (i Instant) Interpolation() Interpolation { return Discrete }
func (i Instant) StartTimestamp() Timestamp    { return i.T }
func (i Instant) EndTimestamp() Timestamp      { return i.T }

func (i Instant) TimeSpanSet() span.SpanSet {
	tsv := func(t Timestamp) value.Value { return value.Value{Tag: basetype.TimestampTz, Int: int64(t)} }
	return span.New([]span.Span{span.MustMake(tsv(i.T), tsv(i.T), true, true)})
}

func timestampValue(t Timestamp) value.Value {
	return value.Value{Tag: basetype.TimestampTz, Int: int64(t)}
}

// Sequence is a contiguous piecewise-temporal fragment: a discrete
// sequence (unordered-at-time-wise set of instants, both bounds
// always true, I6), or a continuous sequence under step or linear
// interpolation (I1-I5, I7).
type Sequence struct {
	Instants []Instant
	LowerInc bool
	UpperInc bool
	Interp   Interpolation
	Type     basetype.TempType
}

// validate checks invariants I1-I6 (normalization, I7, is enforced
// separately by NormalizeSequence).
func validate(instants []Instant, lowerInc, upperInc bool, interp Interpolation) *temperr.Error {
	if len(instants) == 0 {
		return temperr.New(temperr.InvalidInput, "a sequence requires at least one instant")
	}
	for i := 1; i < len(instants); i++ {
		if instants[i].T <= instants[i-1].T {
			return temperr.New(temperr.OrderingViolation,
				"sequence instants must be strictly increasing in time: "+fmtTS(instants[i-1].T)+" >= "+fmtTS(instants[i].T))
		}
	}
	if len(instants) == 1 && !(lowerInc && upperInc) {
		return temperr.New(temperr.InvalidInput, "a single-instant sequence must be inclusive on both ends (I3)")
	}
	if interp == Discrete && !(lowerInc && upperInc) {
		return temperr.New(temperr.InvalidInput, "a discrete sequence must be inclusive on both ends (I6)")
	}
	if interp == Linear && !basetype.IsContinuous(basetype.BaseTypeOfTempType(instants[0].Type)) {
		return temperr.New(temperr.InterpolationMismatch, "linear interpolation requires a continuous base type")
	}
	if interp == Step && !upperInc && len(instants) >= 2 {
		last, prev := instants[len(instants)-1], instants[len(instants)-2]
		if !value.Equal(last.Val, prev.Val) {
			return temperr.New(temperr.InvalidInput, "step sequence with exclusive upper bound must restate the held value (I5)")
		}
	}
	return nil
}

// NewSequence constructs a sequence from raw instants, normalizing
// unless normalize is false (callers that already know the input is
// normalized skip the pass, per spec.md §4.C3).
func NewSequence(instants []Instant, lowerInc, upperInc bool, interp Interpolation, normalize bool) (Sequence, *temperr.Error) {
	if err := validate(instants, lowerInc, upperInc, interp); err != nil {
		return Sequence{}, err
	}
	cp := make([]Instant, len(instants))
	copy(cp, instants)
	s := Sequence{
		Instants: cp,
		LowerInc: lowerInc,
		UpperInc: upperInc,
		Interp:   interp,
		Type:     instants[0].Type,
	}
	if normalize {
		s = NormalizeSequence(s)
	}
	return s, nil
}

func MustNewSequence(instants []Instant, lowerInc, upperInc bool, interp Interpolation, normalize bool) Sequence {
	s, err := NewSequence(instants, lowerInc, upperInc, interp, normalize)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Sequence) TempType() basetype.TempType { return s.Type }
func (s Sequence) Subtype() Subtype            { return SubtypeSequence }
func (s Sequence) Interpolation() Interpolation { return s.Interp }
func (s Sequence) StartTimestamp() Timestamp    { return s.Instants[0].T }
func (s Sequence) EndTimestamp() Timestamp      { return s.Instants[len(s.Instants)-1].T }
func (s Sequence) NumInstants() int             { return len(s.Instants) }
func (s Sequence) InstantN(n int) Instant       { return s.Instants[n] }

// Period returns the sequence's time span.
func (s Sequence) Period() span.Span {
	return span.MustMake(timestampValue(s.StartTimestamp()), timestampValue(s.EndTimestamp()), s.LowerInc, s.UpperInc)
}

func (s Sequence) TimeSpanSet() span.SpanSet {
	return span.New([]span.Span{s.Period()})
}

// SequenceSet is a disjoint-in-time union of sequences sharing one
// interpolation (spec.md §3 I8-I11).
type SequenceSet struct {
	Sequences []Sequence
	Type      basetype.TempType
	Interp    Interpolation
}

func NewSequenceSet(seqs []Sequence, normalize bool) (SequenceSet, *temperr.Error) {
	if len(seqs) == 0 {
		return SequenceSet{}, temperr.New(temperr.InvalidInput, "a sequence-set requires at least one sequence")
	}
	interp := seqs[0].Interp
	for _, s := range seqs {
		if s.Interp != interp {
			return SequenceSet{}, temperr.New(temperr.InterpolationMismatch, "all sequences in a sequence-set must share interpolation (I10)")
		}
		if s.NumInstants() == 1 && !(s.LowerInc && s.UpperInc) {
			return SequenceSet{}, temperr.New(temperr.InvalidInput, "a single-instant sequence must be inclusive on both ends (I8)")
		}
	}
	cp := make([]Sequence, len(seqs))
	copy(cp, seqs)
	sortSequences(cp)
	for i := 1; i < len(cp); i++ {
		if !timeSeparated(cp[i-1], cp[i]) {
			return SequenceSet{}, temperr.New(temperr.OrderingViolation, "consecutive sequences must be separated in time (I9)")
		}
	}
	ss := SequenceSet{Sequences: cp, Type: seqs[0].Type, Interp: interp}
	if normalize {
		ss = NormalizeSequenceSet(ss)
	}
	return ss, nil
}

func MustNewSequenceSet(seqs []Sequence, normalize bool) SequenceSet {
	ss, err := NewSequenceSet(seqs, normalize)
	if err != nil {
		panic(err)
	}
	return ss
}

func (ss SequenceSet) TempType() basetype.TempType { return ss.Type }
func (ss SequenceSet) Subtype() Subtype            { return SubtypeSequenceSet }
func (ss SequenceSet) Interpolation() Interpolation { return ss.Interp }
func (ss SequenceSet) StartTimestamp() Timestamp   { return ss.Sequences[0].StartTimestamp() }
func (ss SequenceSet) EndTimestamp() Timestamp {
	return ss.Sequences[len(ss.Sequences)-1].EndTimestamp()
}
func (ss SequenceSet) NumSequences() int        { return len(ss.Sequences) }
func (ss SequenceSet) SequenceN(n int) Sequence { return ss.Sequences[n] }

func (ss SequenceSet) TimeSpanSet() span.SpanSet {
	var out span.SpanSet
	for _, s := range ss.Sequences {
		out = out.AddSpan(s.Period())
	}
	return out
}

// Bbox returns the sequence-set's time bounding span (the hull of its
// sequences' periods), whatever the base type.
func (ss SequenceSet) Bbox() (span.Span, bool) {
	return ss.TimeSpanSet().Bbox()
}

func timeSeparated(a, b Sequence) bool {
	if value.Compare(timestampValue(a.EndTimestamp()), timestampValue(b.StartTimestamp())) < 0 {
		return true
	}
	if a.EndTimestamp() == b.StartTimestamp() && !(a.UpperInc && b.LowerInc) {
		return true
	}
	return false
}

func sortSequences(seqs []Sequence) {
	for i := 1; i < len(seqs); i++ {
		for j := i; j > 0 && seqs[j].StartTimestamp() < seqs[j-1].StartTimestamp(); j-- {
			seqs[j], seqs[j-1] = seqs[j-1], seqs[j]
		}
	}
}
