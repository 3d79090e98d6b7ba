// Package span implements the value-span algebra (C2): half-open
// spans over any ordered base type, their set-union span-sets, and the
// primitives every higher component composes: contains, overlaps,
// adjacent, left/right-of, intersection, difference, and
// canonicalization of integer and date bounds.
//
// Canonicalizing integer/date spans to [l, u) at construction lets
// every downstream component test membership and compute intersections
// by plain comparison, without case-splitting on bound inclusivity
// (spec.md §4.C2's rationale).
package span

import (
	"fmt"

	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/value"
)

// Op identifies which relational/set operator produced or is being
// asked of a span, for diagnostics (MobilityDB's CachedOp, trimmed to
// the subset this engine's error messages reference).
type Op int

const (
	OpEq Op = iota
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdjacent
	OpUnion
	OpMinus
	OpIntersect
	OpOverlaps
	OpContains
	OpContained
)

// Span is a half-open interval [lower, upper) over an ordered base
// type, or an explicit-inclusivity interval for float/timestamptz
// spans which retain flags on both ends (spec.md §3).
type Span struct {
	Lower, Upper         value.Value
	LowerInc, UpperInc   bool
	Base                 basetype.Tag
}

func isDiscrete(t basetype.Tag) bool {
	return t == basetype.Int4 || t == basetype.Int8
}

// Make constructs a span, canonicalizing integer bounds to [l, u) and
// rejecting empty spans (lower == upper with at least one bound
// exclusive). Float and timestamptz bounds retain their inclusivity
// exactly as given.
func Make(lower, upper value.Value, lowerInc, upperInc bool) (Span, *temperr.Error) {
	if lower.Tag != upper.Tag {
		return Span{}, temperr.New(temperr.TypeMismatch, "span bounds must share a base type")
	}
	s := Span{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc, Base: lower.Tag}
	if isDiscrete(s.Base) {
		s = normalizeDiscrete(s)
	}
	if value.Equal(s.Lower, s.Upper) && !(s.LowerInc && s.UpperInc) {
		return Span{}, temperr.New(temperr.InvalidInput, "empty spans are not permitted")
	}
	if value.Compare(s.Lower, s.Upper) > 0 {
		return Span{}, temperr.New(temperr.InvalidInput, "span lower bound must not exceed upper bound")
	}
	return s, nil
}

// MustMake is Make with a panic on error, for call sites constructing
// spans from values already known to be well formed (e.g. literals in
// tests and internal helpers).
func MustMake(lower, upper value.Value, lowerInc, upperInc bool) Span {
	s, err := Make(lower, upper, lowerInc, upperInc)
	if err != nil {
		panic(err)
	}
	return s
}

// normalizeDiscrete canonicalizes an integer span to [l, u): an
// exclusive lower bound becomes inclusive of lower+1, an inclusive
// upper bound becomes exclusive of upper+1.
func normalizeDiscrete(s Span) Span {
	if !s.LowerInc {
		s.Lower = s.Lower.WithNumber(s.Lower.Number() + 1)
		s.LowerInc = true
	}
	if s.UpperInc {
		s.Upper = s.Upper.WithNumber(s.Upper.Number() + 1)
		s.UpperInc = false
	}
	return s
}

// Normalize re-applies discrete canonicalization; a no-op for
// float/timestamptz spans and idempotent for already-canonical
// integer/date spans (P1).
func Normalize(s Span) Span {
	if isDiscrete(s.Base) {
		return normalizeDiscrete(s)
	}
	return s
}

func (s Span) String() string {
	l, u := "[", ")"
	if !s.LowerInc {
		l = "("
	}
	if s.UpperInc {
		u = "]"
	}
	return fmt.Sprintf("%s%s, %s%s", l, s.Lower, s.Upper, u)
}

// lowerLess compares (value, inclusive-as-lower-bound) pairs: a
// smaller lower bound sorts first; for equal values an inclusive lower
// bound sorts before an exclusive one.
func lowerLess(av value.Value, ainc bool, bv value.Value, binc bool) bool {
	c := value.Compare(av, bv)
	if c != 0 {
		return c < 0
	}
	return ainc && !binc
}

// upperLess compares (value, inclusive-as-upper-bound) pairs: for
// equal values an exclusive upper bound sorts before an inclusive one.
func upperLess(av value.Value, ainc bool, bv value.Value, binc bool) bool {
	c := value.Compare(av, bv)
	if c != 0 {
		return c < 0
	}
	return !ainc && binc
}

// Compare implements the relational ordering of spec.md §4.C2:
// order by (lower, lower_inc, upper, upper_inc).
func Compare(a, b Span) int {
	if lowerLess(a.Lower, a.LowerInc, b.Lower, b.LowerInc) {
		return -1
	}
	if lowerLess(b.Lower, b.LowerInc, a.Lower, a.LowerInc) {
		return 1
	}
	if upperLess(a.Upper, a.UpperInc, b.Upper, b.UpperInc) {
		return -1
	}
	if upperLess(b.Upper, b.UpperInc, a.Upper, a.UpperInc) {
		return 1
	}
	return 0
}

func Equal(a, b Span) bool { return Compare(a, b) == 0 }

// containsValue reports whether v lies within s.
func containsValue(s Span, v value.Value) bool {
	cl := value.Compare(v, s.Lower)
	if cl < 0 || (cl == 0 && !s.LowerInc) {
		return false
	}
	cu := value.Compare(v, s.Upper)
	if cu > 0 || (cu == 0 && !s.UpperInc) {
		return false
	}
	return true
}

// Contains reports whether v lies within s. For canonical integer/date
// spans this reduces to lower <= v < upper (P2).
func Contains(s Span, v value.Value) bool { return containsValue(s, v) }

// ContainsSpan reports whether s wholly contains other.
func ContainsSpan(s, other Span) bool {
	cl := value.Compare(other.Lower, s.Lower)
	if cl < 0 || (cl == 0 && other.LowerInc && !s.LowerInc) {
		return false
	}
	cu := value.Compare(other.Upper, s.Upper)
	if cu > 0 || (cu == 0 && other.UpperInc && !s.UpperInc) {
		return false
	}
	return true
}

// Overlaps reports whether a and b share at least one value.
func Overlaps(a, b Span) bool {
	cl := value.Compare(a.Lower, b.Upper)
	if cl > 0 || (cl == 0 && !(a.LowerInc && b.UpperInc)) {
		return false
	}
	cu := value.Compare(b.Lower, a.Upper)
	if cu > 0 || (cu == 0 && !(b.LowerInc && a.UpperInc)) {
		return false
	}
	return true
}

// Adjacent reports whether a and b share a boundary with no value
// between them and no overlap: a's upper touches b's lower (or vice
// versa) with exactly one side inclusive.
func Adjacent(a, b Span) bool {
	if value.Compare(a.Upper, b.Lower) == 0 && (a.UpperInc != b.LowerInc) {
		return true
	}
	if value.Compare(b.Upper, a.Lower) == 0 && (b.UpperInc != a.LowerInc) {
		return true
	}
	return false
}

// Left reports whether a lies entirely to the left of (before, with no
// overlap or adjacency requirement) b.
func Left(a, b Span) bool {
	c := value.Compare(a.Upper, b.Lower)
	if c < 0 {
		return true
	}
	if c == 0 && !(a.UpperInc && b.LowerInc) {
		return true
	}
	return false
}

// Right is Left with arguments swapped.
func Right(a, b Span) bool { return Left(b, a) }

// Intersection returns the overlap of a and b, or ok=false if they do
// not overlap.
func Intersection(a, b Span) (Span, bool) {
	if !Overlaps(a, b) {
		return Span{}, false
	}
	lower, lowerInc := a.Lower, a.LowerInc
	switch c := value.Compare(a.Lower, b.Lower); {
	case c < 0:
		lower, lowerInc = b.Lower, b.LowerInc
	case c == 0:
		lowerInc = a.LowerInc && b.LowerInc
	}
	upper, upperInc := a.Upper, a.UpperInc
	switch c := value.Compare(a.Upper, b.Upper); {
	case c > 0:
		upper, upperInc = b.Upper, b.UpperInc
	case c == 0:
		upperInc = a.UpperInc && b.UpperInc
	}
	out, err := Make(lower, upper, lowerInc, upperInc)
	if err != nil {
		return Span{}, false
	}
	return out, true
}

// Expand returns the smallest span containing both a and b (their
// convex hull).
func Expand(a, b Span) Span {
	lower, lowerInc := a.Lower, a.LowerInc
	if c := value.Compare(b.Lower, a.Lower); c < 0 || (c == 0 && b.LowerInc && !a.LowerInc) {
		lower, lowerInc = b.Lower, b.LowerInc
	}
	upper, upperInc := a.Upper, a.UpperInc
	if c := value.Compare(b.Upper, a.Upper); c > 0 || (c == 0 && b.UpperInc && !a.UpperInc) {
		upper, upperInc = b.Upper, b.UpperInc
	}
	out, _ := Make(lower, upper, lowerInc, upperInc)
	return out
}

// ExpandValue returns the hull of s with a single value v.
func ExpandValue(s Span, v value.Value) Span {
	singleton := MustMake(v, v, true, true)
	return Expand(s, singleton)
}

// Union returns the set-union of a and b as a normalized span-set (one
// span if they overlap or are adjacent, two otherwise).
func Union(a, b Span) SpanSet {
	if Overlaps(a, b) || Adjacent(a, b) {
		return SpanSet{spans: []Span{Expand(a, b)}}
	}
	if Compare(a, b) <= 0 {
		return SpanSet{spans: []Span{a, b}}
	}
	return SpanSet{spans: []Span{b, a}}
}

// Difference returns a minus b as a normalized span-set (zero, one, or
// two spans).
func Difference(a, b Span) SpanSet {
	inter, ok := Intersection(a, b)
	if !ok {
		return SpanSet{spans: []Span{a}}
	}
	var out []Span
	if value.Compare(a.Lower, inter.Lower) < 0 || (value.Compare(a.Lower, inter.Lower) == 0 && a.LowerInc && !inter.LowerInc) {
		left, err := Make(a.Lower, inter.Lower, a.LowerInc, !inter.LowerInc)
		if err == nil {
			out = append(out, left)
		}
	}
	if value.Compare(inter.Upper, a.Upper) < 0 || (value.Compare(inter.Upper, a.Upper) == 0 && !inter.UpperInc && a.UpperInc) {
		right, err := Make(inter.Upper, a.Upper, !inter.UpperInc, a.UpperInc)
		if err == nil {
			out = append(out, right)
		}
	}
	return SpanSet{spans: out}
}
