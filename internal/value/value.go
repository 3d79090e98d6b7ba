// Package value implements the base-value representation shared by
// every higher component: a tagged union over basetype.Tag, never a
// bare interface{}/any. DESIGN NOTES calls this out explicitly — the
// source's "Datum" word-sized universal value is not replicated here.
package value

import (
	"fmt"
	"math"

	"github.com/meosgo/meos/internal/basetype"
)

// Point is the minimal 2D/3D point representation geometry/geography
// values carry. The real distance/intersection primitives are an
// external collaborator (spec.md §6); this struct only carries enough
// shape for the algebra engine to move, compare, and distance values.
type Point struct {
	X, Y, Z float64
	HasZ    bool
	SRID    int32
}

// NPointValue is a position along a network edge: an edge identifier
// plus a fractional position in [0,1].
type NPointValue struct {
	EdgeID   int64
	Fraction float64
}

// Value is a base value tagged with its basetype.Tag. Exactly one of
// the typed fields is meaningful for a given Tag; Equal/Compare switch
// on Tag rather than inspecting which fields are zero.
type Value struct {
	Tag   basetype.Tag
	Bool  bool
	Int   int64
	Float float64
	Text  string
	Pt    Point
	NPt   NPointValue
	D2    [2]float64
	D3    [3]float64
	D4    [4]float64
}

func Bool(b bool) Value             { return Value{Tag: basetype.Bool, Bool: b} }
func Int4(i int32) Value            { return Value{Tag: basetype.Int4, Int: int64(i)} }
func Int8(i int64) Value            { return Value{Tag: basetype.Int8, Int: i} }
func Float8(f float64) Value        { return Value{Tag: basetype.Float8, Float: f} }
func Str(s string) Value            { return Value{Tag: basetype.Text, Text: s} }
func Geom(p Point) Value            { return Value{Tag: basetype.Geometry, Pt: p} }
func Geog(p Point) Value            { return Value{Tag: basetype.Geography, Pt: p} }
func NPointV(n NPointValue) Value   { return Value{Tag: basetype.NPoint, NPt: n} }
func MakeDouble2(a, b float64) Value { return Value{Tag: basetype.Double2, D2: [2]float64{a, b}} }

// Number returns the value as a float64 regardless of the concrete
// numeric tag; callers must have already checked basetype.IsNumber.
func (v Value) Number() float64 {
	switch v.Tag {
	case basetype.Int4, basetype.Int8, basetype.TimestampTz:
		return float64(v.Int)
	case basetype.Float8:
		return v.Float
	default:
		panic("value: Number() on non-numeric tag " + v.Tag.String())
	}
}

// WithNumber returns a copy of v with its numeric payload replaced by
// n, re-encoded into whichever numeric field v.Tag requires.
func (v Value) WithNumber(n float64) Value {
	switch v.Tag {
	case basetype.Int4, basetype.Int8, basetype.TimestampTz:
		v.Int = int64(math.Round(n))
	case basetype.Float8:
		v.Float = n
	default:
		panic("value: WithNumber() on non-numeric tag " + v.Tag.String())
	}
	return v
}

// Equal compares two values of the same tag using each base type's
// equality predicate. Floats compare exactly (the engine's
// normalization already quantizes via construction-time rounding
// policy left to the caller; this package does not impose an epsilon
// because spec.md's P1 requires bit-for-bit idempotence).
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case basetype.Bool:
		return a.Bool == b.Bool
	case basetype.Int4, basetype.Int8, basetype.TimestampTz:
		return a.Int == b.Int
	case basetype.Float8:
		return a.Float == b.Float
	case basetype.Text:
		return a.Text == b.Text
	case basetype.Geometry, basetype.Geography:
		return a.Pt == b.Pt
	case basetype.NPoint:
		return a.NPt == b.NPt
	case basetype.Double2:
		return a.D2 == b.D2
	case basetype.Double3:
		return a.D3 == b.D3
	case basetype.Double4:
		return a.D4 == b.D4
	default:
		return false
	}
}

// Compare orders two values of the same ordered base type: -1, 0, 1.
// Panics for unordered (spatial, tuple) types — callers only invoke
// Compare after basetype.IsNumber or a Text check.
func Compare(a, b Value) int {
	switch a.Tag {
	case basetype.Int4, basetype.Int8, basetype.TimestampTz:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case basetype.Float8:
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		default:
			return 0
		}
	case basetype.Text:
		switch {
		case a.Text < b.Text:
			return -1
		case a.Text > b.Text:
			return 1
		default:
			return 0
		}
	case basetype.Bool:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	default:
		panic(fmt.Sprintf("value: Compare() on unordered tag %s", a.Tag))
	}
}

// Distance returns the base-domain distance between two values of the
// same tag: absolute difference for numbers, Euclidean/geodesic for
// spatial values (delegated to a caller-supplied DistanceFunc since
// the real geometry/geography math is an external collaborator).
type DistanceFunc func(a, b Value) float64

// NumberDistance is the built-in DistanceFunc for numeric base types.
func NumberDistance(a, b Value) float64 {
	return math.Abs(a.Number() - b.Number())
}

func (v Value) String() string {
	switch v.Tag {
	case basetype.Bool:
		return fmt.Sprintf("%v", v.Bool)
	case basetype.Int4, basetype.Int8:
		return fmt.Sprintf("%d", v.Int)
	case basetype.Float8:
		return fmt.Sprintf("%g", v.Float)
	case basetype.Text:
		return v.Text
	default:
		return fmt.Sprintf("%s(%+v)", v.Tag, v.Pt)
	}
}
