// Package basetype holds the closed enumeration of base, span, and
// temporal type tags and the pure table lookups over them (C1 of the
// piecewise-temporal algebra engine). Every lookup here dispatches by
// switching on the tag; nothing in this package uses runtime
// polymorphism to pick behavior by type.
package basetype

// Tag identifies a base type: the codomain of a temporal value at a
// single timestamp. The enumeration mirrors MobilityDB's CachedType,
// trimmed to the tags this engine actually dispatches on (the SQL
// range/box wrapper types and the temporal-type tags themselves live
// in TempType, not here).
type Tag int

const (
	Bool Tag = iota
	Int4
	Int8
	Float8
	Text
	Double2
	Double3
	Double4
	Geometry
	Geography
	NPoint
	NSegment
	TimestampTz
)

func (t Tag) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int4:
		return "int4"
	case Int8:
		return "int8"
	case Float8:
		return "float8"
	case Text:
		return "text"
	case Double2:
		return "double2"
	case Double3:
		return "double3"
	case Double4:
		return "double4"
	case Geometry:
		return "geometry"
	case Geography:
		return "geography"
	case NPoint:
		return "npoint"
	case NSegment:
		return "nsegment"
	case TimestampTz:
		return "timestamptz"
	default:
		return "unknown"
	}
}

// SpanTag identifies a span's base type. Only ordered scalar types
// admit a span type; spatial types do not.
type SpanTag int

const (
	NoSpan SpanTag = iota
	IntSpan
	FloatSpan
	DateSpan
	PeriodSpan // timestamptz span ("Period" in MobilityDB terms)
)

// TempType identifies a temporal value's subtype-independent type: the
// pairing of a base type with "temporal-ness". Subtype (instant,
// discrete sequence, continuous sequence, sequence-set) is orthogonal
// and lives on the value itself, not in this tag.
type TempType int

const (
	TBool TempType = iota
	TInt
	TFloat
	TText
	TDouble2
	TDouble3
	TDouble4
	TGeomPoint
	TGeogPoint
	TNPoint
)

// IsNumber reports whether values of this base type support addition,
// subtraction, and ordered comparison.
func IsNumber(t Tag) bool {
	switch t {
	case Int4, Int8, Float8:
		return true
	default:
		return false
	}
}

// IsSpatial reports whether values of this base type are points or
// segments in a geometric, geographic, or network space.
func IsSpatial(t Tag) bool {
	switch t {
	case Geometry, Geography, NPoint, NSegment:
		return true
	default:
		return false
	}
}

// IsContinuous reports whether linear interpolation is meaningful for
// this base type (I4 of the sequence invariants): numbers and spatial
// points, but not booleans or text.
func IsContinuous(t Tag) bool {
	switch t {
	case Int4, Int8, Float8, Geometry, Geography, NPoint:
		return true
	default:
		return false
	}
}

// SpanTypeOfBaseType returns the span tag associated with a base type,
// or NoSpan if the base type admits no span (spatial types, text,
// bool, the tuple types).
func SpanTypeOfBaseType(t Tag) SpanTag {
	switch t {
	case Int4, Int8:
		return IntSpan
	case Float8:
		return FloatSpan
	case TimestampTz:
		return PeriodSpan
	default:
		return NoSpan
	}
}

// BaseTypeOfSpanType is the inverse of SpanTypeOfBaseType.
func BaseTypeOfSpanType(s SpanTag) (Tag, bool) {
	switch s {
	case IntSpan, DateSpan:
		return Int4, true
	case FloatSpan:
		return Float8, true
	case PeriodSpan:
		return TimestampTz, true
	default:
		return Tag(-1), false
	}
}

// TempTypeOfBaseType maps a base type to the temporal type built over
// it. Panics (an Internal-kind condition, §7) if t has no temporal
// counterpart, since every caller of this function already holds a
// base type known to be liftable.
func TempTypeOfBaseType(t Tag) TempType {
	switch t {
	case Bool:
		return TBool
	case Int4, Int8:
		return TInt
	case Float8:
		return TFloat
	case Text:
		return TText
	case Double2:
		return TDouble2
	case Double3:
		return TDouble3
	case Double4:
		return TDouble4
	case Geometry:
		return TGeomPoint
	case Geography:
		return TGeogPoint
	case NPoint:
		return TNPoint
	default:
		panic("basetype: no temporal type for " + t.String())
	}
}

// BaseTypeOfTempType is the inverse of TempTypeOfBaseType.
func BaseTypeOfTempType(t TempType) Tag {
	switch t {
	case TBool:
		return Bool
	case TInt:
		return Int4
	case TFloat:
		return Float8
	case TText:
		return Text
	case TDouble2:
		return Double2
	case TDouble3:
		return Double3
	case TDouble4:
		return Double4
	case TGeomPoint:
		return Geometry
	case TGeogPoint:
		return Geography
	case TNPoint:
		return NPoint
	default:
		panic("basetype: unknown temporal type")
	}
}

// Length returns the fixed on-the-wire length in bytes of a by-value
// base type, or -1 for a variable-length (by-reference) type such as
// Text.
func Length(t Tag) int {
	switch t {
	case Bool:
		return 1
	case Int4:
		return 4
	case Int8, Float8, TimestampTz:
		return 8
	case Double2:
		return 16
	case Double3:
		return 24
	case Double4:
		return 32
	case Text:
		return -1
	default:
		return -1
	}
}

// ByValue reports whether the base type is small enough to be stored
// inline (the Go analogue of MobilityDB's Datum by-value tagging).
// Header's by-value flag bit is set independently and is not derived
// from ByValue.
func ByValue(t Tag) bool {
	return Length(t) >= 0 && Length(t) <= 8
}
