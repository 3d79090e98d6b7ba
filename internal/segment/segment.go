// Package segment implements the pointwise arithmetic over a single
// pair of adjacent samples (C4): value-at-timestamp under linear or
// step interpolation, the meeting timestamp of a linear segment and a
// target value, and the intersection timestamp of two linear
// segments.
package segment

import (
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// Sample is one endpoint of a segment: a value at a timestamp.
type Sample struct {
	Val value.Value
	T   temporal.Timestamp
}

func alpha(t1, t2, t temporal.Timestamp) float64 {
	return float64(t-t1) / float64(t2-t1)
}

// ValueAt evaluates the segment (s1, s2) at t ∈ [t1, t2] under the
// given interpolation. At t == t2 it returns s2's value verbatim (for
// linear this is mathematically identical to the interpolated value).
func ValueAt(s1, s2 Sample, interp temporal.Interpolation, t temporal.Timestamp) value.Value {
	if t <= s1.T {
		return s1.Val
	}
	if t >= s2.T {
		return s2.Val
	}
	switch interp {
	case temporal.Step:
		return s1.Val
	case temporal.Linear:
		a := alpha(s1.T, s2.T, t)
		return s1.Val.WithNumber(s1.Val.Number() + a*(s2.Val.Number()-s1.Val.Number()))
	default:
		// Discrete has no between-samples semantics (I6); callers must
		// not ask for a timestamp strictly between two discrete
		// instants, but returning the lower sample is the least
		// surprising fallback.
		return s1.Val
	}
}

// LinearSegmentMeetsValue returns the timestamp at which the linear
// segment (s1, s2) attains target, and ok=true iff the segment is
// monotonic (non-constant) and target lies strictly between s1 and
// s2's values.
func LinearSegmentMeetsValue(s1, s2 Sample, target value.Value) (t temporal.Timestamp, meetValue value.Value, ok bool) {
	v1, v2, vt := s1.Val.Number(), s2.Val.Number(), target.Number()
	if v1 == v2 {
		return 0, value.Value{}, false
	}
	lo, hi := v1, v2
	if lo > hi {
		lo, hi = hi, lo
	}
	if vt <= lo || vt >= hi {
		return 0, value.Value{}, false
	}
	a := (vt - v1) / (v2 - v1)
	tMeet := s1.T + temporal.Timestamp(a*float64(s2.T-s1.T))
	return tMeet, target, true
}

// TwoSegmentsIntersection returns the timestamp t* at which the two
// linear segments (s1,s2) and (s3,s4) agree, plus both segments'
// common value at t*, and ok=false if the segments are parallel (no
// unique intersection) or t* falls outside both segments' overlap.
func TwoSegmentsIntersection(s1, s2, s3, s4 Sample) (t temporal.Timestamp, v value.Value, ok bool) {
	// Express each segment as v(u) = a + b*u where u is elapsed time
	// since a common origin (s1.T), so both lines share a domain.
	origin := s1.T
	x1, x2 := 0.0, float64(s2.T-origin)
	y1, y2 := s1.Val.Number(), s2.Val.Number()
	x3, x4 := float64(s3.T-origin), float64(s4.T-origin)
	y3, y4 := s3.Val.Number(), s4.Val.Number()

	if x2 == x1 || x4 == x3 {
		return 0, value.Value{}, false
	}
	slope1 := (y2 - y1) / (x2 - x1)
	slope2 := (y4 - y3) / (x4 - x3)
	if slope1 == slope2 {
		return 0, value.Value{}, false
	}
	// slope1*(u-x1)+y1 = slope2*(u-x3)+y3
	u := (slope2*(-x3) + y3 - slope1*(-x1) - y1) / (slope1 - slope2)
	lo1, hi1 := x1, x2
	if lo1 > hi1 {
		lo1, hi1 = hi1, lo1
	}
	lo2, hi2 := x3, x4
	if lo2 > hi2 {
		lo2, hi2 = hi2, lo2
	}
	if u < lo1 || u > hi1 || u < lo2 || u > hi2 {
		return 0, value.Value{}, false
	}
	val := slope1*(u-x1) + y1
	tMeet := origin + temporal.Timestamp(u)
	return tMeet, s1.Val.WithNumber(val), true
}

// PointDistanceFunc computes the base-domain distance between two
// spatial values; an external collaborator per spec.md §6.
type PointDistanceFunc func(a, b value.Value) float64

// TurningPointFunc solves for the timestamp, within [t1, t2], at which
// a caller-supplied function of two synchronized moving points attains
// a local extremum (spec.md §4.C4: "solved in closed form by the
// caller-supplied primitive"). It returns ok=false if there is no
// turning point strictly inside the interval.
type TurningPointFunc func(a1, a2 Sample, b1, b2 Sample) (t temporal.Timestamp, ok bool)

// FloatProductTurningPoint solves for the timestamp at which the
// product of two synchronized linear number segments has zero
// derivative (the tfloat*tfloat case named in spec.md's Open
// Questions): d/dα[(a1+α(a2-a1))·(b1+α(b2-b1))] = 0.
func FloatProductTurningPoint(a1, a2, b1, b2 Sample) (temporal.Timestamp, bool) {
	da := a2.Val.Number() - a1.Val.Number()
	db := b2.Val.Number() - b1.Val.Number()
	denom := 2 * da * db
	if denom == 0 {
		return 0, false
	}
	alphaStar := -(da*b1.Val.Number() + db*a1.Val.Number()) / denom
	if alphaStar <= 0 || alphaStar >= 1 {
		return 0, false
	}
	t1, t2 := a1.T, a2.T
	return t1 + temporal.Timestamp(alphaStar*float64(t2-t1)), true
}
