package aggregate

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// Extent is the C9 bounding-box aggregate: unlike SkipList's per-
// timestamp pointwise accumulation, it tracks only the smallest span
// enclosing every value and every timestamp seen so far (spec.md
// §4.C9's temporal_extent_transfn family has no notion of "the state
// at t" to merge, so it cannot share the skiplist's node-per-instant
// shape).
type Extent struct {
	value    span.Span
	time     span.Span
	set      bool
	hasValue bool
}

// NewExtent returns an empty extent accumulator.
func NewExtent() *Extent {
	return &Extent{}
}

// Splice folds every instant of temp into the running bounding box.
func (e *Extent) Splice(temp temporal.Value) *temperr.Error {
	for _, inst := range instantsOf(temp) {
		tval := value.Value{Tag: basetype.TimestampTz, Int: int64(inst.T)}
		ts := span.MustMake(tval, tval, true, true)
		if !e.set {
			e.time = ts
			e.set = true
		} else {
			e.time = span.Expand(e.time, ts)
		}
		if !basetype.IsNumber(inst.Val.Tag) {
			continue
		}
		vs := span.MustMake(inst.Val, inst.Val, true, true)
		if !e.hasValue {
			e.value = vs
			e.hasValue = true
		} else {
			e.value = span.Expand(e.value, vs)
		}
	}
	return nil
}

// Final returns the accumulated time span and, if any numeric values
// were seen, the accumulated value span.
func (e *Extent) Final() (timeSpan span.Span, valueSpan span.Span, hasValue bool, ok bool) {
	if !e.set {
		return span.Span{}, span.Span{}, false, false
	}
	return e.time, e.value, e.hasValue, true
}

// Merge folds other's bounding box into e, the Extent analogue of
// SkipList-based kinds' Combine.
func (e *Extent) Merge(other *Extent) {
	if !other.set {
		return
	}
	if !e.set {
		*e = *other
		return
	}
	e.time = span.Expand(e.time, other.time)
	if other.hasValue {
		if !e.hasValue {
			e.value = other.value
			e.hasValue = true
		} else {
			e.value = span.Expand(e.value, other.value)
		}
	}
}
