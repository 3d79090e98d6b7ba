package span

import (
	"sort"

	"github.com/meosgo/meos/internal/value"
)

// SpanSet is a finite, normalized, strictly-increasing, non-adjacent
// sequence of spans of one basetype. It carries the union span as a
// bounding box implicitly (computed on demand via Bbox) and its count
// via Count.
type SpanSet struct {
	spans []Span
}

// New builds a normalized span-set from raw spans, sorting and
// coalescing overlapping or adjacent spans (the same "add_span
// maintains normalization" discipline used incrementally by AddSpan).
func New(spans []Span) SpanSet {
	var ss SpanSet
	for _, s := range spans {
		ss = ss.AddSpan(s)
	}
	return ss
}

// ToSpans enumerates the span-set's spans in order. The returned slice
// is owned by the caller's arena (a defensive copy), per spec.md §5's
// ownership discipline for borrowed sub-value accessors.
func (ss SpanSet) ToSpans() []Span {
	out := make([]Span, len(ss.spans))
	copy(out, ss.spans)
	return out
}

func (ss SpanSet) Count() int { return len(ss.spans) }

func (ss SpanSet) IsEmpty() bool { return len(ss.spans) == 0 }

// Bbox returns the span-set's bounding span ⟨minL, maxU⟩, or ok=false
// for an empty span-set.
func (ss SpanSet) Bbox() (Span, bool) {
	if len(ss.spans) == 0 {
		return Span{}, false
	}
	box := ss.spans[0]
	for _, s := range ss.spans[1:] {
		box = Expand(box, s)
	}
	return box, true
}

// FindElement binary searches for v, returning the index of the span
// containing it (found=true) or the insertion point among ss.spans
// (found=false) where a new span holding v would be spliced.
func FindElement(ss SpanSet, v value.Value) (index int, found bool) {
	i := sort.Search(len(ss.spans), func(i int) bool {
		return value.Compare(ss.spans[i].Upper, v) > 0 ||
			(value.Compare(ss.spans[i].Upper, v) == 0 && ss.spans[i].UpperInc)
	})
	if i < len(ss.spans) && containsValue(ss.spans[i], v) {
		return i, true
	}
	return i, false
}

// AddSpan inserts s into ss, merging with any overlapping or adjacent
// existing spans so the result stays normalized. This is the
// incremental counterpart of New, grounded on the teacher's
// sorted-slice splice idiom (friggdb/record.go's sortRecords +
// binary-search-insert pattern).
func (ss SpanSet) AddSpan(s Span) SpanSet {
	spans := ss.spans
	// Find the first span that could overlap or be adjacent to s.
	lo := sort.Search(len(spans), func(i int) bool {
		return Compare(spans[i], s) >= 0 || Overlaps(spans[i], s) || Adjacent(spans[i], s)
	})
	for lo > 0 && (Overlaps(spans[lo-1], s) || Adjacent(spans[lo-1], s)) {
		lo--
	}
	hi := lo
	merged := s
	for hi < len(spans) && (Overlaps(spans[hi], merged) || Adjacent(spans[hi], merged)) {
		merged = Expand(merged, spans[hi])
		hi++
	}
	out := make([]Span, 0, len(spans)-(hi-lo)+1)
	out = append(out, spans[:lo]...)
	out = append(out, merged)
	out = append(out, spans[hi:]...)
	return SpanSet{spans: out}
}

// SpanSetUnion returns the union of two span-sets.
func SpanSetUnion(a, b SpanSet) SpanSet {
	out := a
	for _, s := range b.spans {
		out = out.AddSpan(s)
	}
	return out
}

// SpanSetIntersection returns the intersection of two span-sets, as a
// normalized span-set (a two-pointer sweep over both sorted spans).
func SpanSetIntersection(a, b SpanSet) SpanSet {
	var out []Span
	i, j := 0, 0
	for i < len(a.spans) && j < len(b.spans) {
		if inter, ok := Intersection(a.spans[i], b.spans[j]); ok {
			out = append(out, inter)
		}
		if Left(a.spans[i], b.spans[j]) {
			i++
		} else if Left(b.spans[j], a.spans[i]) {
			j++
		} else if upperLess(a.spans[i].Upper, a.spans[i].UpperInc, b.spans[j].Upper, b.spans[j].UpperInc) {
			i++
		} else {
			j++
		}
	}
	return SpanSet{spans: out}
}

// SpanSetDifference returns a minus b as a normalized span-set.
func SpanSetDifference(a, b SpanSet) SpanSet {
	result := a
	for _, s := range b.spans {
		result = subtractSpan(result, s)
	}
	return result
}

func subtractSpan(ss SpanSet, s Span) SpanSet {
	var out []Span
	for _, existing := range ss.spans {
		diff := Difference(existing, s)
		out = append(out, diff.spans...)
	}
	return SpanSet{spans: out}
}

// Contains reports whether v lies in any span of ss.
func (ss SpanSet) Contains(v value.Value) bool {
	_, found := FindElement(ss, v)
	return found
}

// ContainsSpan reports whether some single span of ss wholly contains
// other (spec.md's span-set containment is defined relative to the
// constituent spans, not the bounding box).
func (ss SpanSet) ContainsSpan(other Span) bool {
	for _, s := range ss.spans {
		if ContainsSpan(s, other) {
			return true
		}
	}
	return false
}

// Overlaps reports whether ss shares any value with other.
func (ss SpanSet) Overlaps(other Span) bool {
	for _, s := range ss.spans {
		if Overlaps(s, other) {
			return true
		}
	}
	return false
}
