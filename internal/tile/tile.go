// Package tile implements the tiling engine (C8): aligned bin
// boundaries over a span, per-bin span-set intersections, and
// value/time 2-D tiling and splitting of temporal values, built on
// top of internal/span and internal/restrict. Grounded on
// friggdb/compaction_block_selector.go's cursor-over-sorted-ranges
// idiom (walk forward in fixed-size windows from an aligned start).
package tile

import (
	"math"

	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/restrict"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// Bins describes the aligned tiling of a span: Count bins of width
// Size, starting at Start (the first bin boundary at or before the
// span's lower bound, reached by stepping from origin), ending at End
// (the last bin boundary at or after the span's upper bound).
type Bins struct {
	Count int
	Start value.Value
	End   value.Value
	Size  float64
}

// SpanNumBins aligns s against size-wide bins anchored at origin,
// rejecting non-positive sizes and overflow-causing origin shifts
// (spec.md §4.C8).
func SpanNumBins(s span.Span, size float64, origin value.Value) (Bins, *temperr.Error) {
	if size <= 0 {
		return Bins{}, temperr.New(temperr.InvalidInput, "tile: bin size must be positive")
	}
	if origin.Tag != s.Lower.Tag {
		return Bins{}, temperr.New(temperr.TypeMismatch, "tile: origin must share the span's base type")
	}
	lo := s.Lower.Number()
	hi := s.Upper.Number()
	o := origin.Number()

	firstIdx := math.Floor((lo - o) / size)
	lastIdx := math.Floor((hi - o) / size)
	// An inclusive upper bound that lands exactly on a bin boundary
	// still belongs to the previous bin's half-open range.
	if s.UpperInc && math.Mod(hi-o, size) == 0 {
		lastIdx--
	}
	count := int(lastIdx-firstIdx) + 1
	if count < 1 {
		return Bins{}, temperr.New(temperr.OutOfRange, "tile: span produced a non-positive bin count")
	}
	start := o + firstIdx*size
	end := o + (lastIdx+1)*size
	if math.IsInf(start, 0) || math.IsInf(end, 0) {
		return Bins{}, temperr.New(temperr.OutOfRange, "tile: bin origin shift overflowed")
	}
	return Bins{
		Count: count,
		Start: s.Lower.WithNumber(start),
		End:   s.Lower.WithNumber(end),
		Size:  size,
	}, nil
}

// bounds returns bin i's half-open [lower, upper) span.
func (b Bins) bounds(i int) span.Span {
	lo := b.Start.Number() + float64(i)*b.Size
	hi := lo + b.Size
	return span.MustMake(b.Start.WithNumber(lo), b.Start.WithNumber(hi), true, false)
}

// SpanBins emits every bin-span intersecting s.
func SpanBins(s span.Span, size float64, origin value.Value) ([]span.Span, *temperr.Error) {
	b, err := SpanNumBins(s, size, origin)
	if err != nil {
		return nil, err
	}
	out := make([]span.Span, 0, b.Count)
	for i := 0; i < b.Count; i++ {
		bin := b.bounds(i)
		if span.Overlaps(bin, s) {
			out = append(out, bin)
		}
	}
	return out, nil
}

// SpanSetBins emits, per bin intersecting ss's bounding span, the
// bounding span of ss intersected with that bin.
func SpanSetBins(ss span.SpanSet, size float64, origin value.Value) ([]span.Span, *temperr.Error) {
	bbox, ok := ss.Bbox()
	if !ok {
		return nil, nil
	}
	bins, err := SpanBins(bbox, size, origin)
	if err != nil {
		return nil, err
	}
	out := make([]span.Span, 0, len(bins))
	for _, bin := range bins {
		inter := span.SpanSetIntersection(ss, span.New([]span.Span{bin}))
		if inter.IsEmpty() {
			continue
		}
		ibbox, ok := inter.Bbox()
		if ok {
			out = append(out, ibbox)
		}
	}
	return out, nil
}

// ValueBins emits, per value-bin intersecting temp's numeric range,
// the bounding value-span of at(temp, bin).
func ValueBins(temp temporal.Value, vsize float64, vorigin value.Value) ([]span.Span, *temperr.Error) {
	bbox, ok := valueBbox(temp)
	if !ok {
		return nil, nil
	}
	bins, err := SpanBins(bbox, vsize, vorigin)
	if err != nil {
		return nil, err
	}
	out := make([]span.Span, 0, len(bins))
	for _, bin := range bins {
		at, ok, aerr := restrict.AtSpan(temp, bin)
		if aerr != nil {
			return nil, aerr
		}
		if !ok {
			continue
		}
		if b, ok := valueBbox(at); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// TimeBins emits, per time-bin intersecting temp's time extent, the
// bounding time-span of at(temp, bin).
func TimeBins(temp temporal.Value, duration temporal.Timestamp, torigin temporal.Timestamp) ([]span.Span, *temperr.Error) {
	period := timePeriod(temp)
	bins, err := SpanBins(period, float64(duration), timestampValue(torigin))
	if err != nil {
		return nil, err
	}
	out := make([]span.Span, 0, len(bins))
	for _, bin := range bins {
		at, ok, aerr := restrict.AtPeriod(temp, bin)
		if aerr != nil {
			return nil, aerr
		}
		if ok {
			if b, ok := at.TimeSpanSet().Bbox(); ok {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// ValueTimeBins composes value and time bins into a 2-D grid,
// iterating row-major by value then by time, each cell holding
// at(temp, box).
func ValueTimeBins(temp temporal.Value, vsize float64, duration temporal.Timestamp, vorigin value.Value, torigin temporal.Timestamp) ([]temporal.Value, *temperr.Error) {
	vbbox, ok := valueBbox(temp)
	if !ok {
		return nil, nil
	}
	vbins, err := SpanBins(vbbox, vsize, vorigin)
	if err != nil {
		return nil, err
	}
	period := timePeriod(temp)
	tbins, err := SpanBins(period, float64(duration), timestampValue(torigin))
	if err != nil {
		return nil, err
	}
	var out []temporal.Value
	for _, vb := range vbins {
		for _, tb := range tbins {
			out2, ok, berr := restrict.AtBox(temp, restrict.Box{ValueSpan: vb, TimeSpan: tb})
			if berr != nil {
				return nil, berr
			}
			if ok {
				out = append(out, out2)
			}
		}
	}
	return out, nil
}

func valueBbox(temp temporal.Value) (span.Span, bool) {
	switch v := temp.(type) {
	case temporal.Instant:
		return span.MustMake(v.Val, v.Val, true, true), true
	case temporal.Sequence:
		return sequenceValueBbox(v)
	case temporal.SequenceSet:
		var out span.Span
		first := true
		for i := 0; i < v.NumSequences(); i++ {
			b, ok := sequenceValueBbox(v.SequenceN(i))
			if !ok {
				continue
			}
			if first {
				out, first = b, false
				continue
			}
			out = span.Expand(out, b)
		}
		return out, !first
	default:
		return span.Span{}, false
	}
}

func sequenceValueBbox(s temporal.Sequence) (span.Span, bool) {
	if s.NumInstants() == 0 {
		return span.Span{}, false
	}
	if !basetype.IsNumber(s.InstantN(0).Val.Tag) {
		return span.Span{}, false
	}
	lo, hi := s.InstantN(0).Val.Number(), s.InstantN(0).Val.Number()
	for i := 1; i < s.NumInstants(); i++ {
		n := s.InstantN(i).Val.Number()
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return span.MustMake(s.InstantN(0).Val.WithNumber(lo), s.InstantN(0).Val.WithNumber(hi), true, true), true
}

func timePeriod(temp temporal.Value) span.Span {
	bbox, _ := temp.TimeSpanSet().Bbox()
	return bbox
}

func timestampValue(t temporal.Timestamp) value.Value {
	return value.Value{Tag: basetype.TimestampTz, Int: int64(t)}
}
