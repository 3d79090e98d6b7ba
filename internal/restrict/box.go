package restrict

import (
	"github.com/go-kit/log/level"

	"github.com/meosgo/meos/internal/obslog"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
)

// Box is a temporal-number's bounding box: a value-span crossed with a
// time-span (spec.md §4.C6's "temporal-number vs temporal-box").
type Box struct {
	ValueSpan span.Span
	TimeSpan  span.Span
}

// AtBox combines at(value-span) with at(time-span).
func AtBox(temp temporal.Value, box Box) (temporal.Value, bool, *temperr.Error) {
	byValue, ok, err := AtSpan(temp, box.ValueSpan)
	if err != nil {
		level.Debug(obslog.Get()).Log("msg", "at-box value restriction failed", "kind", err.Kind, "err", err)
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return AtPeriod(byValue, box.TimeSpan)
}

// MinusBox is not distributive over AtBox's two components: it is the
// time-complement of the At result, exactly as spec.md §4.C6's last
// bullet requires.
func MinusBox(temp temporal.Value, box Box) (temporal.Value, bool, *temperr.Error) {
	atResult, ok, err := AtBox(temp, box)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return temp, true, nil
	}
	comp := span.SpanSetDifference(span.New([]span.Span{domainPeriod(temp)}), atResult.TimeSpanSet())
	return AtPeriodSet(temp, comp)
}
