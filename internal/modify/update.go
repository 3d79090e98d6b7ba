package modify

import (
	"github.com/meosgo/meos/internal/restrict"
	"github.com/meosgo/meos/internal/span"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
)

// Update is insert(minus(a, time(b)), b, connect): b's time extent
// always wins over a's prior values there (spec.md §4.C7).
func Update(a, b temporal.Value, connect bool) (temporal.Value, *temperr.Error) {
	remainder, ok, err := restrict.MinusPeriodSet(a, b.TimeSpanSet())
	if err != nil {
		return nil, err
	}
	if !ok {
		return b, nil
	}
	return Insert(remainder, b, connect)
}

// Delete removes x's time extent from a, optionally gluing the
// surviving pieces that end up touching back into continuous runs.
func Delete(a temporal.Value, x span.SpanSet, connect bool) (temporal.Value, bool, *temperr.Error) {
	out, ok, err := restrict.MinusPeriodSet(a, x)
	if err != nil || !ok {
		return out, ok, err
	}
	if !connect {
		return out, true, nil
	}
	pieces := flattenPieces(out)
	glued, gerr := assemble(pieces, true)
	if gerr != nil {
		return nil, false, gerr
	}
	return glued, true, nil
}
