package lift

import (
	"github.com/meosgo/meos/internal/segment"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// productTPFunc adapts segment.FloatProductTurningPoint, which solves
// only for the extremum's timestamp, to Func.TPFunc's (t, v, ok) shape
// by evaluating both synchronized segments at that timestamp and
// multiplying.
func productTPFunc(a1, a2, b1, b2 segment.Sample) (temporal.Timestamp, value.Value, bool) {
	t, ok := segment.FloatProductTurningPoint(a1, a2, b1, b2)
	if !ok {
		return 0, value.Value{}, false
	}
	va := segment.ValueAt(a1, a2, temporal.Linear, t)
	vb := segment.ValueAt(b1, b2, temporal.Linear, t)
	return t, va.WithNumber(va.Number() * vb.Number()), true
}

// Multiply is the tfloat * tfloat lifted function (spec.md's Open
// Question on product turning points): BinaryTemporal synchronizes
// both operands and productTPFunc inserts the instant where the
// product's derivative is zero, so linear interpolation between
// samples reproduces the true quadratic exactly at its extremum
// instead of just chording between the synchronized endpoints.
var Multiply = Func{
	Name:         "tfloat_mult",
	Arity:        BinaryTemporal,
	ResultLinear: true,
	BinaryFn: func(a, b value.Value) value.Value {
		return a.WithNumber(a.Number() * b.Number())
	},
	TPFunc: productTPFunc,
}
