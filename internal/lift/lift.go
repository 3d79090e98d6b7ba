// Package lift implements the pointwise and synchronized lifting
// engine (C5): extending ordinary scalar functions to operate on
// temporal values, with turning-point insertion for functions that
// have one, and discontinuous splitting (sequence-set production) for
// functions like comparisons whose result value jumps instantaneously.
//
// DESIGN NOTES calls for a tagged variant over argument arities instead
// of a variadic function-pointer union: Func below is exactly that —
// a sealed struct selected by Arity, never a function-pointer union or
// an interface satisfied by ad hoc types.
package lift

import (
	"github.com/meosgo/meos/internal/basetype"
	"github.com/meosgo/meos/internal/segment"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

// Arity distinguishes the three call shapes a lifted function info can
// describe.
type Arity int

const (
	Unary Arity = iota
	BinaryBase
	BinaryTemporal
)

// Comparison names a relational operator, used only to pick the exact
// closed-form crossing test for the common discontinuous case (a
// temporal value compared against a threshold) instead of falling back
// to a midpoint estimate.
type Comparison int

const (
	NotComparison Comparison = iota
	CmpLT
	CmpLE
	CmpGT
	CmpGE
	CmpEQ
	CmpNE
)

// Func bundles a scalar function together with everything the lifting
// engine needs to extend it correctly (spec.md §4.C5's "lifted
// function info").
type Func struct {
	Name            string
	Arity           Arity
	UnaryFn         func(value.Value) value.Value
	BinaryFn        func(a, b value.Value) value.Value
	ResultTag       basetype.Tag
	InvertArgs      bool
	ResultLinear    bool
	IsDiscontinuous bool
	Comparison      Comparison

	// TPFuncBase computes the turning point of f(temp(t), base) between
	// two synchronized linear samples, for a non-discontinuous,
	// turning-point-bearing f (e.g. distance to a fixed point).
	TPFuncBase func(s1, s2 segment.Sample, base value.Value) (temporal.Timestamp, value.Value, bool)
	// TPFunc computes the turning point of f(a(t), b(t)) between two
	// pairs of synchronized linear samples.
	TPFunc func(a1, a2, b1, b2 segment.Sample) (temporal.Timestamp, value.Value, bool)
}

func (f Func) applyBinary(a, b value.Value) value.Value {
	if f.InvertArgs {
		return f.BinaryFn(b, a)
	}
	return f.BinaryFn(a, b)
}

// Unary maps f over every instant of temp, taking the resulting
// temporal type's interpolation from f.ResultLinear.
func Unary(f Func, temp temporal.Value) (temporal.Value, *temperr.Error) {
	switch v := temp.(type) {
	case temporal.Instant:
		return temporal.NewInstant(f.UnaryFn(v.Val), v.T), nil
	case temporal.Sequence:
		return unarySequence(f, v)
	case temporal.SequenceSet:
		var seqs []temporal.Sequence
		for i := 0; i < v.NumSequences(); i++ {
			out, err := unarySequence(f, v.SequenceN(i))
			if err != nil {
				return nil, err
			}
			if s, ok := out.(temporal.Sequence); ok {
				seqs = append(seqs, s)
			}
		}
		ss, err := temporal.NewSequenceSet(seqs, true)
		if err != nil {
			return nil, err
		}
		return ss, nil
	default:
		return nil, temperr.New(temperr.Internal, "lift.Unary: unreachable subtype")
	}
}

func unarySequence(f Func, s temporal.Sequence) (temporal.Value, *temperr.Error) {
	interp := s.Interp
	if interp != temporal.Discrete {
		if f.ResultLinear {
			interp = temporal.Linear
		} else {
			interp = temporal.Step
		}
	}
	instants := make([]temporal.Instant, s.NumInstants())
	for i := 0; i < s.NumInstants(); i++ {
		inst := s.InstantN(i)
		instants[i] = temporal.NewInstant(f.UnaryFn(inst.Val), inst.T)
	}
	return temporal.NewSequence(instants, s.LowerInc, s.UpperInc, interp, true)
}

func resultInterp(f Func, base temporal.Interpolation) temporal.Interpolation {
	if base == temporal.Discrete {
		return temporal.Discrete
	}
	if f.ResultLinear {
		return temporal.Linear
	}
	return temporal.Step
}
