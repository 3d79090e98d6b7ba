package aggregate

import (
	"golang.org/x/sync/errgroup"

	"github.com/go-kit/log/level"

	"github.com/meosgo/meos/internal/obslog"
	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
)

// combineParallelThreshold is the node count above which Combine
// snapshots its two inputs on separate goroutines rather than
// sequentially (spec.md §5: combine of independently-owned
// accumulators has no shared mutable state to race on).
const combineParallelThreshold = 256

// snapshot walks sl's bottom level into a plain slice without
// mutating sl, so two accumulators can be read concurrently.
func snapshot(sl *SkipList) []*node {
	nodes := make([]*node, 0, sl.count)
	for n := sl.head.forward[0]; n != nil; n = n.forward[0] {
		nodes = append(nodes, n)
	}
	return nodes
}

// Combine merges two partial accumulators of the same kind into a
// fresh one, as when a dataset is sharded across workers that each
// hold their own accumulator and the shards must be reconciled into
// one result. Works on raw per-timestamp state rather than on Final's
// divided-out values, so KindAvg's (sum, count) tuple combines without
// losing the original per-shard weighting. Grounded on
// pkg/traceqlmetrics.LatencyHistogram's Combine method and
// pkg/collector.DistinctValue's transition/combine split.
func Combine(a, b *SkipList) (*SkipList, *temperr.Error) {
	if a.kind != b.kind {
		err := temperr.New(temperr.TypeMismatch, "aggregate.Combine: accumulators of different kinds")
		level.Warn(obslog.Get()).Log("msg", "combine rejected mismatched accumulator kinds", "a", a.kind, "b", b.kind, "kind", err.Kind)
		return nil, err
	}
	if a.interp != b.interp {
		err := temperr.New(temperr.InterpolationMismatch, "aggregate.Combine: accumulators of different interpolations")
		level.Warn(obslog.Get()).Log("msg", "combine rejected mismatched accumulator interpolations", "a", a.interp, "b", b.interp, "kind", err.Kind)
		return nil, err
	}

	if a.interp != temporal.Discrete {
		return combineContinuous(a, b)
	}

	transition, err := transitionFor(a.kind)
	if err != nil {
		return nil, err
	}

	var aNodes, bNodes []*node
	if a.count > combineParallelThreshold && b.count > combineParallelThreshold {
		var g errgroup.Group
		g.Go(func() error {
			aNodes = snapshot(a)
			return nil
		})
		g.Go(func() error {
			bNodes = snapshot(b)
			return nil
		})
		_ = g.Wait()
	} else {
		aNodes = snapshot(a)
		bNodes = snapshot(b)
	}

	out := NewSkipList(a.kind, a.interp)
	for _, n := range aNodes {
		out.upsert(n.t, n.state, transition)
	}
	for _, n := range bNodes {
		out.upsert(n.t, n.state, transition)
	}
	return out, nil
}

// combineContinuous merges two Step/Linear accumulators' already-
// synchronized piece lists by splicing one side's pieces into a copy
// of the other's, through the same aggFuncFor transition Splice uses,
// rather than touching the discrete node list at all.
func combineContinuous(a, b *SkipList) (*SkipList, *temperr.Error) {
	f, err := aggFuncFor(a.kind)
	if err != nil {
		return nil, err
	}
	out := NewSkipList(a.kind, a.interp)
	out.cont.pieces = append(out.cont.pieces, a.cont.pieces...)
	for _, piece := range b.cont.pieces {
		if err := out.cont.spliceOne(piece, f); err != nil {
			return nil, err
		}
	}
	out.count = len(out.cont.pieces)
	return out, nil
}
