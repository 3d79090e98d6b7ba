// Package aggregate implements the aggregation engine (C9): a
// skiplist-ordered accumulator keyed by timestamp, its per-kind
// transition functions, final functions that materialize a temporal
// result, and a parallel combine over partial accumulators. Grounded
// on internal/temporal/normalize.go's sorted-merge shape for the
// node-splice discipline, and on pkg/collector's accumulator-with-
// limits idiom (NewDistinctValue/Collect/Values) for the
// accumulate-then-finalize split this package follows.
package aggregate

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/meosgo/meos/internal/temperr"
	"github.com/meosgo/meos/internal/temporal"
	"github.com/meosgo/meos/internal/value"
)

const maxLevel = 16
const levelProbability = 0.25

// Kind identifies which transition/final function pair a SkipList
// runs, mirroring spec.md §4.C9's temporal_tagg family.
type Kind int

const (
	KindAnd Kind = iota
	KindOr
	KindMin
	KindMax
	KindSum
	KindCount
	KindAvg
)

func (k Kind) String() string {
	switch k {
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindMin:
		return "min"
	case KindMax:
		return "max"
	case KindSum:
		return "sum"
	case KindCount:
		return "count"
	case KindAvg:
		return "avg"
	default:
		return "unknown"
	}
}

// node is one skiplist entry: the timestamp key, the accumulated
// state at that timestamp, and the forward pointers at each level it
// participates in.
type node struct {
	t       temporal.Timestamp
	state   value.Value
	forward []*node
}

// SkipList is the C9 accumulator. Discrete interpolation accumulates
// by instant: an ordered, timestamp-keyed list of per-instant partial
// states (tinstant_tagg). Step/Linear interpolation accumulates by
// sequence instead, through the embedded continuous accumulator,
// which synchronizes overlapping pieces via C5's lifting engine
// (tsequence_tagg) rather than merging raw per-instant samples.
type SkipList struct {
	id        uuid.UUID
	kind      Kind
	interp    temporal.Interpolation
	level     int
	maxLevel  int
	levelProb float64
	head      *node
	count     int
	liveCount atomic.Int64
	rnd       *rand.Rand
	cont      continuous
}

// NewSkipList creates an empty accumulator for kind, tuned by
// DefaultConfig's skiplist parameters. interp is the interpolation
// carried by every spliced-in temporal value (mixing interpolations is
// an interpolation-mismatch error, per spec.md §7). Each accumulator
// is tagged with a fresh instance ID, the way
// friggdb/backend.BlockMeta tags a block distinctly from its content,
// so a host running many concurrent accumulators can correlate a
// Combine result back to the shards it came from.
func NewSkipList(kind Kind, interp temporal.Interpolation) *SkipList {
	return NewSkipListWithConfig(kind, interp, DefaultConfig())
}

// NewSkipListWithConfig is NewSkipList with explicit skiplist tuning,
// for callers that loaded cfg from a flag set or a YAML config file
// rather than running with the built-in defaults.
func NewSkipListWithConfig(kind Kind, interp temporal.Interpolation, cfg Config) *SkipList {
	lvl := cfg.MaxLevel
	if lvl <= 0 {
		lvl = maxLevel
	}
	prob := cfg.LevelProbability
	if prob <= 0 {
		prob = levelProbability
	}
	return &SkipList{
		id:        uuid.New(),
		kind:      kind,
		interp:    interp,
		level:     1,
		maxLevel:  lvl,
		levelProb: prob,
		head:      &node{forward: make([]*node, lvl)},
		rnd:       rand.New(rand.NewSource(1)),
	}
}

// ID returns the accumulator's instance identifier.
func (sl *SkipList) ID() uuid.UUID { return sl.id }

func (sl *SkipList) randomLevel() int {
	lvl := 1
	for lvl < sl.maxLevel && sl.rnd.Float64() < sl.levelProb {
		lvl++
	}
	return lvl
}

// find locates t, returning the node holding it (exact=true) or the
// node immediately before where it would be inserted, plus the update
// path needed to splice a new node in at every level.
func (sl *SkipList) find(t temporal.Timestamp) (*node, []*node, bool) {
	update := make([]*node, sl.maxLevel)
	cur := sl.head
	for i := sl.level - 1; i >= 0; i-- {
		for cur.forward[i] != nil && cur.forward[i].t < t {
			cur = cur.forward[i]
		}
		update[i] = cur
	}
	next := cur.forward[0]
	if next != nil && next.t == t {
		return next, update, true
	}
	return cur, update, false
}

// Count reports how many distinct timestamps a Discrete accumulator
// holds, or how many sequence pieces a Step/Linear accumulator holds.
func (sl *SkipList) Count() int { return sl.count }

// LiveCount is a lock-free count of the timestamps inserted by upsert:
// a snapshot safe to read from a metrics-scrape goroutine while the
// single writer that owns upsert keeps mutating the list, per spec.md
// §5's single-writer discipline for everything else. It matches Count
// for Discrete accumulators; Step/Linear accumulators never update it.
func (sl *SkipList) LiveCount() int64 { return sl.liveCount.Load() }

// upsert applies transition at t: merges with the existing state at t
// if present, else inserts incoming as the seed state.
func (sl *SkipList) upsert(t temporal.Timestamp, incoming value.Value, transition func(old, incoming value.Value) value.Value) {
	existing, update, found := sl.find(t)
	if found {
		existing.state = transition(existing.state, incoming)
		return
	}
	lvl := sl.randomLevel()
	if lvl > sl.level {
		for i := sl.level; i < lvl; i++ {
			update[i] = sl.head
		}
		sl.level = lvl
	}
	n := &node{t: t, state: incoming, forward: make([]*node, lvl)}
	for i := 0; i < lvl; i++ {
		n.forward[i] = update[i].forward[i]
		update[i].forward[i] = n
	}
	sl.count++
	sl.liveCount.Inc()
}

// Splice merges temp into the accumulator (spec.md §4.C9). Discrete
// values accumulate by instant (tinstant_tagg): the kind's transition
// function applies at each exact shared timestamp. Step/Linear values
// accumulate by sequence (tsequence_tagg): overlapping pieces are
// synchronized through C5's lifting engine, with turning-point
// insertion where the kind has one (min/max), instead of merging raw
// per-instant samples irrespective of where each input actually
// sampled.
func (sl *SkipList) Splice(temp temporal.Value) *temperr.Error {
	if temp.Interpolation() != sl.interp {
		return temperr.New(temperr.InterpolationMismatch, "aggregate.Splice: cannot mix interpolations within one accumulator")
	}
	if sl.interp == temporal.Discrete {
		transition, err := transitionFor(sl.kind)
		if err != nil {
			return err
		}
		for _, inst := range instantsOf(temp) {
			sl.upsert(inst.T, seedState(sl.kind, inst), transition)
		}
		return nil
	}
	f, err := aggFuncFor(sl.kind)
	if err != nil {
		return err
	}
	for _, seq := range asSequences(temp) {
		if err := sl.cont.spliceOne(seq, f); err != nil {
			return err
		}
	}
	sl.count = len(sl.cont.pieces)
	return nil
}

// instantsOf flattens an instant/sequence/sequence-set into its
// constituent instants.
func instantsOf(temp temporal.Value) []temporal.Instant {
	switch v := temp.(type) {
	case temporal.Instant:
		return []temporal.Instant{v}
	case temporal.Sequence:
		return v.Instants
	case temporal.SequenceSet:
		var out []temporal.Instant
		for i := 0; i < v.NumSequences(); i++ {
			out = append(out, v.SequenceN(i).Instants...)
		}
		return out
	default:
		return nil
	}
}

// transitionFor returns the per-timestamp merge function for kind.
// Avg accumulates a double2 (sum, count) tuple rather than a plain
// number; Final divides it out.
func transitionFor(kind Kind) (func(old, incoming value.Value) value.Value, *temperr.Error) {
	switch kind {
	case KindAnd:
		return func(old, incoming value.Value) value.Value {
			return value.Bool(old.Bool && incoming.Bool)
		}, nil
	case KindOr:
		return func(old, incoming value.Value) value.Value {
			return value.Bool(old.Bool || incoming.Bool)
		}, nil
	case KindMin:
		return func(old, incoming value.Value) value.Value {
			if value.Compare(incoming, old) < 0 {
				return incoming
			}
			return old
		}, nil
	case KindMax:
		return func(old, incoming value.Value) value.Value {
			if value.Compare(incoming, old) > 0 {
				return incoming
			}
			return old
		}, nil
	case KindSum:
		return func(old, incoming value.Value) value.Value {
			return old.WithNumber(old.Number() + incoming.Number())
		}, nil
	case KindCount:
		return func(old, incoming value.Value) value.Value {
			return value.Int8(old.Int + incoming.Int)
		}, nil
	case KindAvg:
		return func(old, incoming value.Value) value.Value {
			return value.MakeDouble2(old.D2[0]+incoming.D2[0], old.D2[1]+incoming.D2[1])
		}, nil
	default:
		return nil, temperr.New(temperr.Internal, "aggregate.transitionFor: unreachable kind")
	}
}

// seedState returns the initial per-timestamp state for a freshly
// spliced instant, since Count and Avg seed differently from a
// plain copy of the instant's own value.
func seedState(kind Kind, inst temporal.Instant) value.Value {
	switch kind {
	case KindCount:
		return value.Int8(1)
	case KindAvg:
		return value.MakeDouble2(inst.Val.Number(), 1)
	default:
		return inst.Val
	}
}
