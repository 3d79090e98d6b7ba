package temporal

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/meosgo/meos/internal/temperr"
)

// Builder is an expandable buffer for appending instants in place,
// the Go realization of DESIGN NOTES' "appendable, self-extending
// sequences" without the source's realloc-may-alias-the-argument
// hazard: Go's append already returns a (possibly new) backing array,
// so the caller adopts Builder.Instants() after every AppendInstant,
// never the stale slice header. Grounded on friggdb/wal's head-block
// growth-by-append idiom.
type Builder struct {
	instants []Instant
	lowerInc bool
	upperInc bool
	interp   Interpolation
	grows    atomic.Int64
}

// NewBuilder pre-allocates capacity instants of room.
func NewBuilder(capacity int, lowerInc bool, interp Interpolation) *Builder {
	if capacity < 1 {
		capacity = 1
	}
	return &Builder{instants: make([]Instant, 0, capacity), lowerInc: lowerInc, upperInc: true, interp: interp}
}

// AppendInstant appends inst, enforcing strict timestamp ordering.
// Returns grew=true if the underlying array was reallocated (capacity
// exceeded), matching the bool the source's `expand` flag reported.
func (b *Builder) AppendInstant(inst Instant) (grew bool, err *temperr.Error) {
	if n := len(b.instants); n > 0 {
		last := b.instants[n-1]
		if inst.T < last.T {
			return false, temperr.New(temperr.OrderingViolation, fmt.Sprintf("builder append must be strictly increasing in time (buffer already holds %s instants)", temperr.FormatCount(len(b.instants))))
		}
		if inst.T == last.T {
			return false, temperr.New(temperr.OrderingViolation, "builder append at duplicate timestamp is not a buffer append, use AppendInstant via modify.AppendInstant")
		}
	}
	before := cap(b.instants)
	b.instants = append(b.instants, inst)
	grew = cap(b.instants) != before
	if grew {
		b.grows.Inc()
	}
	return grew, nil
}

// Grows reports how many times the backing array has been
// reallocated. Safe to read from a metrics-scrape goroutine
// concurrent with the single writer that owns AppendInstant, per
// spec.md §5's single-writer discipline.
func (b *Builder) Grows() int64 { return b.grows.Load() }

// Len returns the number of buffered instants.
func (b *Builder) Len() int { return len(b.instants) }

// Instants returns the current backing slice; the caller must
// unconditionally adopt it (it may differ from a previously returned
// slice after growth), per spec.md §5's memory discipline.
func (b *Builder) Instants() []Instant { return b.instants }

// Build finalizes the buffer into an immutable Sequence.
func (b *Builder) Build(normalize bool) (Sequence, *temperr.Error) {
	return NewSequence(b.instants, b.lowerInc, b.upperInc, b.interp, normalize)
}

// SetUpperInc allows the caller to close the buffer's upper bound
// before Build, since a growing buffer is conventionally
// right-open until the stream producing it ends.
func (b *Builder) SetUpperInc(inc bool) { b.upperInc = inc }
