package value

import "sort"

// Set is a finite, strictly-ordered, duplicate-free sequence of base
// values of one tag (spec.md §3's "Set": timestamp-set, integer-set,
// text-set, ...). Grounded on friggdb/record.go's sorted-slice plus
// sort.Search binary search idiom.
type Set struct {
	tag    int
	values []Value
}

// NewSet sorts and dedupes vals, rejecting a mix of base types.
func NewSet(vals []Value) Set {
	if len(vals) == 0 {
		return Set{}
	}
	tag := vals[0].Tag
	for _, v := range vals[1:] {
		if v.Tag != tag {
			panic("value.NewSet: mixed base types")
		}
	}
	cp := make([]Value, len(vals))
	copy(cp, vals)
	sort.Slice(cp, func(i, j int) bool { return Compare(cp[i], cp[j]) < 0 })
	out := cp[:1]
	for _, v := range cp[1:] {
		if !Equal(v, out[len(out)-1]) {
			out = append(out, v)
		}
	}
	return Set{tag: int(tag), values: out}
}

func (s Set) Count() int       { return len(s.values) }
func (s Set) Values() []Value  { return s.values }
func (s Set) IsEmpty() bool    { return len(s.values) == 0 }

// FindElement binary-searches for v, returning (index, true) when
// present or the insertion point and false otherwise.
func (s Set) FindElement(v Value) (int, bool) {
	i := sort.Search(len(s.values), func(i int) bool {
		return Compare(s.values[i], v) >= 0
	})
	if i < len(s.values) && Equal(s.values[i], v) {
		return i, true
	}
	return i, false
}

func (s Set) Contains(v Value) bool {
	_, ok := s.FindElement(v)
	return ok
}
