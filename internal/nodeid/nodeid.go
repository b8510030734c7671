// Package nodeid defines node identifiers as they appear in selection and
// visibility sets.
//
// A node id is an int. A negative id denotes the "reference variant" of the
// node whose canonical id is its absolute value: callers that need to look a
// node up in a snapshot must pass the id through Canonical first.
package nodeid

import (
	"slices"
)

// Canonical returns the canonical node id for id. Reference variants
// (negative ids) map onto the id of the node they refer to.
func Canonical(id int) int {
	if id < 0 {
		return -id
	}
	return id
}

// IsReference reports whether id is the reference variant of a node.
func IsReference(id int) bool {
	return id < 0
}

// Set is an unordered set of node ids.
type Set map[int]struct{}

// NewSet creates a set holding the given ids.
func NewSet(ids ...int) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id int) {
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s Set) Remove(id int) {
	delete(s, id)
}

// Has reports whether id is a member of the set.
func (s Set) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set. A nil set clones to an empty one.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members of the set in ascending order.
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Canonicalized returns a new set where every reference variant has been
// replaced by its canonical id.
func (s Set) Canonicalized() Set {
	out := make(Set, len(s))
	for id := range s {
		out[Canonical(id)] = struct{}{}
	}
	return out
}
