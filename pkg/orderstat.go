package bgtools

import (
	"math/bits"
	"sort"
)

// RankSet is a multiset over a fixed set of values that supports insert,
// delete and k-th smallest lookup in O(log n) where n is the number of
// distinct values. Equal values are counted separately.
type RankSet struct {
	values []float64 // sorted distinct values
	tree   []int     // fenwick tree of counts, 1-based
	size   int
	top    int // largest power of two <= len(values)
}

// NewRankSet prepares an empty set able to hold any of the given values.
func NewRankSet(universe []float64) *RankSet {
	values := append([]float64(nil), universe...)
	sort.Float64s(values)
	n := 0
	for i, v := range values {
		if i == 0 || v != values[n-1] {
			values[n] = v
			n++
		}
	}
	values = values[:n]

	top := 0
	if n > 0 {
		top = 1 << (bits.Len(uint(n)) - 1)
	}
	return &RankSet{values: values, tree: make([]int, n+1), top: top}
}

func (s *RankSet) Len() int {
	return s.size
}

func (s *RankSet) rank(v float64) int {
	i := sort.SearchFloat64s(s.values, v)
	if i == len(s.values) || s.values[i] != v {
		panic("RankSet: value not in universe")
	}
	return i + 1
}

func (s *RankSet) add(i, d int) {
	for ; i < len(s.tree); i += i & -i {
		s.tree[i] += d
	}
}

func (s *RankSet) Insert(v float64) {
	s.add(s.rank(v), 1)
	s.size++
}

// Delete removes one copy of v. v must be in the set.
func (s *RankSet) Delete(v float64) {
	s.add(s.rank(v), -1)
	s.size--
}

// Select returns the k-th smallest member, counting from 0.
func (s *RankSet) Select(k int) float64 {
	if k < 0 || k >= s.size {
		panic("RankSet: rank out of range")
	}
	pos := 0
	rem := k + 1
	for step := s.top; step > 0; step >>= 1 {
		if next := pos + step; next < len(s.tree) && s.tree[next] < rem {
			pos = next
			rem -= s.tree[next]
		}
	}
	return s.values[pos]
}

// Median returns the middle member, or the mean of the two middle members
// when the set has an even size.
func (s *RankSet) Median() float64 {
	n := s.size
	if n%2 == 1 {
		return s.Select(n / 2)
	}
	return (s.Select(n/2-1) + s.Select(n/2)) / 2
}

func (s *RankSet) Clear() {
	for i := range s.tree {
		s.tree[i] = 0
	}
	s.size = 0
}
