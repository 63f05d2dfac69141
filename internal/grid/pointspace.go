package grid

import "fmt"

// PointSpace is a closed hyper-rectangle of integer coordinates
// [min_i, max_i] per axis. It produces finite, restartable walks over
// every point it contains, first axis fastest, matching the flat buffer
// layout.
type PointSpace struct {
	min []int
	max []int
}

// NewPointSpace builds a point space from corner vectors of equal,
// non-zero length with max_i >= min_i everywhere. An axis where
// min_i == max_i contributes exactly one value.
func NewPointSpace(min, max []int) (*PointSpace, error) {
	if len(min) == 0 || len(min) != len(max) {
		return nil, fmt.Errorf("%w: corners have lengths %d and %d", ErrDimensionality, len(min), len(max))
	}
	for i := range min {
		if max[i] < min[i] {
			return nil, fmt.Errorf("%w: axis %d range [%d,%d]", ErrDimensionality, i, min[i], max[i])
		}
	}
	ps := &PointSpace{min: make([]int, len(min)), max: make([]int, len(max))}
	copy(ps.min, min)
	copy(ps.max, max)
	return ps, nil
}

// fullSpace covers every coordinate of a grid's shape.
func fullSpace(extents []int) *PointSpace {
	min := make([]int, len(extents))
	max := make([]int, len(extents))
	for i, e := range extents {
		max[i] = e - 1
	}
	ps, _ := NewPointSpace(min, max)
	return ps
}

// Rank returns the coordinate vector length.
func (ps *PointSpace) Rank() int { return len(ps.min) }

// Size returns the number of points in the space.
func (ps *PointSpace) Size() int {
	n := 1
	for i := range ps.min {
		n *= ps.max[i] - ps.min[i] + 1
	}
	return n
}

// Iter returns a fresh iterator positioned before the first point.
// Each call yields an independent, rewound walk.
func (ps *PointSpace) Iter() *PointIter {
	it := &PointIter{ps: ps, pos: make([]int, len(ps.min))}
	it.Reset()
	return it
}

// PointIter walks a PointSpace. The slice returned by Point is reused
// between calls to Next; callers that retain a point must copy it.
type PointIter struct {
	ps      *PointSpace
	pos     []int
	started bool
	done    bool
}

// Reset rewinds the iterator to before the first point.
func (it *PointIter) Reset() {
	copy(it.pos, it.ps.min)
	it.started = false
	it.done = false
}

// Next advances to the next point, returning false once the space is
// exhausted.
func (it *PointIter) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		return true
	}
	for i := range it.pos {
		if it.pos[i] < it.ps.max[i] {
			it.pos[i]++
			return true
		}
		it.pos[i] = it.ps.min[i]
	}
	it.done = true
	return false
}

// Point returns the current coordinate vector. Only valid after Next
// has returned true.
func (it *PointIter) Point() []int { return it.pos }
