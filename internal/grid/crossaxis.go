package grid

import "fmt"

// CrossAxis composes two point spaces of equal rank: an outer space
// covering every axis except the channel axis (channel slot pinned),
// and an inner space covering only the channel column. For each outer
// anchor it yields the inner column translated to that anchor. This is
// the traversal the channel reducer runs on: one aggregate per anchor,
// computed over the anchored column.
type CrossAxis struct {
	inner *PointSpace
	outer *PointSpace
}

// NewCrossAxis pairs an inner (channel column) space with an outer
// (everything else) space. Both must have the full grid rank.
func NewCrossAxis(inner, outer *PointSpace) (*CrossAxis, error) {
	if inner.Rank() != outer.Rank() {
		return nil, fmt.Errorf("%w: inner rank %d, outer rank %d", ErrDimensionality, inner.Rank(), outer.Rank())
	}
	return &CrossAxis{inner: inner, outer: outer}, nil
}

// Iter returns a fresh, rewound traversal. Its length equals the outer
// space's size.
func (ca *CrossAxis) Iter() *CrossAxisIter {
	return &CrossAxisIter{ca: ca, outer: ca.outer.Iter()}
}

// CrossAxisIter produces one anchor per outer point.
type CrossAxisIter struct {
	ca    *CrossAxis
	outer *PointIter
}

// Next advances to the next anchor.
func (it *CrossAxisIter) Next() bool { return it.outer.Next() }

// Anchor returns the current outer point. The slice is reused between
// calls to Next.
func (it *CrossAxisIter) Anchor() []int { return it.outer.Point() }

// Column returns a rewound walk over the inner points translated to the
// current anchor.
func (it *CrossAxisIter) Column() *ColumnIter {
	return &ColumnIter{
		inner:  it.ca.inner.Iter(),
		anchor: it.outer.Point(),
		p:      make([]int, it.ca.inner.Rank()),
	}
}

// ColumnIter walks one anchored channel column.
type ColumnIter struct {
	inner  *PointIter
	anchor []int
	p      []int
}

// Next advances to the next point of the column.
func (it *ColumnIter) Next() bool { return it.inner.Next() }

// Point returns the current column coordinate: anchor plus inner point,
// coordinate-wise. The slice is reused between calls to Next.
func (it *ColumnIter) Point() []int {
	in := it.inner.Point()
	for i := range it.p {
		it.p[i] = it.anchor[i] + in[i]
	}
	return it.p
}
