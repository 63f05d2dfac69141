package grid

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// reduceChannels converts src into format f while collapsing its
// channel axis: each destination sample is the unweighted arithmetic
// mean of the source's channel column at that position, clamped into
// f's domain. The destination keeps the surviving axes in source order,
// so its rank is src.Rank()-1 when a channel axis exists.
//
// A grid without a channel axis reduces over a singleton column, which
// degenerates to a plain clamped copy through the same code path.
func reduceChannels(src *Grid, f SampleFormat) (*Grid, error) {
	srcDom, err := DomainOf(src.Format)
	if err != nil {
		return nil, err
	}
	dstDom, err := DomainOf(f)
	if err != nil {
		return nil, err
	}

	rank := src.Rank()
	if rank < 1 {
		return nil, fmt.Errorf("%w: grid has no axes", ErrDimensionality)
	}
	chIdx := src.ChannelIndex()
	if chIdx >= rank {
		return nil, fmt.Errorf("%w: channel axis %d of %d", ErrDimensionality, chIdx, rank)
	}
	chExtent := 1
	if chIdx >= 0 {
		if rank == 1 {
			return nil, fmt.Errorf("%w: collapsing the channel axis would leave grid %q with no axes", ErrDimensionality, src.Name)
		}
		chExtent = src.Axes[chIdx].Extent
		if chExtent < 1 {
			return nil, fmt.Errorf("%w: channel axis has extent %d", ErrDegenerateInput, chExtent)
		}
	}

	// Inner space: the channel column, zero on every other axis.
	innerMin := make([]int, rank)
	innerMax := make([]int, rank)
	if chIdx >= 0 {
		innerMax[chIdx] = chExtent - 1
	}
	inner, err := NewPointSpace(innerMin, innerMax)
	if err != nil {
		return nil, err
	}

	// Outer space: full extents everywhere except the channel slot,
	// which stays pinned to zero.
	outerMin := make([]int, rank)
	outerMax := make([]int, rank)
	for i, a := range src.Axes {
		if i != chIdx {
			outerMax[i] = a.Extent - 1
		}
	}
	outer, err := NewPointSpace(outerMin, outerMax)
	if err != nil {
		return nil, err
	}
	ca, err := NewCrossAxis(inner, outer)
	if err != nil {
		return nil, err
	}

	dstAxes := cloneAxes(src.Axes)
	if chIdx >= 0 {
		dstAxes = dropAxis(dstAxes, chIdx)
	}
	dst, err := New(src.Name, f, dstAxes)
	if err != nil {
		return nil, err
	}

	column := make([]float64, 0, chExtent)
	outPt := make([]int, len(dstAxes))
	for it := ca.Iter(); it.Next(); {
		column = column[:0]
		for col := it.Column(); col.Next(); {
			column = append(column, src.At(col.Point()))
		}
		v := clampTo(dstDom, srcDom, stat.Mean(column, nil))
		dst.SetAt(stripChannel(it.Anchor(), chIdx, outPt), v)
	}
	return dst, nil
}

// stripChannel copies src into dst skipping the channel slot.
func stripChannel(src []int, chIdx int, dst []int) []int {
	o := 0
	for i, v := range src {
		if i != chIdx {
			dst[o] = v
			o++
		}
	}
	return dst
}
