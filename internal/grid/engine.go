package grid

import "fmt"

// ChangeType converts src to the given sample format and returns the
// result as a freshly owned grid. It is a pure function of its inputs:
// src is only read, and no destination is published before the walk
// completes.
//
// A colour-composite source (composite channel count equal to the
// channel axis extent) has its channel axis collapsed by averaging and
// comes back one rank lower, with composite metadata reset. A
// non-composite source converts element-wise with clamping. Converting
// a non-composite grid to its own format is a no-op that returns src
// itself.
func ChangeType(src *Grid, f SampleFormat) (*Grid, error) {
	if src.Rank() < 1 {
		return nil, fmt.Errorf("%w: grid has no axes", ErrDimensionality)
	}
	if _, err := DomainOf(f); err != nil {
		return nil, err
	}

	isColor := false
	if chIdx := src.ChannelIndex(); chIdx >= 0 {
		isColor = src.CompositeChannels == src.Axes[chIdx].Extent
	}

	if src.Format == f && !isColor {
		return src, nil
	}

	if isColor {
		dst, err := reduceChannels(src, f)
		if err != nil {
			return nil, err
		}
		dst.CompositeChannels = 1
		dst.RGBMerged = false
		return dst, nil
	}

	dst, err := convertGrid(src, f)
	if err != nil {
		return nil, err
	}
	dst.CompositeChannels = src.CompositeChannels
	dst.RGBMerged = src.RGBMerged
	return dst, nil
}
