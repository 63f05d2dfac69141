package grid

// clampTo maps one real-valued sample into the destination domain. A
// positive sample from a one-bit source saturates to the destination
// maximum regardless of magnitude; everything else clamps to
// [dst.Min, dst.Max]. Values already inside the range pass unchanged.
//
// The same policy applies whether v is a raw sample or an
// already-averaged channel value; averaging happens in float64 before
// this clamp, so narrow integer intermediates never touch the mean.
func clampTo(dst, src Domain, v float64) float64 {
	if src.OneBit && v > 0 {
		return dst.Max
	}
	if v < dst.Min {
		return dst.Min
	}
	if v > dst.Max {
		return dst.Max
	}
	return v
}

// convertGrid copies src into a freshly allocated grid of format f with
// identical axes, clamping every sample into f's domain. No axis
// change occurs.
func convertGrid(src *Grid, f SampleFormat) (*Grid, error) {
	srcDom, err := DomainOf(src.Format)
	if err != nil {
		return nil, err
	}
	dstDom, err := DomainOf(f)
	if err != nil {
		return nil, err
	}
	dst, err := New(src.Name, f, src.Axes)
	if err != nil {
		return nil, err
	}
	for it := fullSpace(src.Extents()).Iter(); it.Next(); {
		p := it.Point()
		dst.SetAt(p, clampTo(dstDom, srcDom, src.At(p)))
	}
	return dst, nil
}
