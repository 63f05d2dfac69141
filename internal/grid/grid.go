package grid

import (
	"fmt"

	"github.com/google/uuid"
)

// Grid is an N-dimensional array of numeric samples in one fixed
// representation, with an ordered axis list and display metadata.
//
// A Grid exclusively owns its sample buffer and axis list. Conversion
// operations never alias buffers between source and destination.
type Grid struct {
	ID     string
	Name   string
	Format SampleFormat
	Axes   []Axis

	// CompositeChannels records how many leading channel-axis entries
	// form a colour composite for display. When it equals the channel
	// axis extent the grid is treated as a colour image and type
	// conversion collapses the channel axis.
	CompositeChannels int

	// RGBMerged marks a grid whose channels are displayed merged as a
	// single colour image.
	RGBMerged bool

	buf buffer
}

// New allocates a zeroed grid with the given format and axes. The axis
// list is copied. Axis tags must be unique and every extent must be at
// least one.
func New(name string, f SampleFormat, axes []Axis) (*Grid, error) {
	if len(axes) < 1 {
		return nil, fmt.Errorf("%w: grid needs at least one axis", ErrDimensionality)
	}
	seen := make(map[AxisType]bool, len(axes))
	n := 1
	for _, a := range axes {
		if a.Extent < 1 {
			return nil, fmt.Errorf("%w: axis %s has extent %d", ErrDegenerateInput, a.Type, a.Extent)
		}
		if seen[a.Type] {
			return nil, fmt.Errorf("%w: duplicate axis %s", ErrDimensionality, a.Type)
		}
		seen[a.Type] = true
		n *= a.Extent
	}
	buf, err := allocBuffer(f, n)
	if err != nil {
		return nil, err
	}
	return &Grid{
		ID:                uuid.New().String(),
		Name:              name,
		Format:            f,
		Axes:              cloneAxes(axes),
		CompositeChannels: 1,
		buf:               buf,
	}, nil
}

// FromBlob reconstructs a grid from its persisted form: axis list,
// format, and the little-endian sample blob produced by SampleBlob.
func FromBlob(name string, f SampleFormat, axes []Axis, blob []byte) (*Grid, error) {
	g, err := New(name, f, axes)
	if err != nil {
		return nil, err
	}
	buf, err := decodeBuffer(f, g.Size(), blob)
	if err != nil {
		return nil, err
	}
	g.buf = buf
	return g, nil
}

// Rank returns the number of axes.
func (g *Grid) Rank() int { return len(g.Axes) }

// Size returns the total sample count (product of axis extents).
func (g *Grid) Size() int { return g.buf.Len() }

// AxisIndex returns the position of the axis with the given tag, or -1.
func (g *Grid) AxisIndex(t AxisType) int { return AxisIndex(g.Axes, t) }

// ChannelIndex returns the position of the channel axis, or -1 when the
// grid has no channel axis.
func (g *Grid) ChannelIndex() int { return g.AxisIndex(AxisChannel) }

// Extents returns the axis extents in order.
func (g *Grid) Extents() []int {
	out := make([]int, len(g.Axes))
	for i, a := range g.Axes {
		out[i] = a.Extent
	}
	return out
}

// offset maps a coordinate vector to a flat buffer index. Layout is
// first axis fastest: idx = p0 + e0*(p1 + e1*(p2 + ...)), the
// generalisation of ring*bins+bin indexing to N axes.
func (g *Grid) offset(p []int) int {
	idx := 0
	for i := len(g.Axes) - 1; i >= 0; i-- {
		idx = idx*g.Axes[i].Extent + p[i]
	}
	return idx
}

// At returns the sample at coordinate p as a float64.
func (g *Grid) At(p []int) float64 { return g.buf.Get(g.offset(p)) }

// SetAt writes the sample at coordinate p. The value is stored in the
// grid's native representation; integer formats round to nearest.
func (g *Grid) SetAt(p []int, v float64) { g.buf.Set(g.offset(p), v) }

// AtIndex reads the sample at flat storage index i, in storage order.
func (g *Grid) AtIndex(i int) float64 { return g.buf.Get(i) }

// SetIndex writes the sample at flat storage index i.
func (g *Grid) SetIndex(i int, v float64) { g.buf.Set(i, v) }

// Samples returns all samples in storage order as float64.
func (g *Grid) Samples() []float64 {
	out := make([]float64, g.Size())
	for i := range out {
		out[i] = g.buf.Get(i)
	}
	return out
}

// SetSamples fills the grid from a storage-order value slice. Values
// are stored through the native representation, so out-of-range inputs
// saturate at its limits; use the conversion engine for domain-aware
// clamping.
func (g *Grid) SetSamples(vals []float64) error {
	if len(vals) != g.Size() {
		return fmt.Errorf("%w: %d samples for size-%d grid", ErrDimensionality, len(vals), g.Size())
	}
	for i, v := range vals {
		g.buf.Set(i, v)
	}
	return nil
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float64) {
	for i := 0; i < g.buf.Len(); i++ {
		g.buf.Set(i, v)
	}
}

// SampleBlob returns the samples encoded little-endian at native width,
// for persistence.
func (g *Grid) SampleBlob() []byte { return g.buf.encode() }

// Clone returns a deep copy sharing nothing with the receiver.
func (g *Grid) Clone() *Grid {
	return &Grid{
		ID:                g.ID,
		Name:              g.Name,
		Format:            g.Format,
		Axes:              cloneAxes(g.Axes),
		CompositeChannels: g.CompositeChannels,
		RGBMerged:         g.RGBMerged,
		buf:               g.buf.clone(),
	}
}
