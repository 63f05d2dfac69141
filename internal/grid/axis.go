package grid

// AxisType is a human-readable name for one dimension of a grid, like
// "X" or "Channel".
type AxisType string

// Well-known axis types. Callers may use any tag; only AxisChannel has
// special meaning to the conversion engine.
const (
	AxisX       AxisType = "X"
	AxisY       AxisType = "Y"
	AxisZ       AxisType = "Z"
	AxisChannel AxisType = "Channel"
	AxisTime    AxisType = "Time"
)

// Axis describes one dimension of a grid: its tag, its extent in
// samples, and its calibration in physical-units-per-sample.
type Axis struct {
	Type   AxisType `json:"type"`
	Extent int      `json:"extent"`
	Cal    float64  `json:"cal"`
}

// AxisIndex returns the position of the axis with the given tag, or -1
// if no such axis exists.
func AxisIndex(axes []Axis, t AxisType) int {
	for i, a := range axes {
		if a.Type == t {
			return i
		}
	}
	return -1
}

// dropAxis returns a copy of axes with the entry at idx removed,
// preserving the relative order of the survivors.
func dropAxis(axes []Axis, idx int) []Axis {
	out := make([]Axis, 0, len(axes)-1)
	for i, a := range axes {
		if i != idx {
			out = append(out, a)
		}
	}
	return out
}

// cloneAxes returns an independent copy of axes.
func cloneAxes(axes []Axis) []Axis {
	out := make([]Axis, len(axes))
	copy(out, axes)
	return out
}
