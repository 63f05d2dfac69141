package grid

import "errors"

// Error kinds surfaced by the conversion engine. All are detected
// synchronously before any destination allocation, so a failed call
// never leaves a partially written grid behind.
var (
	// ErrUnsupportedFormat indicates a sample format the buffer backend
	// cannot allocate.
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrDimensionality indicates a malformed axis list or an axis
	// reference that is out of range.
	ErrDimensionality = errors.New("bad dimensionality")

	// ErrDegenerateInput indicates a zero-extent axis. Grid construction
	// rejects these, but grids can arrive from storage, so the engine
	// validates again at its boundary.
	ErrDegenerateInput = errors.New("degenerate input")
)
