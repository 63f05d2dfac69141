package grid

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics over a grid's samples.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes min/max/mean/stddev over every sample of g.
func Summarize(g *Grid) Summary {
	vals := g.Samples()
	if len(vals) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(vals, nil)
	s := Summary{
		Count: len(vals),
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
		Mean:  mean,
	}
	// MeanStdDev returns NaN for a single sample; report 0 spread.
	if len(vals) > 1 {
		s.StdDev = std
	}
	return s
}

// Histogram buckets the samples of g into bins equal-width bins over
// [min, max]. It returns the bin lower edges and counts. Used by the
// monitor endpoints.
func Histogram(g *Grid, bins int) (edges []float64, counts []int) {
	if bins < 1 {
		bins = 1
	}
	vals := g.Samples()
	edges = make([]float64, bins)
	counts = make([]int, bins)
	if len(vals) == 0 {
		return edges, counts
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	if width == 0 {
		counts[0] = len(vals)
		return edges, counts
	}
	for _, v := range vals {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	return edges, counts
}
