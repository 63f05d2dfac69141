package grid

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	g, err := New("g", FormatFloat64, []Axis{{Type: AxisX, Extent: 4, Cal: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetSamples([]float64{2, 4, 4, 6}); err != nil {
		t.Fatal(err)
	}
	s := Summarize(g)
	if s.Count != 4 || s.Min != 2 || s.Max != 6 || s.Mean != 4 {
		t.Errorf("summary = %+v", s)
	}
	// Sample standard deviation of {2,4,4,6}.
	if want := math.Sqrt(8.0 / 3.0); math.Abs(s.StdDev-want) > 1e-12 {
		t.Errorf("stddev = %v, want %v", s.StdDev, want)
	}
}

func TestHistogram(t *testing.T) {
	g, err := New("g", FormatUint8, []Axis{{Type: AxisX, Extent: 6, Cal: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetSamples([]float64{0, 1, 2, 10, 11, 20}); err != nil {
		t.Fatal(err)
	}
	edges, counts := Histogram(g, 2)
	if len(edges) != 2 || len(counts) != 2 {
		t.Fatalf("got %d edges, %d counts", len(edges), len(counts))
	}
	if counts[0]+counts[1] != 6 {
		t.Errorf("counts %v do not cover all samples", counts)
	}
	if counts[0] != 3 || counts[1] != 3 {
		t.Errorf("counts = %v, want [3 3]", counts)
	}

	flat, _ := New("flat", FormatUint8, []Axis{{Type: AxisX, Extent: 3, Cal: 1}})
	flat.Fill(7)
	_, counts = Histogram(flat, 4)
	if counts[0] != 3 {
		t.Errorf("flat grid counts = %v, want all in bin 0", counts)
	}
}
