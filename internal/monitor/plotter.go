package monitor

import (
	"fmt"
	"io"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/pixelgrid/internal/grid"
)

// gridSlice adapts an X/Y plane of a grid to plotter.GridXYZ. Axes
// beyond the first two are held at coordinate zero; calibration scales
// the plot coordinates into physical units.
type gridSlice struct {
	g   *grid.Grid
	p   []int
	xAx int
	yAx int
}

func newGridSlice(g *grid.Grid) (*gridSlice, error) {
	xAx, yAx := -1, -1
	for i, a := range g.Axes {
		if a.Type == grid.AxisChannel {
			continue
		}
		if xAx < 0 {
			xAx = i
		} else if yAx < 0 {
			yAx = i
		}
	}
	if xAx < 0 || yAx < 0 {
		return nil, fmt.Errorf("grid has fewer than two spatial axes")
	}
	return &gridSlice{g: g, p: make([]int, g.Rank()), xAx: xAx, yAx: yAx}, nil
}

func (s *gridSlice) Dims() (c, r int) {
	return s.g.Axes[s.xAx].Extent, s.g.Axes[s.yAx].Extent
}

func (s *gridSlice) Z(c, r int) float64 {
	for i := range s.p {
		s.p[i] = 0
	}
	s.p[s.xAx] = c
	s.p[s.yAx] = r
	return s.g.At(s.p)
}

func (s *gridSlice) X(c int) float64 { return float64(c) * calOrOne(s.g.Axes[s.xAx].Cal) }
func (s *gridSlice) Y(r int) float64 { return float64(r) * calOrOne(s.g.Axes[s.yAx].Cal) }

func calOrOne(cal float64) float64 {
	if cal == 0 {
		return 1
	}
	return cal
}

// RenderSlice writes a PNG heatmap of the grid's first X/Y plane.
func RenderSlice(g *grid.Grid, w io.Writer) error {
	slice, err := newGridSlice(g)
	if err != nil {
		return err
	}
	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(slice, pal)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", g.Name, g.Format)
	p.X.Label.Text = string(g.Axes[slice.xAx].Type)
	p.Y.Label.Text = string(g.Axes[slice.yAx].Type)
	p.Add(hm)

	wt, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render slice: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write slice png: %w", err)
	}
	return nil
}

// handleSlicePNG serves the heatmap of one grid. Query param: grid_id.
func (ws *WebServer) handleSlicePNG(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("grid_id")
	if id == "" {
		ws.writeError(w, http.StatusBadRequest, "grid_id is required")
		return
	}
	g, err := ws.grids.Get(id)
	if err != nil {
		ws.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := RenderSlice(g, w); err != nil {
		ws.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
