package monitor

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pixelgrid/internal/db"
	"github.com/banshee-data/pixelgrid/internal/grid"
	storesql "github.com/banshee-data/pixelgrid/internal/grid/storage/sqlite"
)

func setupMonitor(t *testing.T) (*httptest.Server, *storesql.GridStore, *storesql.ConversionStore) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.MigrateUp())

	grids := storesql.NewGridStore(d.DB)
	convs := storesql.NewConversionStore(d.DB)
	ws := NewWebServer(grids, convs)
	ts := httptest.NewServer(ws.ServeMux())
	t.Cleanup(ts.Close)
	return ts, grids, convs
}

func storedGrid(t *testing.T, grids *storesql.GridStore) *grid.Grid {
	t.Helper()
	g, err := grid.New("plane", grid.FormatUint8, []grid.Axis{
		{Type: grid.AxisX, Extent: 4, Cal: 1},
		{Type: grid.AxisY, Extent: 4, Cal: 1},
	})
	require.NoError(t, err)
	for i := 0; i < g.Size(); i++ {
		g.SetIndex(i, float64(i*16))
	}
	require.NoError(t, grids.Insert(g))
	return g
}

func TestHistogramPage(t *testing.T) {
	ts, grids, _ := setupMonitor(t)
	g := storedGrid(t, grids)

	resp, err := http.Get(ts.URL + "/monitor/histogram?grid_id=" + g.ID + "&bins=8")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "echarts"), "page should embed an echarts chart")
}

func TestHistogramMissingGrid(t *testing.T) {
	ts, _, _ := setupMonitor(t)
	resp, err := http.Get(ts.URL + "/monitor/histogram?grid_id=nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestComparePage(t *testing.T) {
	ts, grids, convs := setupMonitor(t)
	src := storedGrid(t, grids)
	dst, err := grid.ChangeType(src, grid.FormatUint16)
	require.NoError(t, err)
	require.NoError(t, grids.Insert(dst))

	rec := &storesql.Conversion{
		SourceGridID: src.ID,
		DestGridID:   dst.ID,
		SourceFormat: string(src.Format),
		DestFormat:   string(dst.Format),
	}
	require.NoError(t, convs.Insert(rec))

	resp, err := http.Get(ts.URL + "/monitor/compare?conversion_id=" + rec.ConversionID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSlicePNG(t *testing.T) {
	ts, grids, _ := setupMonitor(t)
	g := storedGrid(t, grids)

	resp, err := http.Get(ts.URL + "/monitor/slice.png?grid_id=" + g.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	// PNG magic bytes.
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])
}

func TestRenderSliceNeedsTwoSpatialAxes(t *testing.T) {
	g, err := grid.New("line", grid.FormatUint8, []grid.Axis{
		{Type: grid.AxisX, Extent: 4, Cal: 1},
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.Error(t, RenderSlice(g, &buf))
}
