package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pixelgrid/internal/db"
	storesql "github.com/banshee-data/pixelgrid/internal/grid/storage/sqlite"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.MigrateUp())

	s := NewServer(storesql.NewGridStore(d.DB), storesql.NewConversionStore(d.DB))
	ts := httptest.NewServer(s.ServeMux())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func uploadRGB(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/grids", map[string]any{
		"name":   "rgb",
		"format": "uint8",
		"axes": []map[string]any{
			{"type": "X", "extent": 2, "cal": 1},
			{"type": "Y", "extent": 2, "cal": 1},
			{"type": "Channel", "extent": 3, "cal": 1},
		},
		"composite_channels": 3,
		"rgb_merged":         true,
		// Storage order is first axis fastest: all four (x,y) of channel
		// 0, then channel 1, then channel 2.
		"samples": []float64{
			10, 10, 10, 10,
			20, 20, 20, 20,
			30, 30, 30, 30,
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		GridID string `json:"grid_id"`
	}
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.GridID)
	return created.GridID
}

func TestUploadAndGet(t *testing.T) {
	ts := setupServer(t)
	id := uploadRGB(t, ts)

	resp, err := http.Get(ts.URL + "/api/grids/" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Format  string    `json:"format"`
		Samples []float64 `json:"samples"`
		Stats   struct {
			Mean float64 `json:"mean"`
		} `json:"stats"`
	}
	decodeBody(t, resp, &got)
	assert.Equal(t, "uint8", got.Format)
	assert.Len(t, got.Samples, 12)
	assert.Equal(t, 20.0, got.Stats.Mean)
}

func TestConvertCollapsesComposite(t *testing.T) {
	ts := setupServer(t)
	id := uploadRGB(t, ts)

	resp := postJSON(t, fmt.Sprintf("%s/api/grids/%s/convert?format=uint8", ts.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dst struct {
		GridID string `json:"grid_id"`
		Axes   []struct {
			Type string `json:"type"`
		} `json:"axes"`
		CompositeChannels int `json:"composite_channels"`
		Stats             struct {
			Min  float64 `json:"min"`
			Max  float64 `json:"max"`
			Mean float64 `json:"mean"`
		} `json:"stats"`
	}
	decodeBody(t, resp, &dst)
	require.Len(t, dst.Axes, 2, "channel axis should be collapsed")
	assert.Equal(t, 1, dst.CompositeChannels)
	// Every (x,y) column is {10,20,30} whose mean is 20.
	assert.Equal(t, 20.0, dst.Stats.Min)
	assert.Equal(t, 20.0, dst.Stats.Max)

	// The run is recorded against the source.
	resp2, err := http.Get(ts.URL + "/api/grids/" + id + "/conversions")
	require.NoError(t, err)
	var convs []struct {
		DestGridID        string `json:"dest_grid_id"`
		ChannelsCollapsed bool   `json:"channels_collapsed"`
	}
	decodeBody(t, resp2, &convs)
	require.Len(t, convs, 1)
	assert.Equal(t, dst.GridID, convs[0].DestGridID)
	assert.True(t, convs[0].ChannelsCollapsed)
}

func TestConvertUnknownFormat(t *testing.T) {
	ts := setupServer(t)
	id := uploadRGB(t, ts)

	resp := postJSON(t, fmt.Sprintf("%s/api/grids/%s/convert?format=uint7", ts.URL, id), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetMissingGrid(t *testing.T) {
	ts := setupServer(t)
	resp, err := http.Get(ts.URL + "/api/grids/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadRejectsZeroExtent(t *testing.T) {
	ts := setupServer(t)
	resp := postJSON(t, ts.URL+"/api/grids", map[string]any{
		"name":   "bad",
		"format": "uint8",
		"axes": []map[string]any{
			{"type": "X", "extent": 0, "cal": 1},
		},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
