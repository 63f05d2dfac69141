// Package monitor serves debugging visualisations of stored grids:
// echarts histogram pages and PNG slice heatmaps. These endpoints carry
// no auth and exist to eyeball conversion results without a frontend.
package monitor

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/pixelgrid/internal/grid"
	storesql "github.com/banshee-data/pixelgrid/internal/grid/storage/sqlite"
)

const defaultBins = 64

// WebServer handles the monitor routes.
type WebServer struct {
	grids *storesql.GridStore
	convs *storesql.ConversionStore
}

// NewWebServer creates a monitor server over the given stores.
func NewWebServer(grids *storesql.GridStore, convs *storesql.ConversionStore) *WebServer {
	return &WebServer{grids: grids, convs: convs}
}

// ServeMux returns the route table for the monitor pages.
func (ws *WebServer) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /monitor/histogram", ws.handleHistogram)
	mux.HandleFunc("GET /monitor/compare", ws.handleCompare)
	mux.HandleFunc("GET /monitor/slice.png", ws.handleSlicePNG)
	return mux
}

func (ws *WebServer) writeError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}

func (ws *WebServer) binsParam(r *http.Request) int {
	bins := defaultBins
	if b := r.URL.Query().Get("bins"); b != "" {
		if v, err := strconv.Atoi(b); err == nil && v >= 2 && v <= 1024 {
			bins = v
		}
	}
	return bins
}

func histogramSeries(g *grid.Grid, bins int) ([]string, []opts.BarData) {
	edges, counts := grid.Histogram(g, bins)
	labels := make([]string, len(edges))
	data := make([]opts.BarData, len(counts))
	for i := range edges {
		labels[i] = fmt.Sprintf("%.4g", edges[i])
		data[i] = opts.BarData{Value: counts[i]}
	}
	return labels, data
}

// handleHistogram renders a value histogram of one grid as an HTML
// echarts page. Query params: grid_id (required), bins (optional).
func (ws *WebServer) handleHistogram(w http.ResponseWriter, r *http.Request) {
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

	labels, data := histogramSeries(g, ws.binsParam(r))
	s := grid.Summarize(g)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Grid Histogram", Theme: "dark", Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s (%s)", g.Name, g.Format),
			Subtitle: fmt.Sprintf("n=%d min=%.4g max=%.4g mean=%.4g", s.Count, s.Min, s.Max, s.Mean),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("samples", data)

	renderChart(w, bar)
}

// handleCompare overlays the histograms of a recorded conversion's
// source and destination grids. Query param: conversion_id.
func (ws *WebServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("conversion_id")
	if id == "" {
		ws.writeError(w, http.StatusBadRequest, "conversion_id is required")
		return
	}
	conv, err := ws.convs.Get(id)
	if err != nil {
		ws.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	src, err := ws.grids.Get(conv.SourceGridID)
	if err != nil {
		ws.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	dst, err := ws.grids.Get(conv.DestGridID)
	if err != nil {
		ws.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	bins := ws.binsParam(r)
	labels, srcData := histogramSeries(src, bins)
	_, dstData := histogramSeries(dst, bins)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Conversion Compare", Theme: "dark", Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: %s -> %s", src.Name, conv.SourceFormat, conv.DestFormat),
			Subtitle: fmt.Sprintf("conversion %s, %d ns", conv.ConversionID, conv.DurationNanos),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries(conv.SourceFormat, srcData).
		AddSeries(conv.DestFormat, dstData)

	renderChart(w, bar)
}

func renderChart(w http.ResponseWriter, bar *charts.Bar) {
	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
