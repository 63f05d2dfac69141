// Package api exposes the grid store and conversion engine over
// HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/banshee-data/pixelgrid/internal/grid"
	storesql "github.com/banshee-data/pixelgrid/internal/grid/storage/sqlite"
)

// Server handles the grid API routes.
type Server struct {
	grids *storesql.GridStore
	convs *storesql.ConversionStore
}

// NewServer creates an API server over the given stores.
func NewServer(grids *storesql.GridStore, convs *storesql.ConversionStore) *Server {
	return &Server{grids: grids, convs: convs}
}

// ServeMux returns the route table for the API.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/grids", s.handleUpload)
	mux.HandleFunc("GET /api/grids", s.handleList)
	mux.HandleFunc("GET /api/grids/{id}", s.handleGet)
	mux.HandleFunc("DELETE /api/grids/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/grids/{id}/stats", s.handleStats)
	mux.HandleFunc("GET /api/grids/{id}/conversions", s.handleConversions)
	mux.HandleFunc("POST /api/grids/{id}/convert", s.handleConvert)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps engine and store error kinds onto HTTP
// statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storesql.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, grid.ErrUnsupportedFormat):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, grid.ErrDimensionality):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, grid.ErrDegenerateInput):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// uploadRequest is the JSON form of a grid upload. Samples are in
// storage order (first axis fastest).
type uploadRequest struct {
	Name              string      `json:"name"`
	Format            string      `json:"format"`
	Axes              []grid.Axis `json:"axes"`
	CompositeChannels int         `json:"composite_channels"`
	RGBMerged         bool        `json:"rgb_merged"`
	Samples           []float64   `json:"samples"`
}

// gridResponse is the JSON form of a stored grid.
type gridResponse struct {
	GridID            string       `json:"grid_id"`
	Name              string       `json:"name"`
	Format            string       `json:"format"`
	Axes              []grid.Axis  `json:"axes"`
	CompositeChannels int          `json:"composite_channels"`
	RGBMerged         bool         `json:"rgb_merged"`
	Samples           []float64    `json:"samples,omitempty"`
	Stats             grid.Summary `json:"stats"`
}

func gridToResponse(g *grid.Grid, includeSamples bool) gridResponse {
	resp := gridResponse{
		GridID:            g.ID,
		Name:              g.Name,
		Format:            string(g.Format),
		Axes:              g.Axes,
		CompositeChannels: g.CompositeChannels,
		RGBMerged:         g.RGBMerged,
		Stats:             grid.Summarize(g),
	}
	if includeSamples {
		resp.Samples = g.Samples()
	}
	return resp
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	f, err := grid.ParseFormat(req.Format)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	g, err := grid.New(req.Name, f, req.Axes)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if req.CompositeChannels > 0 {
		g.CompositeChannels = req.CompositeChannels
	}
	g.RGBMerged = req.RGBMerged
	if req.Samples != nil {
		if err := g.SetSamples(req.Samples); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	if err := s.grids.Insert(g); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("store grid: %v", err))
		return
	}
	log.Printf("api: stored grid %s (%s, %d samples)", g.ID, g.Format, g.Size())
	writeJSON(w, http.StatusCreated, gridToResponse(g, false))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.grids.List()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if infos == nil {
		infos = []*storesql.GridInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	g, err := s.grids.Get(r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gridToResponse(g, true))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.grids.Delete(r.PathValue("id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	g, err := s.grids.Get(r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid.Summarize(g))
}

func (s *Server) handleConversions(w http.ResponseWriter, r *http.Request) {
	list, err := s.convs.ListBySource(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []*storesql.Conversion{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	f, err := grid.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	src, err := s.grids.Get(r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	start := time.Now()
	dst, err := grid.ChangeType(src, f)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	elapsed := time.Since(start)

	// A no-op conversion returns the source grid; don't store it twice.
	if dst != src {
		if err := s.grids.Insert(dst); err != nil {
			writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("store result: %v", err))
			return
		}
	}
	rec := &storesql.Conversion{
		SourceGridID:      src.ID,
		DestGridID:        dst.ID,
		SourceFormat:      string(src.Format),
		DestFormat:        string(dst.Format),
		ChannelsCollapsed: dst.Rank() < src.Rank(),
		DurationNanos:     elapsed.Nanoseconds(),
	}
	if err := s.convs.Insert(rec); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("record conversion: %v", err))
		return
	}
	log.Printf("api: converted grid %s %s -> %s in %s", src.ID, src.Format, dst.Format, elapsed)
	writeJSON(w, http.StatusOK, gridToResponse(dst, false))
}
