package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/pixelgrid/internal/grid"
)

// ErrNotFound is returned when a requested grid or conversion does not
// exist.
var ErrNotFound = errors.New("not found")

// GridInfo is the listing form of a stored grid: everything except the
// sample blob.
type GridInfo struct {
	GridID            string      `json:"grid_id"`
	Name              string      `json:"name"`
	Format            string      `json:"format"`
	Axes              []grid.Axis `json:"axes"`
	CompositeChannels int         `json:"composite_channels"`
	RGBMerged         bool        `json:"rgb_merged"`
	CreatedUnixNanos  int64       `json:"created_unix_nanos"`
}

// GridStore provides persistence for grids.
type GridStore struct {
	db *sql.DB
}

// NewGridStore creates a GridStore backed by the given database.
func NewGridStore(db *sql.DB) *GridStore {
	return &GridStore{db: db}
}

// Insert persists a grid. If the grid's ID is empty a UUID is
// generated and written back.
func (s *GridStore) Insert(g *grid.Grid) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	axesJSON, err := json.Marshal(g.Axes)
	if err != nil {
		return fmt.Errorf("marshal axes: %w", err)
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO grids (
				grid_id, name, format, axes_json,
				composite_channels, rgb_merged, sample_blob, created_unix_nanos
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, string(g.Format), string(axesJSON),
			g.CompositeChannels, g.RGBMerged, g.SampleBlob(), time.Now().UnixNano(),
		)
		return err
	})
}

// Get loads a grid by ID, reconstructing its native sample buffer.
func (s *GridStore) Get(id string) (*grid.Grid, error) {
	row := s.db.QueryRow(`
		SELECT name, format, axes_json, composite_channels, rgb_merged, sample_blob
		FROM grids WHERE grid_id = ?`, id)

	var (
		name, format, axesJSON string
		composite              int
		rgbMerged              bool
		blob                   []byte
	)
	if err := row.Scan(&name, &format, &axesJSON, &composite, &rgbMerged, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("grid %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query grid %s: %w", id, err)
	}

	var axes []grid.Axis
	if err := json.Unmarshal([]byte(axesJSON), &axes); err != nil {
		return nil, fmt.Errorf("unmarshal axes for grid %s: %w", id, err)
	}
	g, err := grid.FromBlob(name, grid.SampleFormat(format), axes, blob)
	if err != nil {
		return nil, fmt.Errorf("decode grid %s: %w", id, err)
	}
	g.ID = id
	g.CompositeChannels = composite
	g.RGBMerged = rgbMerged
	return g, nil
}

// List returns metadata for all stored grids, newest first.
func (s *GridStore) List() ([]*GridInfo, error) {
	rows, err := s.db.Query(`
		SELECT grid_id, name, format, axes_json, composite_channels, rgb_merged, created_unix_nanos
		FROM grids ORDER BY created_unix_nanos DESC`)
	if err != nil {
		return nil, fmt.Errorf("query grids: %w", err)
	}
	defer rows.Close()

	var out []*GridInfo
	for rows.Next() {
		var (
			info     GridInfo
			axesJSON string
		)
		if err := rows.Scan(&info.GridID, &info.Name, &info.Format, &axesJSON,
			&info.CompositeChannels, &info.RGBMerged, &info.CreatedUnixNanos); err != nil {
			return nil, fmt.Errorf("scan grid row: %w", err)
		}
		if err := json.Unmarshal([]byte(axesJSON), &info.Axes); err != nil {
			return nil, fmt.Errorf("unmarshal axes for grid %s: %w", info.GridID, err)
		}
		out = append(out, &info)
	}
	return out, rows.Err()
}

// Delete removes a grid by ID.
func (s *GridStore) Delete(id string) error {
	return retryOnBusy(func() error {
		res, err := s.db.Exec(`DELETE FROM grids WHERE grid_id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("grid %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
