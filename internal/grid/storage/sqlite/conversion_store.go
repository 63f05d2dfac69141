package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conversion records one ChangeType run between two stored grids.
type Conversion struct {
	ConversionID      string `json:"conversion_id"`
	SourceGridID      string `json:"source_grid_id"`
	DestGridID        string `json:"dest_grid_id"`
	SourceFormat      string `json:"source_format"`
	DestFormat        string `json:"dest_format"`
	ChannelsCollapsed bool   `json:"channels_collapsed"`
	DurationNanos     int64  `json:"duration_nanos"`
	CreatedUnixNanos  int64  `json:"created_unix_nanos"`
}

// ConversionStore provides persistence for conversion records.
type ConversionStore struct {
	db *sql.DB
}

// NewConversionStore creates a ConversionStore backed by the given
// database.
func NewConversionStore(db *sql.DB) *ConversionStore {
	return &ConversionStore{db: db}
}

// Insert persists a conversion record. If ConversionID is empty a UUID
// is generated.
func (s *ConversionStore) Insert(c *Conversion) error {
	if c.ConversionID == "" {
		c.ConversionID = uuid.New().String()
	}
	if c.CreatedUnixNanos == 0 {
		c.CreatedUnixNanos = time.Now().UnixNano()
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO conversions (
				conversion_id, source_grid_id, dest_grid_id,
				source_format, dest_format, channels_collapsed,
				duration_nanos, created_unix_nanos
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ConversionID, c.SourceGridID, c.DestGridID,
			c.SourceFormat, c.DestFormat, c.ChannelsCollapsed,
			c.DurationNanos, c.CreatedUnixNanos,
		)
		return err
	})
}

// ListBySource returns all conversions of a source grid, newest first.
func (s *ConversionStore) ListBySource(sourceGridID string) ([]*Conversion, error) {
	rows, err := s.db.Query(`
		SELECT conversion_id, source_grid_id, dest_grid_id,
		       source_format, dest_format, channels_collapsed,
		       duration_nanos, created_unix_nanos
		FROM conversions
		WHERE source_grid_id = ?
		ORDER BY created_unix_nanos DESC`, sourceGridID)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var out []*Conversion
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(&c.ConversionID, &c.SourceGridID, &c.DestGridID,
			&c.SourceFormat, &c.DestFormat, &c.ChannelsCollapsed,
			&c.DurationNanos, &c.CreatedUnixNanos); err != nil {
			return nil, fmt.Errorf("scan conversion row: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Get loads one conversion record by ID.
func (s *ConversionStore) Get(id string) (*Conversion, error) {
	row := s.db.QueryRow(`
		SELECT conversion_id, source_grid_id, dest_grid_id,
		       source_format, dest_format, channels_collapsed,
		       duration_nanos, created_unix_nanos
		FROM conversions WHERE conversion_id = ?`, id)
	var c Conversion
	if err := row.Scan(&c.ConversionID, &c.SourceGridID, &c.DestGridID,
		&c.SourceFormat, &c.DestFormat, &c.ChannelsCollapsed,
		&c.DurationNanos, &c.CreatedUnixNanos); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversion %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query conversion %s: %w", id, err)
	}
	return &c, nil
}
