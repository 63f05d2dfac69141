// Package sqlite persists grids and conversion records to the sqlite
// database owned by internal/db.
//
// Grids are stored with their axis list as JSON and their samples as a
// little-endian blob in the grid's native representation; the stores
// round-trip through grid.FromBlob so a loaded grid is bit-identical to
// the one inserted.
package sqlite
