package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pixelgrid/internal/db"
	"github.com/banshee-data/pixelgrid/internal/grid"
)

// setupTestDB opens a temp sqlite database with the full migrated
// schema applied.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.MigrateUp(); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	return d
}

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New("rgb stack", grid.FormatUint8, []grid.Axis{
		{Type: grid.AxisX, Extent: 2, Cal: 0.5},
		{Type: grid.AxisY, Extent: 2, Cal: 0.5},
		{Type: grid.AxisChannel, Extent: 3, Cal: 1},
	})
	require.NoError(t, err)
	g.CompositeChannels = 3
	g.RGBMerged = true
	for i := 0; i < g.Size(); i++ {
		g.SetIndex(i, float64(i*7%256))
	}
	return g
}

func TestGridStoreRoundTrip(t *testing.T) {
	d := setupTestDB(t)
	store := NewGridStore(d.DB)

	g := testGrid(t)
	require.NoError(t, store.Insert(g))
	require.NotEmpty(t, g.ID)

	got, err := store.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Name, got.Name)
	assert.Equal(t, g.Format, got.Format)
	assert.Equal(t, g.Axes, got.Axes)
	assert.Equal(t, g.CompositeChannels, got.CompositeChannels)
	assert.Equal(t, g.RGBMerged, got.RGBMerged)
	assert.Equal(t, g.Samples(), got.Samples())
}

func TestGridStoreList(t *testing.T) {
	d := setupTestDB(t)
	store := NewGridStore(d.DB)

	require.NoError(t, store.Insert(testGrid(t)))
	require.NoError(t, store.Insert(testGrid(t)))

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.Equal(t, "rgb stack", info.Name)
		assert.Len(t, info.Axes, 3)
	}
}

func TestGridStoreGetMissing(t *testing.T) {
	d := setupTestDB(t)
	store := NewGridStore(d.DB)

	_, err := store.Get("no-such-grid")
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)
}

func TestGridStoreDelete(t *testing.T) {
	d := setupTestDB(t)
	store := NewGridStore(d.DB)

	g := testGrid(t)
	require.NoError(t, store.Insert(g))
	require.NoError(t, store.Delete(g.ID))

	_, err := store.Get(g.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)
	assert.True(t, errors.Is(store.Delete(g.ID), ErrNotFound))
}

func TestConversionStoreRoundTrip(t *testing.T) {
	d := setupTestDB(t)
	grids := NewGridStore(d.DB)
	convs := NewConversionStore(d.DB)

	src := testGrid(t)
	require.NoError(t, grids.Insert(src))

	dst, err := grid.ChangeType(src, grid.FormatUint16)
	require.NoError(t, err)
	require.NoError(t, grids.Insert(dst))

	rec := &Conversion{
		SourceGridID:      src.ID,
		DestGridID:        dst.ID,
		SourceFormat:      string(src.Format),
		DestFormat:        string(dst.Format),
		ChannelsCollapsed: dst.Rank() < src.Rank(),
		DurationNanos:     12345,
	}
	require.NoError(t, convs.Insert(rec))
	require.NotEmpty(t, rec.ConversionID)

	got, err := convs.Get(rec.ConversionID)
	require.NoError(t, err)
	assert.Equal(t, rec.SourceGridID, got.SourceGridID)
	assert.Equal(t, rec.DestGridID, got.DestGridID)
	assert.True(t, got.ChannelsCollapsed, "composite source should collapse channels")

	list, err := convs.ListBySource(src.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ConversionID, list[0].ConversionID)
}
