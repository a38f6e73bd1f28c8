package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/coldb/internal/catalog"
)

// scenario S5 / testable property §8.6: round-trip persistence.
func TestFlushThenLoadRoundTrips(t *testing.T) {
	root := filepath.Join(t.TempDir(), "db_data")

	cat := catalog.New()
	db, err := cat.CreateDB("d1")
	require.NoError(t, err)
	tbl, err := cat.CreateTable(db, "t1", 2)
	require.NoError(t, err)
	colA, err := cat.CreateColumn(tbl, "a")
	require.NoError(t, err)
	colB, err := cat.CreateColumn(tbl, "b")
	require.NoError(t, err)

	rows := [][2]int32{{10, 100}, {20, 200}, {30, 300}}
	for _, r := range rows {
		colA.Data[colA.Length] = r[0]
		colA.Length++
		colB.Data[colB.Length] = r[1]
		colB.Length++
		tbl.Length++
	}

	require.NoError(t, Flush(cat, root))

	reloaded := catalog.New()
	require.NoError(t, Load(reloaded, root))

	gotTbl, err := reloaded.LookupTable("d1.t1")
	require.NoError(t, err)
	assert.Equal(t, tbl.Length, gotTbl.Length)
	assert.Equal(t, tbl.NumColumns, gotTbl.NumColumns)

	gotA, err := reloaded.LookupColumn("d1.t1.a")
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 20, 30}, gotA.Data[:gotA.Length])

	gotB, err := reloaded.LookupColumn("d1.t1.b")
	require.NoError(t, err)
	assert.Equal(t, []int32{100, 200, 300}, gotB.Data[:gotB.Length])
}

func TestLoadOnMissingRootLeavesCatalogEmpty(t *testing.T) {
	cat := catalog.New()
	err := Load(cat, filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Nil(t, cat.Active())
}

func TestFlushIsNoOpWithoutActiveDB(t *testing.T) {
	cat := catalog.New()
	root := filepath.Join(t.TempDir(), "db_data")
	require.NoError(t, Flush(cat, root))
}
