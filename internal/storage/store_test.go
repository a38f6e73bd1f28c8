package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/coldb/internal/catalog"
)

func setupTable(t *testing.T, numCols int) (*catalog.Catalog, *catalog.Table) {
	t.Helper()
	c := catalog.New()
	db, err := c.CreateDB("d1")
	require.NoError(t, err)
	tbl, err := c.CreateTable(db, "t1", numCols)
	require.NoError(t, err)
	for i := 0; i < numCols; i++ {
		_, err := c.CreateColumn(tbl, string(rune('a'+i)))
		require.NoError(t, err)
	}
	return c, tbl
}

func TestRelationalInsertRejectsWrongWidth(t *testing.T) {
	_, tbl := setupTable(t, 2)
	err := RelationalInsert(tbl, []int32{1})
	assert.ErrorIs(t, err, ErrRowWidth)
}

func TestRelationalInsertAlignsColumns(t *testing.T) {
	_, tbl := setupTable(t, 2)
	require.NoError(t, RelationalInsert(tbl, []int32{10, 100}))
	require.NoError(t, RelationalInsert(tbl, []int32{20, 200}))

	assert.Equal(t, 2, tbl.Length)
	assert.Equal(t, []int32{10, 20}, tbl.Columns[0].Data[:tbl.Length])
	assert.Equal(t, []int32{100, 200}, tbl.Columns[1].Data[:tbl.Length])
	for _, c := range tbl.Columns {
		assert.Equal(t, tbl.Length, c.Length)
		assert.Equal(t, tbl.Capacity, c.Capacity)
	}
}

func TestRelationalInsertGrowsAllColumnsTogether(t *testing.T) {
	_, tbl := setupTable(t, 2)
	tbl.Capacity = 2
	for _, c := range tbl.Columns {
		c.Data = make([]int32, 2)
		c.Capacity = 2
	}

	require.NoError(t, RelationalInsert(tbl, []int32{1, 1}))
	require.NoError(t, RelationalInsert(tbl, []int32{2, 2}))
	// table at capacity; next insert must grow every column
	require.NoError(t, RelationalInsert(tbl, []int32{3, 3}))

	assert.Equal(t, 4, tbl.Capacity)
	for _, c := range tbl.Columns {
		assert.Equal(t, 4, c.Capacity)
		assert.Equal(t, 3, c.Length)
	}
}

func TestLoadTableBulkInserts(t *testing.T) {
	c, tbl := setupTable(t, 2)

	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	content := "d1.t1.a,d1.t1.b\n10,100\n20,200\n30,300\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := LoadTable(c, path)
	require.NoError(t, err)
	assert.Same(t, tbl, res.Table)
	assert.Equal(t, 3, res.RowsAdded)
	assert.Equal(t, 3, tbl.Length)
	assert.Equal(t, []int32{10, 20, 30}, tbl.Columns[0].Data[:3])
}

func TestLoadTableRejectsMultiTableHeader(t *testing.T) {
	c, _ := setupTable(t, 2)
	_, err := c.CreateTable(c.Active(), "t2", 1)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	content := "d1.t1.a,d1.t2.x\n1,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err = LoadTable(c, path)
	assert.Error(t, err)
}

func TestLoadTableRejectsRowWidthMismatch(t *testing.T) {
	c, _ := setupTable(t, 2)

	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")
	content := "d1.t1.a,d1.t1.b\n1,2,3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadTable(c, path)
	assert.Error(t, err)
}
