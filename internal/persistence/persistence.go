// Package persistence implements the on-disk catalog/column layout and the
// shutdown flush / startup load routines (C6, spec §4.6).
package persistence

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/redbco/coldb/internal/catalog"
)

// ErrPersistence wraps any I/O failure during flush or load (spec §7).
// Persistence errors are fatal to the operation that raised them — there
// is no partial-success path.
var ErrPersistence = errors.New("persistence: I/O failure")

const metadataFileName = "metadata"

func dataFileName(table, column string) string {
	return fmt.Sprintf("%s.%s.data", table, column)
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// Flush writes the active database's catalog metadata and every column's
// data to disk under root. It is a no-op if no database is active.
func Flush(cat *catalog.Catalog, root string) error {
	db := cat.Active()
	if db == nil {
		return nil
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return wrap("mkdir", err)
	}

	if err := writeMetadata(db, root); err != nil {
		return err
	}

	for _, t := range db.Tables {
		for _, c := range t.Columns {
			if c == nil {
				continue
			}
			if err := flushColumn(root, t.Name, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMetadata(db *catalog.Database, root string) error {
	path := filepath.Join(root, metadataFileName)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return wrap("create metadata", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s,%d\n", db.Name, len(db.Tables))
	for _, t := range db.Tables {
		fmt.Fprintf(w, "%s,%d,%d\n", t.Name, t.NumColumns, t.Length)
		for _, c := range t.Columns {
			name := ""
			if c != nil {
				name = c.Name
			}
			fmt.Fprintf(w, "%s\n", name)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return wrap("write metadata", err)
	}
	if err := f.Close(); err != nil {
		return wrap("close metadata", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return wrap("rename metadata", err)
	}
	return nil
}

// flushColumn extends the column's data file to row_count*4 bytes, maps it,
// copies the in-memory buffer in, and msyncs (spec §4.6). The map is held
// only for the duration of this call — no map survives across an operator
// boundary (spec §5).
func flushColumn(root, table string, c *catalog.Column) error {
	path := filepath.Join(root, dataFileName(table, c.Name))
	size := c.Length * 4

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return wrap("open column file", err)
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		return wrap("truncate column file", err)
	}

	if size == 0 {
		return nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return wrap("mmap column file", err)
	}
	defer unix.Munmap(data)

	for i := 0; i < c.Length; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(c.Data[i]))
	}

	if err := unix.Msync(data, unix.MS_SYNC); err != nil {
		return wrap("msync column file", err)
	}
	return nil
}

// Load rehydrates the catalog from root. If root does not exist, the
// catalog is left empty and Load succeeds (spec §4.6).
func Load(cat *catalog.Catalog, root string) error {
	metaPath := filepath.Join(root, metadataFileName)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	f, err := os.Open(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return wrap("open metadata", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return wrap("read metadata", fmt.Errorf("empty metadata file"))
	}
	head := strings.Split(scanner.Text(), ",")
	if len(head) != 2 {
		return wrap("parse metadata", fmt.Errorf("malformed header %q", scanner.Text()))
	}
	dbName := head[0]
	numTables, err := strconv.Atoi(head[1])
	if err != nil {
		return wrap("parse metadata", err)
	}

	db := &catalog.Database{Name: dbName}

	for t := 0; t < numTables; t++ {
		if !scanner.Scan() {
			return wrap("read metadata", fmt.Errorf("truncated table header"))
		}
		parts := strings.Split(scanner.Text(), ",")
		if len(parts) != 3 {
			return wrap("parse metadata", fmt.Errorf("malformed table line %q", scanner.Text()))
		}
		tableName := parts[0]
		numCols, err := strconv.Atoi(parts[1])
		if err != nil {
			return wrap("parse metadata", err)
		}
		rowCount, err := strconv.Atoi(parts[2])
		if err != nil {
			return wrap("parse metadata", err)
		}

		columns := make([]*catalog.Column, numCols)
		for i := 0; i < numCols; i++ {
			if !scanner.Scan() {
				return wrap("read metadata", fmt.Errorf("truncated column name list"))
			}
			colName := scanner.Text()
			col, err := loadColumn(root, tableName, colName, rowCount)
			if err != nil {
				return err
			}
			columns[i] = col
		}

		table := catalog.NewLoadedTable(tableName, numCols, rowCount, columns)
		db.Tables = append(db.Tables, table)
	}
	if err := scanner.Err(); err != nil {
		return wrap("read metadata", err)
	}

	cat.AdoptDB(db)
	return nil
}

// loadColumn maps the column's data file and copies its contents into a
// freshly allocated buffer whose length and capacity both equal rowCount
// (spec §4.6: "adopting the stored row length as both the column's length
// and capacity"). Copying out and unmapping immediately — rather than
// operating on the mapped region directly — means a later insert can grow
// the buffer by doubling without having to invalidate or re-map anything
// (spec §9, design note "Column growth during load").
func loadColumn(root, table, column string, rowCount int) (*catalog.Column, error) {
	col := &catalog.Column{Name: column, Length: rowCount, Capacity: rowCount, Data: make([]int32, rowCount)}
	if rowCount == 0 {
		return col, nil
	}

	path := filepath.Join(root, dataFileName(table, column))
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("open column data", err)
	}
	defer f.Close()

	size := rowCount * 4
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, wrap("mmap column data", err)
	}
	defer unix.Munmap(data)

	for i := 0; i < rowCount; i++ {
		col.Data[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return col, nil
}
