// Package storage implements the append-only column store (C2): row
// insertion with geometric capacity growth, and bulk CSV loading.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/redbco/coldb/internal/catalog"
)

// ErrRowWidth is returned when a row's arity does not match the table's
// declared column count.
var ErrRowWidth = errors.New("storage: row width does not match column count")

// growColumn doubles a column's buffer capacity, preserving existing
// content up to its current length (spec §4.2).
func growColumn(c *catalog.Column, newCapacity int) {
	grown := make([]int32, newCapacity)
	copy(grown, c.Data[:c.Length])
	c.Data = grown
	c.Capacity = newCapacity
}

// RelationalInsert appends row to every declared column of t, growing all
// columns together when the table is at capacity. All columns of a table
// share Length/Capacity (spec §3 invariant), so growth and the append are
// applied uniformly across the whole column set.
func RelationalInsert(t *catalog.Table, row []int32) error {
	if len(row) != t.NumColumns {
		return ErrRowWidth
	}

	if t.Length == t.Capacity {
		newCap := t.Capacity * 2
		if newCap == 0 {
			newCap = catalog.DefaultColSize
		}
		for _, c := range t.Columns {
			if c != nil {
				growColumn(c, newCap)
			}
		}
		t.Capacity = newCap
	}

	for i, c := range t.Columns {
		if c == nil {
			continue
		}
		c.Data[t.Length] = row[i]
		c.Length++
	}
	t.Length++
	return nil
}

// LoadResult is returned by LoadTable to the console app after a bulk load.
type LoadResult struct {
	Table     *catalog.Table
	RowsAdded int
}

// LoadTable bulk-loads a CSV-like file whose first line is the header
// "db.table.col1,db.table.col2,..." — all columns must name the same
// table — and whose remaining lines are comma-separated int32 rows (spec
// §4.2). The whole file is validated before any row is committed, so a
// malformed load never leaves the table partially populated.
func LoadTable(cat *catalog.Catalog, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("storage: %q: missing header line", path)
	}
	header := strings.TrimRight(scanner.Text(), "\r")
	colNames := strings.Split(header, ",")
	if len(colNames) == 0 {
		return nil, fmt.Errorf("storage: %q: empty header", path)
	}

	var table *catalog.Table
	var tableQualifier string
	for _, qualified := range colNames {
		segs, err := catalog.ParseQualifiedName(qualified, 3)
		if err != nil {
			return nil, fmt.Errorf("storage: %q: malformed column %q", path, qualified)
		}
		qualifier := segs[0] + "." + segs[1]
		if tableQualifier == "" {
			tableQualifier = qualifier
			table, err = cat.LookupTable(qualifier)
			if err != nil {
				return nil, fmt.Errorf("storage: %q: unknown table %q: %w", path, qualifier, err)
			}
		} else if qualifier != tableQualifier {
			return nil, fmt.Errorf("storage: %q: load spans more than one table (%q vs %q)", path, tableQualifier, qualifier)
		}
	}
	if len(colNames) != table.NumColumns {
		return nil, fmt.Errorf("storage: %q: %d columns named, table has %d", path, len(colNames), table.NumColumns)
	}

	var rows [][]int32
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != table.NumColumns {
			return nil, fmt.Errorf("storage: %q: row width %d does not match %d declared columns", path, len(fields), table.NumColumns)
		}
		row := make([]int32, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("storage: %q: bad integer %q: %w", path, f, err)
			}
			row[i] = int32(v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("storage: %q: %w", path, err)
	}

	for _, row := range rows {
		if err := RelationalInsert(table, row); err != nil {
			return nil, fmt.Errorf("storage: %q: %w", path, err)
		}
	}

	return &LoadResult{Table: table, RowsAdded: len(rows)}, nil
}
