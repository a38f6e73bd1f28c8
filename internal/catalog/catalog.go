package catalog

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultColSize is the reference row/column capacity new tables and
// columns are allocated with (spec §4.1).
const DefaultColSize = 1024

// Column is an append-only integer vector owned by a table (C2). Data holds
// Capacity cells; only Data[:Length] is live. Index is reserved for a
// future secondary index and is never read by the core.
type Column struct {
	Name     string
	Data     []int32
	Length   int
	Capacity int
	Index    interface{}
}

// Table owns a fixed number of column slots, all sharing Length/Capacity
// (spec §3 invariant).
type Table struct {
	Name       string
	NumColumns int
	Columns    []*Column // len == NumColumns; nil until declared
	nextColumn int       // insertion cursor for lazy column declaration
	Length     int
	Capacity   int
}

// Database is the single active database: a name and an ordered,
// geometrically-grown list of tables.
type Database struct {
	Name     string
	Tables   []*Table
	tableCap int
}

// Catalog owns the process-wide active-database singleton (spec §5,
// design note "Global active-database state").
type Catalog struct {
	mu     sync.Mutex
	active *Database
}

// New returns an empty catalog with no active database.
func New() *Catalog {
	return &Catalog{}
}

// Active returns the active database, or nil if none.
func (c *Catalog) Active() *Database {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// CreateDB activates a new, empty database. It fails if a database is
// already active.
func (c *Catalog) CreateDB(name string) (*Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return nil, ErrAlreadyActive
	}
	c.active = &Database{Name: name}
	return c.active, nil
}

// AdoptDB installs db as the active database unconditionally. Used only by
// the persistence layer's startup load, which runs before any client
// session can observe or contend for the active-database slot.
func (c *Catalog) AdoptDB(db *Database) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = db
}

// Reset clears the active database (used by shutdown, after a successful
// flush).
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// growTables doubles the table list's capacity, starting at 1, per the
// growth policy in spec §4.1. It computes the next capacity from the
// slice's actual cap() rather than a separately-tracked counter, so it
// stays correct even when Tables was populated by the persistence loader
// (append, not CreateTable) rather than by doubling from empty.
func (db *Database) growTables() {
	newCap := cap(db.Tables) * 2
	if newCap == 0 {
		newCap = 1
	}
	grown := make([]*Table, len(db.Tables), newCap)
	copy(grown, db.Tables)
	db.Tables = grown
	db.tableCap = newCap
}

// ResolveActiveDatabase returns the active database if its name equals
// name, else ErrWrongDatabase — the lookup a `create(tbl,...)` statement
// needs to validate its stated db qualifier against the single active
// database before CreateTable runs (spec §4.1: create_table "fails with
// WrongDatabase if db is not the active database").
func (c *Catalog) ResolveActiveDatabase(name string) (*Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.active.Name != name {
		return nil, ErrWrongDatabase
	}
	return c.active, nil
}

// CreateTable appends a new table to db, failing if db is not the active
// database.
func (c *Catalog) CreateTable(db *Database, name string, numColumns int) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if db == nil || c.active != db {
		return nil, ErrWrongDatabase
	}
	if numColumns < 1 {
		return nil, ErrInvalidArg
	}
	if len(db.Tables) == cap(db.Tables) {
		db.growTables()
	}
	t := &Table{
		Name:       name,
		NumColumns: numColumns,
		Columns:    make([]*Column, numColumns),
		Capacity:   DefaultColSize,
	}
	db.Tables = append(db.Tables, t)
	return t, nil
}

// CreateColumn declares the next column slot on t, failing once all
// NumColumns slots are filled.
func (c *Catalog) CreateColumn(t *Table, name string) (*Column, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.nextColumn >= t.NumColumns {
		return nil, ErrTableFull
	}
	col := &Column{
		Name:     name,
		Data:     make([]int32, t.Capacity),
		Length:   t.Length,
		Capacity: t.Capacity,
	}
	t.Columns[t.nextColumn] = col
	t.nextColumn++
	return col, nil
}

// NewLoadedTable builds a Table whose columns are already fully declared,
// for use by the persistence startup load (spec §4.6). Unlike CreateTable,
// the insertion cursor is set to numColumns so a subsequent create_column
// against a rehydrated table correctly fails with ErrTableFull instead of
// overwriting an existing slot.
func NewLoadedTable(name string, numColumns, length int, columns []*Column) *Table {
	return &Table{
		Name:       name,
		NumColumns: numColumns,
		Columns:    columns,
		nextColumn: numColumns,
		Length:     length,
		Capacity:   length,
	}
}

// ParseQualifiedName splits a "db", "db.table" or "db.table.col" name into
// its components, rejecting the wrong arity as a malformed name rather
// than a lookup miss (SPEC_FULL.md §4, grounded on the original's
// strsep-based lookup_table/lookup_column).
func ParseQualifiedName(name string, parts int) ([]string, error) {
	segs := strings.Split(name, ".")
	if len(segs) != parts {
		return nil, ErrBadName
	}
	for _, s := range segs {
		if s == "" {
			return nil, ErrBadName
		}
	}
	return segs, nil
}

// LookupTable resolves "db.table" against the active database.
func (c *Catalog) LookupTable(qualified string) (*Table, error) {
	segs, err := ParseQualifiedName(qualified, 2)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.active.Name != segs[0] {
		return nil, ErrNotFound
	}
	for _, t := range c.active.Tables {
		if t.Name == segs[1] {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// LookupColumn resolves "db.table.col" against the active database.
func (c *Catalog) LookupColumn(qualified string) (*Column, error) {
	segs, err := ParseQualifiedName(qualified, 3)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.active.Name != segs[0] {
		return nil, ErrNotFound
	}
	var table *Table
	for _, t := range c.active.Tables {
		if t.Name == segs[1] {
			table = t
			break
		}
	}
	if table == nil {
		return nil, ErrNotFound
	}
	for _, col := range table.Columns {
		if col != nil && col.Name == segs[2] {
			return col, nil
		}
	}
	return nil, ErrNotFound
}

// QualifiedTableName renders "db.table" for error messages and persistence.
func QualifiedTableName(dbName string, t *Table) string {
	return fmt.Sprintf("%s.%s", dbName, t.Name)
}
