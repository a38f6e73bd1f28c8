package protocol

import (
	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/ops"
	"github.com/redbco/coldb/internal/result"
	"github.com/redbco/coldb/internal/session"
)

// Kind tags the variant an Operator record carries (spec §4.8).
type Kind int

const (
	KindCreateDB Kind = iota
	KindCreateTable
	KindCreateColumn
	KindInsert
	KindLoad
	KindSelectScan
	KindSelectDomain
	KindFetch
	KindArithmetic
	KindAggregate
	KindPrint
	KindShutdown
)

// Operator is the discriminated union the parser fills and the executor
// drains (C8). Ownership of its heap-owned fields passes to the executor,
// which is the only thing that reads a given Operator after construction.
type Operator struct {
	Kind Kind

	// CREATE
	DBName     string
	DB         *catalog.Database // resolved target db for KindCreateTable
	Table      *catalog.Table
	TableName  string
	NumColumns int
	ColumnName string

	// INSERT
	InsertRow []int32

	// LOAD
	Path string

	// SELECT
	Column   *catalog.Column
	PriorIdx *result.Result
	PriorVal *result.Result
	Low      result.Bound
	High     result.Bound

	// FETCH / generic single-column-like ops reuse Column + PriorIdx above.

	// ARITHMETIC
	ArithOp ops.ArithOp
	LHS     *result.Result
	RHS     *result.Result

	// AGGREGATE
	AggOp  ops.AggOp
	Target result.GeneralizedColumn

	// PRINT
	PrintArgs []*result.Result

	// Binding: if non-empty, the executor writes the produced result into
	// this handle name on the issuing session (spec §4.5).
	BindTo string

	Session *session.ClientContext
}
