// Package executor implements C5: dispatch of a tagged Operator record to
// the C4 routines, binding of the produced result into the issuing
// session's handle table, and the shutdown signal observed by the accept
// loop.
package executor

import (
	"errors"
	"sync/atomic"

	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/ops"
	"github.com/redbco/coldb/internal/persistence"
	"github.com/redbco/coldb/internal/protocol"
	"github.com/redbco/coldb/internal/result"
	"github.com/redbco/coldb/internal/storage"
	"github.com/redbco/coldb/pkg/logger"
)

// Executor owns the catalog and the persistence root directory, and serves
// one statement at a time — the core is single-threaded and
// session-serialized (spec §5); callers must not invoke Execute
// concurrently from more than one goroutine.
type Executor struct {
	Catalog  *catalog.Catalog
	DataRoot string
	Log      *logger.Logger

	shuttingDown int32
}

// New builds an Executor over an already-populated (or empty) catalog.
func New(cat *catalog.Catalog, dataRoot string, log *logger.Logger) *Executor {
	return &Executor{Catalog: cat, DataRoot: dataRoot, Log: log}
}

// ShuttingDown reports whether SHUTDOWN has been dispatched; the accept
// loop checks this after each statement to decide whether to keep serving.
func (e *Executor) ShuttingDown() bool {
	return atomic.LoadInt32(&e.shuttingDown) == 1
}

// Result carries the executor's outcome for one statement: a status code,
// an optional payload (PRINT only, spec §4.5), and the underlying error if
// any (for logging).
type Result struct {
	Status  protocol.StatusCode
	Payload []byte
	Err     error
}

// Execute dispatches op and returns the outcome. The caller (the
// transport's per-connection handler) is expected to have already resolved
// every catalog/handle reference named in op via the parser; Execute does
// not re-resolve names.
func (e *Executor) Execute(op *protocol.Operator) Result {
	switch op.Kind {
	case protocol.KindCreateDB:
		_, err := e.Catalog.CreateDB(op.DBName)
		return statusFromCatalogErr(err)

	case protocol.KindCreateTable:
		_, err := e.Catalog.CreateTable(op.DB, op.TableName, op.NumColumns)
		return statusFromCatalogErr(err)

	case protocol.KindCreateColumn:
		_, err := e.Catalog.CreateColumn(op.Table, op.ColumnName)
		return statusFromCatalogErr(err)

	case protocol.KindInsert:
		err := storage.RelationalInsert(op.Table, op.InsertRow)
		if err != nil {
			return Result{Status: protocol.InvalidArgument, Err: err}
		}
		return Result{Status: protocol.OKDone}

	case protocol.KindLoad:
		_, err := storage.LoadTable(e.Catalog, op.Path)
		if err != nil {
			return Result{Status: protocol.ExecutionError, Err: err}
		}
		return Result{Status: protocol.OKDone}

	case protocol.KindSelectScan:
		r := ops.SelectScan(op.Column, op.Low, op.High)
		e.bind(op, result.GeneralizedColumn{Result: r})
		return Result{Status: protocol.OKDone}

	case protocol.KindSelectDomain:
		r, err := ops.SelectDomain(op.PriorIdx, op.PriorVal, op.Low, op.High)
		if err != nil {
			return Result{Status: protocol.InvalidArgument, Err: err}
		}
		e.bind(op, result.GeneralizedColumn{Result: r})
		return Result{Status: protocol.OKDone}

	case protocol.KindFetch:
		r := ops.Fetch(op.Column, op.PriorIdx)
		e.bind(op, result.GeneralizedColumn{Result: r})
		return Result{Status: protocol.OKDone}

	case protocol.KindArithmetic:
		r, err := ops.Arithmetic(op.ArithOp, op.LHS, op.RHS)
		if err != nil {
			return Result{Status: protocol.InvalidArgument, Err: err}
		}
		e.bind(op, result.GeneralizedColumn{Result: r})
		return Result{Status: protocol.OKDone}

	case protocol.KindAggregate:
		r, err := ops.Aggregate(op.AggOp, op.Target)
		if err != nil {
			return Result{Status: protocol.InvalidArgument, Err: err}
		}
		e.bind(op, result.GeneralizedColumn{Result: r})
		return Result{Status: protocol.OKDone}

	case protocol.KindPrint:
		payload, err := ops.Print(op.PrintArgs)
		if err != nil {
			return Result{Status: protocol.InvalidArgument, Err: err}
		}
		return Result{Status: protocol.OKWaitForResponse, Payload: payload}

	case protocol.KindShutdown:
		if err := persistence.Flush(e.Catalog, e.DataRoot); err != nil {
			e.Log.Errorf("shutdown flush failed: %v", err)
			return Result{Status: protocol.ExecutionError, Err: err}
		}
		e.Catalog.Reset()
		atomic.StoreInt32(&e.shuttingDown, 1)
		return Result{Status: protocol.OKDone}

	default:
		return Result{Status: protocol.UnknownCommand, Err: errors.New("executor: unhandled operator kind")}
	}
}

// bind installs v into op.BindTo on op.Session, if the statement was bound
// as "name = expr" (spec §4.5). Session.Bind itself releases whatever was
// previously bound under that name.
func (e *Executor) bind(op *protocol.Operator, v result.GeneralizedColumn) {
	if op.BindTo == "" || op.Session == nil {
		return
	}
	op.Session.Bind(op.BindTo, v)
}

func statusFromCatalogErr(err error) Result {
	switch {
	case err == nil:
		return Result{Status: protocol.OKDone}
	case errors.Is(err, catalog.ErrAlreadyActive), errors.Is(err, catalog.ErrWrongDatabase), errors.Is(err, catalog.ErrTableFull), errors.Is(err, catalog.ErrInvalidArg):
		return Result{Status: protocol.InvalidArgument, Err: err}
	case errors.Is(err, catalog.ErrNotFound):
		return Result{Status: protocol.ObjectNotFound, Err: err}
	case errors.Is(err, catalog.ErrBadName):
		return Result{Status: protocol.IncorrectFormat, Err: err}
	default:
		return Result{Status: protocol.ExecutionError, Err: err}
	}
}
