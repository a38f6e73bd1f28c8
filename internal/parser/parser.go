// Package parser is the textual statement parser — out of the core's
// scope per spec §1, but implemented here (SPEC_FULL.md §4) as the minimal
// boundary collaborator needed to drive the executor end to end. It
// translates one statement line into a protocol.Operator, resolving
// catalog and handle references eagerly so the executor never has to look
// a name up itself.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/ops"
	"github.com/redbco/coldb/internal/protocol"
	"github.com/redbco/coldb/internal/result"
	"github.com/redbco/coldb/internal/session"
)

// Error is a parse-time failure, carrying the status code the transport
// should report (spec §6, §7).
type Error struct {
	Status protocol.StatusCode
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

func errf(status protocol.StatusCode, format string, args ...interface{}) *Error {
	return &Error{Status: status, Msg: fmt.Sprintf(format, args...)}
}

// Parser resolves statement text against a live catalog.
type Parser struct {
	Catalog *catalog.Catalog
}

// New returns a Parser bound to cat.
func New(cat *catalog.Catalog) *Parser {
	return &Parser{Catalog: cat}
}

// Parse turns one line of client input into an Operator. A nil Operator
// with a nil error means the line was a no-op (a comment or a blank line)
// and the caller should reply OK_DONE without invoking the executor (spec
// §6: "-- prefix denotes a comment line").
func (p *Parser) Parse(sess *session.ClientContext, line string) (*protocol.Operator, error) {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "--") {
		return nil, nil
	}
	if trimmed == "shutdown" {
		return &protocol.Operator{Kind: protocol.KindShutdown}, nil
	}

	bindTo := ""
	stmt := trimmed
	if i := strings.Index(trimmed, "="); i >= 0 && !strings.HasPrefix(trimmed, "create") {
		bindTo = strings.TrimSpace(trimmed[:i])
		stmt = strings.TrimSpace(trimmed[i+1:])
	}

	fn, args, err := splitCall(stmt)
	if err != nil {
		return nil, err
	}

	switch fn {
	case "create":
		return p.parseCreate(args)
	case "relational_insert":
		return p.parseInsert(args)
	case "load":
		return p.parseLoad(args)
	case "select":
		return p.parseSelect(sess, bindTo, args)
	case "fetch":
		return p.parseFetch(sess, bindTo, args)
	case "add":
		return p.parseArithmetic(sess, bindTo, ops.Add, args)
	case "sub":
		return p.parseArithmetic(sess, bindTo, ops.Sub, args)
	case "sum":
		return p.parseAggregate(sess, bindTo, ops.Sum, args)
	case "avg":
		return p.parseAggregate(sess, bindTo, ops.Avg, args)
	case "min":
		return p.parseAggregate(sess, bindTo, ops.Min, args)
	case "max":
		return p.parseAggregate(sess, bindTo, ops.Max, args)
	case "print":
		return p.parsePrint(sess, args)
	default:
		return nil, errf(protocol.UnknownCommand, "unknown statement %q", fn)
	}
}

// splitCall parses "name(a,b,c)" into ("name", ["a","b","c"]), respecting
// double-quoted string arguments.
func splitCall(stmt string) (string, []string, error) {
	open := strings.Index(stmt, "(")
	if open < 0 || !strings.HasSuffix(stmt, ")") {
		return "", nil, errf(protocol.IncorrectFormat, "malformed statement %q", stmt)
	}
	fn := strings.TrimSpace(stmt[:open])
	inner := stmt[open+1 : len(stmt)-1]
	return fn, splitArgs(inner), nil
}

func splitArgs(inner string) []string {
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	var args []string
	var cur strings.Builder
	inQuote := false
	for _, ch := range inner {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	args = append(args, strings.TrimSpace(cur.String()))
	return args
}

func unquote(s string) string {
	return strings.Trim(s, "\"")
}

func (p *Parser) parseCreate(args []string) (*protocol.Operator, error) {
	if len(args) < 2 {
		return nil, errf(protocol.IncorrectFormat, "create: expected at least 2 arguments")
	}
	switch args[0] {
	case "db":
		return &protocol.Operator{Kind: protocol.KindCreateDB, DBName: unquote(args[1])}, nil
	case "tbl":
		if len(args) != 4 {
			return nil, errf(protocol.IncorrectFormat, "create(tbl,...): expected 4 arguments")
		}
		n, err := strconv.Atoi(args[3])
		if err != nil || n < 1 {
			return nil, errf(protocol.InvalidArgument, "create(tbl,...): bad column count %q", args[3])
		}
		db, err := p.Catalog.ResolveActiveDatabase(unquote(args[2]))
		if err != nil {
			return nil, toParseErr(err)
		}
		return &protocol.Operator{Kind: protocol.KindCreateTable, DB: db, TableName: unquote(args[1]), NumColumns: n}, nil
	case "col":
		if len(args) != 3 {
			return nil, errf(protocol.IncorrectFormat, "create(col,...): expected 3 arguments")
		}
		table, err := p.Catalog.LookupTable(args[2])
		if err != nil {
			return nil, toParseErr(err)
		}
		return &protocol.Operator{Kind: protocol.KindCreateColumn, Table: table, ColumnName: unquote(args[1])}, nil
	default:
		return nil, errf(protocol.IncorrectFormat, "create: unknown target kind %q", args[0])
	}
}

func (p *Parser) parseInsert(args []string) (*protocol.Operator, error) {
	if len(args) < 1 {
		return nil, errf(protocol.IncorrectFormat, "relational_insert: expected a table name")
	}
	table, err := p.Catalog.LookupTable(args[0])
	if err != nil {
		return nil, toParseErr(err)
	}
	row := make([]int32, len(args)-1)
	for i, a := range args[1:] {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, errf(protocol.IncorrectFormat, "relational_insert: bad integer %q", a)
		}
		row[i] = int32(v)
	}
	return &protocol.Operator{Kind: protocol.KindInsert, Table: table, InsertRow: row}, nil
}

func (p *Parser) parseLoad(args []string) (*protocol.Operator, error) {
	if len(args) != 1 {
		return nil, errf(protocol.IncorrectFormat, "load: expected a single path argument")
	}
	return &protocol.Operator{Kind: protocol.KindLoad, Path: unquote(args[0])}, nil
}

func parseBound(tok string) (result.Bound, error) {
	if tok == "null" {
		return result.Unbounded, nil
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return result.Bound{}, err
	}
	return result.Of(int32(v)), nil
}

// parseSelect dispatches on argument count: the full-scan form takes a
// qualified column plus two bounds (3 args); the domain-scan form takes a
// prior INDEX handle, a prior INT handle, and two bounds (4 args) — the two
// shapes in spec §4.4 are distinguished by arity, not by a keyword.
func (p *Parser) parseSelect(sess *session.ClientContext, bindTo string, args []string) (*protocol.Operator, error) {
	switch len(args) {
	case 3:
		return p.parseSelectScan(sess, bindTo, args)
	case 4:
		return p.parseSelectDomain(sess, bindTo, args)
	default:
		return nil, errf(protocol.IncorrectFormat, "select: expected 3 (column form) or 4 (domain form) arguments")
	}
}

func (p *Parser) parseSelectScan(sess *session.ClientContext, bindTo string, args []string) (*protocol.Operator, error) {
	low, errLow := parseBound(args[1])
	high, errHigh := parseBound(args[2])
	if errLow != nil || errHigh != nil {
		return nil, errf(protocol.IncorrectFormat, "select: bad bound in %v", args[1:3])
	}
	col, err := p.Catalog.LookupColumn(args[0])
	if err != nil {
		return nil, toParseErr(err)
	}
	return &protocol.Operator{Kind: protocol.KindSelectScan, Column: col, Low: low, High: high, BindTo: bindTo, Session: sess}, nil
}

func (p *Parser) parseSelectDomain(sess *session.ClientContext, bindTo string, args []string) (*protocol.Operator, error) {
	idxH, ok := sess.Lookup(args[0])
	if !ok {
		return nil, errf(protocol.ObjectNotFound, "select: unknown handle %q", args[0])
	}
	valH, ok := sess.Lookup(args[1])
	if !ok {
		return nil, errf(protocol.ObjectNotFound, "select: unknown handle %q", args[1])
	}
	low, errLow := parseBound(args[2])
	high, errHigh := parseBound(args[3])
	if errLow != nil || errHigh != nil {
		return nil, errf(protocol.IncorrectFormat, "select: bad bound in %v", args[2:4])
	}
	return &protocol.Operator{
		Kind:     protocol.KindSelectDomain,
		PriorIdx: idxH.Value.Result,
		PriorVal: valH.Value.Result,
		Low:      low,
		High:     high,
		BindTo:   bindTo,
		Session:  sess,
	}, nil
}

func (p *Parser) parseFetch(sess *session.ClientContext, bindTo string, args []string) (*protocol.Operator, error) {
	if len(args) != 2 {
		return nil, errf(protocol.IncorrectFormat, "fetch: expected 2 arguments")
	}
	col, err := p.Catalog.LookupColumn(args[0])
	if err != nil {
		return nil, toParseErr(err)
	}
	h, ok := sess.Lookup(args[1])
	if !ok {
		return nil, errf(protocol.ObjectNotFound, "fetch: unknown handle %q", args[1])
	}
	return &protocol.Operator{Kind: protocol.KindFetch, Column: col, PriorIdx: h.Value.Result, BindTo: bindTo, Session: sess}, nil
}

func (p *Parser) parseArithmetic(sess *session.ClientContext, bindTo string, op ops.ArithOp, args []string) (*protocol.Operator, error) {
	if len(args) != 2 {
		return nil, errf(protocol.IncorrectFormat, "arithmetic: expected 2 arguments")
	}
	lh, ok := sess.Lookup(args[0])
	if !ok {
		return nil, errf(protocol.ObjectNotFound, "arithmetic: unknown handle %q", args[0])
	}
	rh, ok := sess.Lookup(args[1])
	if !ok {
		return nil, errf(protocol.ObjectNotFound, "arithmetic: unknown handle %q", args[1])
	}
	return &protocol.Operator{Kind: protocol.KindArithmetic, ArithOp: op, LHS: lh.Value.Result, RHS: rh.Value.Result, BindTo: bindTo, Session: sess}, nil
}

func (p *Parser) resolveGeneralized(sess *session.ClientContext, name string) (result.GeneralizedColumn, error) {
	if strings.Contains(name, ".") {
		col, err := p.Catalog.LookupColumn(name)
		if err != nil {
			return result.GeneralizedColumn{}, toParseErr(err)
		}
		return ops.ColumnOf(col), nil
	}
	h, ok := sess.Lookup(name)
	if !ok {
		return result.GeneralizedColumn{}, errf(protocol.ObjectNotFound, "unknown handle %q", name)
	}
	return h.Value, nil
}

func (p *Parser) parseAggregate(sess *session.ClientContext, bindTo string, op ops.AggOp, args []string) (*protocol.Operator, error) {
	if len(args) != 1 {
		return nil, errf(protocol.IncorrectFormat, "aggregate: expected 1 argument")
	}
	target, err := p.resolveGeneralized(sess, args[0])
	if err != nil {
		return nil, err
	}
	return &protocol.Operator{Kind: protocol.KindAggregate, AggOp: op, Target: target, BindTo: bindTo, Session: sess}, nil
}

func (p *Parser) parsePrint(sess *session.ClientContext, args []string) (*protocol.Operator, error) {
	if len(args) == 0 {
		return nil, errf(protocol.IncorrectFormat, "print: expected at least 1 argument")
	}
	results := make([]*result.Result, len(args))
	for i, a := range args {
		h, ok := sess.Lookup(a)
		if !ok {
			return nil, errf(protocol.ObjectNotFound, "print: unknown handle %q", a)
		}
		results[i] = h.Value.Result
	}
	return &protocol.Operator{Kind: protocol.KindPrint, PrintArgs: results}, nil
}

func toParseErr(err error) error {
	switch err {
	case catalog.ErrNotFound:
		return errf(protocol.ObjectNotFound, "%v", err)
	case catalog.ErrBadName:
		return errf(protocol.IncorrectFormat, "%v", err)
	case catalog.ErrWrongDatabase:
		return errf(protocol.InvalidArgument, "%v", err)
	default:
		return errf(protocol.ObjectNotFound, "%v", err)
	}
}
