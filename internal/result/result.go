// Package result implements the typed intermediate-value model (C3): an
// immutable Result produced by an operator, and the GeneralizedColumn sum
// type that lets operators accept either a catalog column or a prior
// result.
package result

import "github.com/redbco/coldb/internal/catalog"

// ElementType tags the payload carried by a Result.
type ElementType int

const (
	Index ElementType = iota
	Int
	Long
	Float
)

func (t ElementType) String() string {
	switch t {
	case Index:
		return "INDEX"
	case Int:
		return "INT"
	case Long:
		return "LONG"
	case Float:
		return "FLOAT"
	default:
		return "UNKNOWN"
	}
}

// Result is an immutable value produced by an operator (spec §3). Exactly
// one of the payload fields is meaningful, selected by Type. Scalars
// (produced by an aggregate) are carried as length-1 vectors with
// Count==1; nothing in a Result tells such a scalar apart from a length-1
// vector result.
type Result struct {
	Type ElementType

	Count    int // tuple count
	Capacity int // >= Count

	IndexData []int32 // Type == Index
	IntData   []int32 // Type == Int
	LongData  []int64 // Type == Long
	FloatData []float64
}

const defaultCapacity = catalog.DefaultColSize

// NewIndexResult allocates an empty INDEX result with the reference
// starting capacity (spec §4.4).
func NewIndexResult() *Result {
	return &Result{Type: Index, Capacity: defaultCapacity, IndexData: make([]int32, 0, defaultCapacity)}
}

// AppendIndex appends a row position, doubling capacity on overflow.
func (r *Result) AppendIndex(pos int32) {
	if len(r.IndexData) == cap(r.IndexData) {
		r.growIndex()
	}
	r.IndexData = append(r.IndexData, pos)
	r.Count = len(r.IndexData)
	r.Capacity = cap(r.IndexData)
}

func (r *Result) growIndex() {
	newCap := cap(r.IndexData) * 2
	if newCap == 0 {
		newCap = defaultCapacity
	}
	grown := make([]int32, len(r.IndexData), newCap)
	copy(grown, r.IndexData)
	r.IndexData = grown
}

// NewIntResult wraps a fully-computed INT vector (fetch/arithmetic output).
func NewIntResult(data []int32) *Result {
	return &Result{Type: Int, Count: len(data), Capacity: len(data), IntData: data}
}

// NewLongScalar wraps a single LONG value (SUM).
func NewLongScalar(v int64) *Result {
	return &Result{Type: Long, Count: 1, Capacity: 1, LongData: []int64{v}}
}

// NewFloatScalar wraps a single FLOAT value (AVG).
func NewFloatScalar(v float64) *Result {
	return &Result{Type: Float, Count: 1, Capacity: 1, FloatData: []float64{v}}
}

// NewIntScalar wraps a single INT value (MIN/MAX over an INT column).
func NewIntScalar(v int32) *Result {
	return &Result{Type: Int, Count: 1, Capacity: 1, IntData: []int32{v}}
}

// GeneralizedColumn is the tagged union {COLUMN, RESULT} operators that
// accept either a raw catalog column or a previously computed result use
// (spec §3). Exactly one of Column/Result is non-nil.
type GeneralizedColumn struct {
	Column *catalog.Column
	Result *Result
}

// Len returns the element count of whichever variant is populated.
func (g GeneralizedColumn) Len() int {
	if g.Column != nil {
		return g.Column.Length
	}
	return g.Result.Count
}

// ElementType returns the logical element type: INT for a raw column,
// otherwise the result's own element type.
func (g GeneralizedColumn) ElementType() ElementType {
	if g.Column != nil {
		return Int
	}
	return g.Result.Type
}
