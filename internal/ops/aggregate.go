package ops

import (
	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/result"
)

// AggOp is the aggregate opcode (spec §4.4).
type AggOp int

const (
	Sum AggOp = iota
	Avg
	Min
	Max
)

// int64View resolves a generalized column to a flat []int64 view,
// widening every element to 64 bits as it goes
// (spec §4.4: "64-bit accumulator, widening convert each element").
// A FLOAT result has no such view (the bool is false); callers handle
// FLOAT inputs on their own path so floating semantics are preserved.
func int64View(g result.GeneralizedColumn) ([]int64, bool) {
	if g.Column != nil {
		c := g.Column
		out := make([]int64, c.Length)
		for i, v := range c.Data[:c.Length] {
			out[i] = int64(v)
		}
		return out, true
	}
	r := g.Result
	switch r.Type {
	case result.Int:
		out := make([]int64, len(r.IntData))
		for i, v := range r.IntData {
			out[i] = int64(v)
		}
		return out, true
	case result.Index:
		out := make([]int64, len(r.IndexData))
		for i, v := range r.IndexData {
			out[i] = int64(v)
		}
		return out, true
	case result.Long:
		return append([]int64(nil), r.LongData...), true
	default:
		return nil, false
	}
}

// Aggregate dispatches op over the generalized column g (spec §4.4).
func Aggregate(op AggOp, g result.GeneralizedColumn) (*result.Result, error) {
	switch op {
	case Sum:
		return aggSum(g)
	case Avg:
		return aggAvg(g)
	case Min:
		return aggMinMax(g, true)
	case Max:
		return aggMinMax(g, false)
	default:
		return nil, ErrEmptyInput
	}
}

func aggSum(g result.GeneralizedColumn) (*result.Result, error) {
	if g.ElementType() == result.Float {
		var sum float64
		for _, v := range g.Result.FloatData {
			sum += v
		}
		return result.NewFloatScalar(sum), nil
	}
	vals, ok := int64View(g)
	if !ok {
		return nil, ErrEmptyInput
	}
	var sum int64
	for _, v := range vals {
		sum += v
	}
	return result.NewLongScalar(sum), nil
}

func aggAvg(g result.GeneralizedColumn) (*result.Result, error) {
	n := g.Len()
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if g.ElementType() == result.Float {
		var sum float64
		for _, v := range g.Result.FloatData {
			sum += v
		}
		return result.NewFloatScalar(sum / float64(n)), nil
	}
	vals, ok := int64View(g)
	if !ok {
		return nil, ErrEmptyInput
	}
	var sum int64
	for _, v := range vals {
		sum += v
	}
	return result.NewFloatScalar(float64(sum) / float64(n)), nil
}

func aggMinMax(g result.GeneralizedColumn, wantMin bool) (*result.Result, error) {
	if g.Len() == 0 {
		return nil, ErrEmptyInput
	}

	// Output type equals the input element type: INT for a raw column,
	// otherwise the result's own element type (spec §4.4).
	switch {
	case g.Column != nil || g.Result.Type == result.Int || g.Result.Type == result.Index:
		vals, _ := int64View(g)
		best := vals[0]
		for _, v := range vals[1:] {
			if (wantMin && v < best) || (!wantMin && v > best) {
				best = v
			}
		}
		if g.Column == nil && g.Result.Type == result.Index {
			return &result.Result{Type: result.Index, Count: 1, Capacity: 1, IndexData: []int32{int32(best)}}, nil
		}
		return result.NewIntScalar(int32(best)), nil
	case g.Result.Type == result.Long:
		best := g.Result.LongData[0]
		for _, v := range g.Result.LongData[1:] {
			if (wantMin && v < best) || (!wantMin && v > best) {
				best = v
			}
		}
		return result.NewLongScalar(best), nil
	case g.Result.Type == result.Float:
		best := g.Result.FloatData[0]
		for _, v := range g.Result.FloatData[1:] {
			if (wantMin && v < best) || (!wantMin && v > best) {
				best = v
			}
		}
		return result.NewFloatScalar(best), nil
	default:
		return nil, ErrEmptyInput
	}
}

// ColumnOf wraps a catalog column as a generalized column, a convenience
// used by the executor when an aggregate targets a qualified column name
// rather than a handle.
func ColumnOf(c *catalog.Column) result.GeneralizedColumn {
	return result.GeneralizedColumn{Column: c}
}
