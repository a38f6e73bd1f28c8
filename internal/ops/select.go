package ops

import (
	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/result"
)

// inRange applies the half-open [low, high) comparator, skipping any
// endpoint that is not Present (spec §4.4).
func inRange(v int32, low, high result.Bound) bool {
	if low.Present && v < low.Value {
		return false
	}
	if high.Present && v >= high.Value {
		return false
	}
	return true
}

// SelectScan performs a full scan over column c, emitting an INDEX result
// listing every position whose value satisfies [low, high) (spec §4.4,
// "Full scan").
func SelectScan(c *catalog.Column, low, high result.Bound) *result.Result {
	out := result.NewIndexResult()
	for i := 0; i < c.Length; i++ {
		if inRange(c.Data[i], low, high) {
			out.AppendIndex(int32(i))
		}
	}
	return out
}

// SelectDomain performs a domain scan: idx is a prior INDEX result and vals
// is a prior INT result of the same tuple count; for each i the comparator
// is applied to vals.IntData[i], and on a match the *original* position
// idx.IndexData[i] is emitted (spec §4.4, "Domain scan").
func SelectDomain(idx, vals *result.Result, low, high result.Bound) (*result.Result, error) {
	if idx.Count != vals.Count {
		return nil, ErrSizeMismatch
	}
	out := result.NewIndexResult()
	for i := 0; i < idx.Count; i++ {
		if inRange(vals.IntData[i], low, high) {
			out.AppendIndex(idx.IndexData[i])
		}
	}
	return out, nil
}
