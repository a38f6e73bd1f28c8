package ops

import (
	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/result"
)

// Fetch gathers values of column c at the positions named by idx, an INDEX
// result. The output is an INT result with the same tuple count as idx
// (spec §4.4, testable property §8.3 — fetch is the left inverse of
// positional indexing). Positions in idx are assumed in range (spec §4.4:
// "a contract violation; the core may assume they do not occur").
func Fetch(c *catalog.Column, idx *result.Result) *result.Result {
	out := make([]int32, idx.Count)
	for i, pos := range idx.IndexData {
		out[i] = c.Data[pos]
	}
	return result.NewIntResult(out)
}
