package ops

import (
	"strconv"
	"strings"

	"github.com/redbco/coldb/internal/result"
)

// Print formats an ordered list of results, all sharing a common tuple
// count N, into N lines of K comma-separated values each (spec §4.4,
// testable property §8.7). Unlike the source (design note §9, open
// question), this streams into a single growable strings.Builder rather
// than sizing the row buffer off the first column's formatted width, so a
// later, wider column can never be truncated.
func Print(results []*result.Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, nil
	}
	n := results[0].Count
	for _, r := range results[1:] {
		if r.Count != n {
			return nil, ErrPrintShape
		}
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		for k, r := range results {
			if k > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatValue(r, i))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func formatValue(r *result.Result, i int) string {
	switch r.Type {
	case result.Int:
		return strconv.FormatInt(int64(r.IntData[i]), 10)
	case result.Index:
		return strconv.FormatInt(int64(r.IndexData[i]), 10)
	case result.Long:
		return strconv.FormatInt(r.LongData[i], 10)
	case result.Float:
		return strconv.FormatFloat(r.FloatData[i], 'f', 2, 64)
	default:
		return ""
	}
}
