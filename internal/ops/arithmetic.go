package ops

import "github.com/redbco/coldb/internal/result"

// ArithOp is the elementwise opcode (spec §4.4).
type ArithOp int

const (
	Add ArithOp = iota
	Sub
)

// Arithmetic computes a elementwise-combined with b via op. Both operands
// must share a tuple count (spec §4.4).
func Arithmetic(op ArithOp, a, b *result.Result) (*result.Result, error) {
	if a.Count != b.Count {
		return nil, ErrSizeMismatch
	}
	out := make([]int32, a.Count)
	for i := range out {
		switch op {
		case Add:
			out[i] = a.IntData[i] + b.IntData[i]
		case Sub:
			out[i] = a.IntData[i] - b.IntData[i]
		}
	}
	return result.NewIntResult(out), nil
}
