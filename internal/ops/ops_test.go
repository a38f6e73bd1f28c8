package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/result"
)

func col(data ...int32) *catalog.Column {
	return &catalog.Column{Data: data, Length: len(data), Capacity: len(data)}
}

// scenario S1 in spec §8.
func TestSelectFetchScenarioS1(t *testing.T) {
	a := col(10, 20, 30)
	b := col(100, 200, 300)

	idx := SelectScan(a, result.Of(15), result.Of(35))
	require.Equal(t, []int32{1, 2}, idx.IndexData)

	v := Fetch(b, idx)
	assert.Equal(t, []int32{200, 300}, v.IntData)

	out, err := Print([]*result.Result{v})
	require.NoError(t, err)
	assert.Equal(t, "200\n300\n", string(out))
}

func TestSelectUnboundedEndpoints(t *testing.T) {
	a := col(10, 20, 30)
	idx := SelectScan(a, result.Unbounded, result.Unbounded)
	assert.Equal(t, []int32{0, 1, 2}, idx.IndexData)
}

func TestSelectDomainPreservesOriginalPositions(t *testing.T) {
	a := col(10, 20, 30)
	b := col(100, 200, 300)

	s1 := SelectScan(a, result.Unbounded, result.Of(25))
	v1 := Fetch(b, s1)

	s2, err := SelectDomain(s1, v1, result.Of(150), result.Unbounded)
	require.NoError(t, err)
	assert.Equal(t, []int32{1}, s2.IndexData)

	v2 := Fetch(b, s2)
	assert.Equal(t, []int32{200}, v2.IntData)
}

func TestArithmeticAddAndSizeMismatch(t *testing.T) {
	a := result.NewIntResult([]int32{10, 20})
	b := result.NewIntResult([]int32{100, 200})

	sum, err := Arithmetic(Add, a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{110, 220}, sum.IntData)

	short := result.NewIntResult([]int32{1})
	_, err = Arithmetic(Add, a, short)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestAggregateSumAvgOverIntResult(t *testing.T) {
	v := result.NewIntResult([]int32{200, 300})

	sum, err := Aggregate(Sum, result.GeneralizedColumn{Result: v})
	require.NoError(t, err)
	assert.Equal(t, result.Long, sum.Type)
	assert.Equal(t, int64(500), sum.LongData[0])

	avg, err := Aggregate(Avg, result.GeneralizedColumn{Result: v})
	require.NoError(t, err)
	assert.Equal(t, result.Float, avg.Type)
	assert.InDelta(t, 250.0, avg.FloatData[0], 1e-9)
}

func TestAggregateEmptyInputFails(t *testing.T) {
	empty := result.NewIntResult(nil)
	_, err := Aggregate(Avg, result.GeneralizedColumn{Result: empty})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = Aggregate(Min, result.GeneralizedColumn{Result: empty})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAggregateMinMaxOverRawColumn(t *testing.T) {
	c := col(30, 10, 20)
	min, err := Aggregate(Min, ColumnOf(c))
	require.NoError(t, err)
	assert.Equal(t, result.Int, min.Type)
	assert.Equal(t, int32(10), min.IntData[0])

	max, err := Aggregate(Max, ColumnOf(c))
	require.NoError(t, err)
	assert.Equal(t, int32(30), max.IntData[0])
}

func TestPrintFormatsFloatsWithTwoDecimals(t *testing.T) {
	f := result.NewFloatScalar(250)
	out, err := Print([]*result.Result{f})
	require.NoError(t, err)
	assert.Equal(t, "250.00\n", string(out))
}

func TestPrintRejectsMismatchedTupleCounts(t *testing.T) {
	a := result.NewIntResult([]int32{1, 2})
	b := result.NewIntResult([]int32{1})
	_, err := Print([]*result.Result{a, b})
	assert.ErrorIs(t, err, ErrPrintShape)
}

func TestPrintWidestColumnIsNotTruncated(t *testing.T) {
	// A regression test for the source's "size off the first column" bug
	// (spec §9, design note): put the narrow column first and a much wider
	// one second.
	narrow := result.NewIntResult([]int32{1})
	wide := result.NewLongScalar(123456789012)
	out, err := Print([]*result.Result{narrow, wide})
	require.NoError(t, err)
	assert.Equal(t, "1,123456789012\n", string(out))
}
