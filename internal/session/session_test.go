package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/coldb/internal/result"
)

func TestBindCreatesThenRebinds(t *testing.T) {
	s := New()
	v1 := result.GeneralizedColumn{Result: result.NewIntResult([]int32{1})}
	s.Bind("x", v1)
	assert.Equal(t, 1, s.Count())

	h, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Same(t, v1.Result, h.Value.Result)

	v2 := result.GeneralizedColumn{Result: result.NewIntResult([]int32{2})}
	s.Bind("x", v2)
	assert.Equal(t, 1, s.Count(), "rebinding must not grow the handle table")

	h, ok = s.Lookup("x")
	require.True(t, ok)
	assert.Same(t, v2.Result, h.Value.Result)
}

// scenario S6 in spec §8: repeated rebinding under one name must not grow
// the handle table without bound.
func TestRepeatedRebindStaysBounded(t *testing.T) {
	s := New()
	for i := 0; i < 10000; i++ {
		s.Bind("x", result.GeneralizedColumn{Result: result.NewIndexResult()})
	}
	assert.Equal(t, 1, s.Count())
}

func TestHandleTableGrowsGeometrically(t *testing.T) {
	s := New()
	for i := 0; i < 100; i++ {
		s.Bind(string(rune(i)), result.GeneralizedColumn{Result: result.NewIndexResult()})
	}
	assert.Equal(t, 100, s.Count())
}

func TestReleaseEmptiesHandleTable(t *testing.T) {
	s := New()
	s.Bind("x", result.GeneralizedColumn{Result: result.NewIndexResult()})
	s.Release()
	assert.Equal(t, 0, s.Count())
	_, ok := s.Lookup("x")
	assert.False(t, ok)
}
