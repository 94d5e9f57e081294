package rangeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissing_EmptyPresent(t *testing.T) {
	got := Missing(map[int]struct{}{}, 3)
	require.Equal(t, []Range{{Start: 0, End: 2}}, got)
}

func TestMissing_AllPresent(t *testing.T) {
	present := map[int]struct{}{0: {}, 1: {}, 2: {}}
	got := Missing(present, 3)
	assert.Empty(t, got)
}

func TestMissing_Scattered(t *testing.T) {
	// present: 0, 2, 3, 6 out of {0..7} -> missing: 1, 4-5, 7
	present := map[int]struct{}{0: {}, 2: {}, 3: {}, 6: {}}
	got := Missing(present, 8)
	require.Equal(t, []Range{{1, 1}, {4, 5}, {7, 7}}, got)
}

func TestMissing_SingleChunk(t *testing.T) {
	got := Missing(map[int]struct{}{}, 1)
	require.Equal(t, []Range{{0, 0}}, got)

	got = Missing(map[int]struct{}{0: {}}, 1)
	assert.Empty(t, got)
}

func TestMissing_ZeroOrNegativeN(t *testing.T) {
	assert.Nil(t, Missing(map[int]struct{}{}, 0))
	assert.Nil(t, Missing(map[int]struct{}{}, -1))
}

func TestRoundTripLaw(t *testing.T) {
	// fill(missing_ranges(S, N)) ∪ S = {0..N-1}
	cases := []struct {
		present map[int]struct{}
		n       int
	}{
		{map[int]struct{}{}, 10},
		{map[int]struct{}{0: {}, 1: {}, 2: {}}, 3},
		{map[int]struct{}{5: {}}, 10},
		{map[int]struct{}{0: {}, 9: {}}, 10},
	}

	for _, c := range cases {
		missing := Missing(c.present, c.n)
		filled := Fill(missing)
		for k := range c.present {
			filled[k] = struct{}{}
		}
		for i := 0; i < c.n; i++ {
			_, ok := filled[i]
			assert.Truef(t, ok, "offset %d not covered for case n=%d", i, c.n)
		}
		assert.Len(t, filled, c.n)
	}
}

func TestMissingFromSlice_IgnoresOutOfRange(t *testing.T) {
	got := MissingFromSlice([]int{-1, 0, 1, 100}, 3)
	require.Equal(t, []Range{{2, 2}}, got)
}

func TestSorted(t *testing.T) {
	in := []Range{{5, 6}, {0, 1}, {3, 3}}
	got := Sorted(in)
	require.Equal(t, []Range{{0, 1}, {3, 3}, {5, 6}}, got)
}
