package set

import (
	randv2 "math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/tree"
)

func TestSetInsertAndErase(t *testing.T) {
	s := NewSet[int]()
	require.True(t, s.Empty())

	for _, key := range []int{10, 5, 15} {
		_, ok := s.Insert(key)
		require.True(t, ok)
	}
	it, ok := s.Insert(10)
	require.False(t, ok)
	k, err := it.Key()
	require.NoError(t, err)
	require.Equal(t, 10, k)

	require.False(t, s.Contains(20))
	require.Equal(t, []int{5, 10, 15}, s.Keys())
	require.Equal(t, int64(3), s.Len())

	require.True(t, s.Erase(10))
	require.False(t, s.Erase(10))
	require.Equal(t, []int{5, 15}, s.Keys())
	require.NoError(t, s.Validate())

	s.Clear()
	require.True(t, s.Empty())
	require.Empty(t, s.Keys())
}

func TestSetIterators(t *testing.T) {
	s := NewSet[int](3, 1, 2, 5, 4)

	keys := make([]int, 0, 5)
	for it := s.Begin(); !it.Equal(s.End()); it = it.Next() {
		k, err := it.Key()
		require.NoError(t, err)
		keys = append(keys, k)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, keys)

	keys = keys[:0]
	for it := s.RBegin(); !it.Equal(s.REnd()); it = it.Next() {
		k, err := it.Key()
		require.NoError(t, err)
		keys = append(keys, k)
	}
	require.Equal(t, []int{5, 4, 3, 2, 1}, keys)
	require.True(t, s.RBegin().Base().Equal(s.End().Prev()))
	require.True(t, s.RBegin().Prev().IsEnd())

	next, err := s.EraseAt(s.Find(3))
	require.NoError(t, err)
	k, err := next.Key()
	require.NoError(t, err)
	require.Equal(t, 4, k)

	_, err = s.EraseAt(s.End())
	require.ErrorIs(t, err, tree.ErrRBTreeIteratorEnd)

	stale := s.Find(4)
	s.Erase(4)
	require.False(t, stale.Valid())
	_, err = stale.Key()
	require.ErrorIs(t, err, tree.ErrRBTreeIteratorInvalidated)
}

func TestSetBounds(t *testing.T) {
	s := NewSet[int](10, 20, 30)

	type testcase struct {
		name          string
		key           int
		lower, upper  int
		lowerEnd      bool
		upperEnd      bool
		expectedFound bool
	}
	testcases := []testcase{
		{name: "below", key: 1, lower: 10, upper: 10},
		{name: "present", key: 20, lower: 20, upper: 30, expectedFound: true},
		{name: "between", key: 21, lower: 30, upper: 30},
		{name: "above", key: 31, lowerEnd: true, upperEnd: true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			lower, upper := s.EqualRange(tc.key)
			require.Equal(tt, tc.lowerEnd, lower.IsEnd())
			require.Equal(tt, tc.upperEnd, upper.IsEnd())
			if !tc.lowerEnd {
				k, _ := lower.Key()
				require.Equal(tt, tc.lower, k)
				require.True(tt, lower.Equal(s.LowerBound(tc.key)))
			}
			if !tc.upperEnd {
				k, _ := upper.Key()
				require.Equal(tt, tc.upper, k)
				require.True(tt, upper.Equal(s.UpperBound(tc.key)))
			}
			require.Equal(tt, tc.expectedFound, !s.Find(tc.key).IsEnd())
		})
	}
}

func TestSetLifecycle(t *testing.T) {
	s := NewSet[int](1, 2, 3)
	cloned := s.Clone()
	moved := s.Move()

	assert.Equal(t, []int{1, 2, 3}, cloned.Keys())
	assert.Equal(t, []int{1, 2, 3}, moved.Keys())
	assert.True(t, s.Empty())
	assert.True(t, cloned.Equal(moved))
	assert.False(t, cloned.Equal(s))
	assert.False(t, cloned.Equal(nil))

	other := NewSet[int](4, 5)
	other.Swap(cloned)
	assert.Equal(t, []int{1, 2, 3}, other.Keys())
	assert.Equal(t, []int{4, 5}, cloned.Keys())

	assert.True(t, NewSet[int](1, 2, 3).Equal(NewSet[int](3, 1, 2)))
	assert.False(t, NewSet[int](4, 5).Equal(NewSet[int](1, 2, 3)))
}

func TestSetFunc(t *testing.T) {
	s := NewSetFunc[string](func(i, j string) int64 {
		return int64(strings.Compare(strings.ToLower(i), strings.ToLower(j)))
	}, "b", "A", "B", "a", "c")
	keys := make([]string, 0, 3)
	s.Foreach(func(idx int64, key string) bool {
		require.Equal(t, int64(len(keys)), idx)
		keys = append(keys, key)
		return true
	})
	require.Equal(t, []string{"A", "b", "c"}, keys)
	require.Equal(t, []string{"A", "b", "c"}, s.Keys())
	require.True(t, s.Contains("C"))
}

func TestSetRandom(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(11, 13))
	s := NewSet[uint32]()
	model := make(map[uint32]struct{})
	for i := 0; i < 20_000; i++ {
		key := rng.Uint32N(4096)
		if rng.IntN(3) == 0 {
			_, present := model[key]
			require.Equal(t, present, s.Erase(key))
			delete(model, key)
		} else {
			_, ok := s.Insert(key)
			_, present := model[key]
			require.Equal(t, !present, ok)
			model[key] = struct{}{}
		}
	}
	require.NoError(t, s.Validate())
	require.Equal(t, int64(len(model)), s.Len())

	keys := s.Keys()
	require.True(t, sort.SliceIsSorted(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	}))
	for _, key := range keys {
		_, present := model[key]
		require.True(t, present)
	}
}
