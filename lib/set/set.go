package set

import (
	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// Set is an ordered collection of unique keys backed by a red-black tree.
// It is not thread safe.
type Set[K any] struct {
	tree tree.RBTree[K, infra.Placeholder]
}

// SetIterator is a bidirectional position in the key order.
// It hides the placeholder value of the backing tree.
type SetIterator[K any] struct {
	it tree.RBIterator[K, infra.Placeholder]
}

func (it SetIterator[K]) Key() (K, error) {
	return it.it.Key()
}

func (it SetIterator[K]) IsEnd() bool {
	return it.it.IsEnd()
}

func (it SetIterator[K]) Valid() bool {
	return it.it.Valid()
}

func (it SetIterator[K]) Next() SetIterator[K] {
	return SetIterator[K]{it.it.Next()}
}

func (it SetIterator[K]) Prev() SetIterator[K] {
	return SetIterator[K]{it.it.Prev()}
}

func (it SetIterator[K]) Equal(other SetIterator[K]) bool {
	return it.it.Equal(other.it)
}

type SetReverseIterator[K any] struct {
	it tree.RBReverseIterator[K, infra.Placeholder]
}

func (it SetReverseIterator[K]) Key() (K, error)             { return it.it.Key() }
func (it SetReverseIterator[K]) IsEnd() bool                 { return it.it.IsEnd() }
func (it SetReverseIterator[K]) Valid() bool                 { return it.it.Valid() }
func (it SetReverseIterator[K]) Next() SetReverseIterator[K] { return SetReverseIterator[K]{it.it.Next()} }
func (it SetReverseIterator[K]) Prev() SetReverseIterator[K] { return SetReverseIterator[K]{it.it.Prev()} }

func (it SetReverseIterator[K]) Base() SetIterator[K] {
	return SetIterator[K]{it.it.Base()}
}

func (it SetReverseIterator[K]) Equal(other SetReverseIterator[K]) bool {
	return it.it.Equal(other.it)
}

func NewSet[K infra.OrderedKey](keys ...K) *Set[K] {
	return NewSetFunc[K](infra.AscOrderedKeyCmp[K], keys...)
}

func NewSetFunc[K any](cmp infra.KeyComparator[K], keys ...K) *Set[K] {
	s := &Set[K]{
		tree: tree.NewRBTreeFunc[K, infra.Placeholder](cmp),
	}
	for _, key := range keys {
		s.Insert(key)
	}
	return s
}

func (s *Set[K]) Len() int64 {
	return s.tree.Len()
}

func (s *Set[K]) Empty() bool {
	return s.tree.Empty()
}

func (s *Set[K]) Clear() {
	s.tree.Clear()
}

// Insert reports false if the key is present, the iterator then points
// at the existing key.
func (s *Set[K]) Insert(key K) (SetIterator[K], bool) {
	it, ok := s.tree.Insert(key, infra.Placeholder{})
	return SetIterator[K]{it}, ok
}

func (s *Set[K]) Erase(key K) bool {
	return s.tree.Erase(key)
}

// EraseAt removes the key under it and returns the next position.
func (s *Set[K]) EraseAt(it SetIterator[K]) (SetIterator[K], error) {
	next, err := s.tree.EraseAt(it.it)
	return SetIterator[K]{next}, err
}

func (s *Set[K]) Find(key K) SetIterator[K] {
	return SetIterator[K]{s.tree.Find(key)}
}

func (s *Set[K]) Contains(key K) bool {
	return s.tree.Contains(key)
}

func (s *Set[K]) LowerBound(key K) SetIterator[K] {
	return SetIterator[K]{s.tree.LowerBound(key)}
}

func (s *Set[K]) UpperBound(key K) SetIterator[K] {
	return SetIterator[K]{s.tree.UpperBound(key)}
}

func (s *Set[K]) EqualRange(key K) (SetIterator[K], SetIterator[K]) {
	first, last := s.tree.EqualRange(key)
	return SetIterator[K]{first}, SetIterator[K]{last}
}

func (s *Set[K]) Begin() SetIterator[K] {
	return SetIterator[K]{s.tree.Begin()}
}

func (s *Set[K]) End() SetIterator[K] {
	return SetIterator[K]{s.tree.End()}
}

func (s *Set[K]) RBegin() SetReverseIterator[K] {
	return SetReverseIterator[K]{s.tree.RBegin()}
}

func (s *Set[K]) REnd() SetReverseIterator[K] {
	return SetReverseIterator[K]{s.tree.REnd()}
}

// Keys returns the keys in ascending order.
func (s *Set[K]) Keys() []K {
	return lo.Map(s.tree.InOrder(), func(e tree.RBEntry[K, infra.Placeholder], _ int) K {
		return e.Key
	})
}

func (s *Set[K]) Foreach(action func(idx int64, key K) bool) {
	s.tree.Foreach(func(idx int64, _ tree.RBColor, key K, _ infra.Placeholder) bool {
		return action(idx, key)
	})
}

func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{tree: s.tree.Clone()}
}

// Move hands over all keys to the returned set, s is left empty.
func (s *Set[K]) Move() *Set[K] {
	return &Set[K]{tree: s.tree.Move()}
}

func (s *Set[K]) Swap(other *Set[K]) {
	s.tree.Swap(other.tree)
}

func (s *Set[K]) Equal(other *Set[K]) bool {
	if other == nil {
		return false
	}
	return tree.Equal[K, infra.Placeholder](s.tree, other.tree)
}

// Validate checks the red-black rules of the backing tree.
func (s *Set[K]) Validate() error {
	return tree.Validate[K, infra.Placeholder](s.tree)
}
