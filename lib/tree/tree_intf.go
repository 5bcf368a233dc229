package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	ErrRBTreeIteratorEnd         = errors.New("[rbtree] dereference the end iterator")
	ErrRBTreeIteratorInvalidated = errors.New("[rbtree] iterator has been invalidated")
	ErrRBTreeIteratorForeign     = errors.New("[rbtree] iterator belongs to another tree")
)

// RBNode is the read only view of a live tree node.
// The links to the sentinel are reported as nil.
type RBNode[K any, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

type RBEntry[K any, V any] struct {
	Key K
	Val V
}

// RBTree is an ordered associative container with O(log n) insert,
// lookup and delete.
// It is not thread safe. Mutations, and mutations concurrent with
// iteration, must be serialized by the caller.
type RBTree[K any, V any] interface {
	Len() int64
	Empty() bool
	// Height returns the node count of the longest root-to-leaf path.
	Height() int64
	Root() RBNode[K, V]
	Comparator() infra.KeyComparator[K]
	AllowDuplicates() bool

	// Insert reports false and changes nothing if the key is present
	// and the duplicates are disabled. The iterator points at the
	// existing element in that case.
	Insert(key K, val V) (RBIterator[K, V], bool)
	// InsertOrAssign overwrites the value of the present key instead.
	InsertOrAssign(key K, val V) (RBIterator[K, V], bool)
	Erase(key K) bool
	// EraseAt removes the element under it and returns its successor.
	EraseAt(it RBIterator[K, V]) (RBIterator[K, V], error)
	EraseMin() (RBEntry[K, V], bool)
	EraseMax() (RBEntry[K, V], bool)
	Clear()

	Find(key K) RBIterator[K, V]
	Contains(key K) bool
	Count(key K) int64
	LowerBound(key K) RBIterator[K, V]
	UpperBound(key K) RBIterator[K, V]
	EqualRange(key K) (RBIterator[K, V], RBIterator[K, V])

	Min() RBIterator[K, V]
	Max() RBIterator[K, V]
	Begin() RBIterator[K, V]
	End() RBIterator[K, V]
	RBegin() RBReverseIterator[K, V]
	REnd() RBReverseIterator[K, V]

	InOrder() []RBEntry[K, V]
	PreOrder() []RBEntry[K, V]
	PostOrder() []RBEntry[K, V]
	LevelOrder() []RBEntry[K, V]
	InOrderVisit(visit func(key K, val V))
	PreOrderVisit(visit func(key K, val V))
	PostOrderVisit(visit func(key K, val V))
	LevelOrderVisit(visit func(key K, val V))
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	ReverseForeach(action func(idx int64, color RBColor, key K, val V) bool)

	// Clone rebuilds an independent tree by re-inserting every element.
	Clone() RBTree[K, V]
	// Move hands over all elements to the returned tree in O(1) and
	// leaves the current one empty and reusable.
	Move() RBTree[K, V]
	Swap(other RBTree[K, V])
	EqualFunc(other RBTree[K, V], eq func(v1, v2 V) bool) bool
}

// Equal reports whether two trees hold the same key/value pairs in the
// same in-order sequence. The internal shape is ignored.
func Equal[K any, V comparable](t1, t2 RBTree[K, V]) bool {
	return t1.EqualFunc(t2, func(v1, v2 V) bool {
		return v1 == v2
	})
}

// NotEqual is the negation of Equal.
func NotEqual[K any, V comparable](t1, t2 RBTree[K, V]) bool {
	return !Equal[K, V](t1, t2)
}
