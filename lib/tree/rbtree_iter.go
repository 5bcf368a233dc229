package tree

import (
	"errors"
)

// RBIterator is a bidirectional position in the ascending key order.
// The end position is a ring point: Next of end is the minimum and
// Prev of end is the maximum.
// Erasing an element invalidates only the iterators pointing at it.
// Clear, Move and Swap invalidate every element iterator of the tree
// handle they are applied to.
type RBIterator[K any, V any] struct {
	tree     *rbTree[K, V]
	sentinel *rbNode[K, V]
	node     *rbNode[K, V]
}

func (tree *rbTree[K, V]) iter(node *rbNode[K, V]) RBIterator[K, V] {
	return RBIterator[K, V]{
		tree:     tree,
		sentinel: tree.sentinel,
		node:     node,
	}
}

func (it RBIterator[K, V]) check() error {
	if it.tree == nil || it.node == nil || it.sentinel != it.tree.sentinel {
		return ErrRBTreeIteratorInvalidated
	}
	if it.node == it.sentinel {
		return ErrRBTreeIteratorEnd
	}
	if !it.node.hasKV {
		return ErrRBTreeIteratorInvalidated
	}
	return nil
}

// owns checks that it is a dereferenceable iterator of the tree.
func (tree *rbTree[K, V]) owns(it RBIterator[K, V]) error {
	if it.tree != nil && it.tree != tree {
		return ErrRBTreeIteratorForeign
	}
	return it.check()
}

func (it RBIterator[K, V]) IsEnd() bool {
	return errors.Is(it.check(), ErrRBTreeIteratorEnd)
}

// Valid reports whether the iterator can be dereferenced.
func (it RBIterator[K, V]) Valid() bool {
	return it.check() == nil
}

func (it RBIterator[K, V]) Key() (K, error) {
	if err := it.check(); err != nil {
		var k K
		return k, err
	}
	return it.node.key, nil
}

func (it RBIterator[K, V]) Val() (V, error) {
	if err := it.check(); err != nil {
		var v V
		return v, err
	}
	return it.node.val, nil
}

func (it RBIterator[K, V]) Entry() (RBEntry[K, V], error) {
	if err := it.check(); err != nil {
		return RBEntry[K, V]{}, err
	}
	return RBEntry[K, V]{Key: it.node.key, Val: it.node.val}, nil
}

// SetVal replaces the mapped value. The key is immutable.
func (it RBIterator[K, V]) SetVal(val V) error {
	if err := it.check(); err != nil {
		return err
	}
	it.node.val = val
	return nil
}

// Next moves to the succ node. An invalidated iterator stays where it is.
func (it RBIterator[K, V]) Next() RBIterator[K, V] {
	switch err := it.check(); {
	case err == nil:
		it.node = it.tree.succ(it.node)
	case errors.Is(err, ErrRBTreeIteratorEnd):
		it.node = it.tree.minimum(it.tree.root)
	default:
	}
	return it
}

// Prev moves to the pred node. An invalidated iterator stays where it is.
func (it RBIterator[K, V]) Prev() RBIterator[K, V] {
	switch err := it.check(); {
	case err == nil:
		it.node = it.tree.pred(it.node)
	case errors.Is(err, ErrRBTreeIteratorEnd):
		it.node = it.tree.maximum(it.tree.root)
	default:
	}
	return it
}

func (it RBIterator[K, V]) Equal(other RBIterator[K, V]) bool {
	return it.tree == other.tree && it.node == other.node
}

// RBReverseIterator walks the descending key order by swapping
// the roles of Next and Prev of its base.
type RBReverseIterator[K any, V any] struct {
	base RBIterator[K, V]
}

func (it RBReverseIterator[K, V]) Base() RBIterator[K, V]        { return it.base }
func (it RBReverseIterator[K, V]) IsEnd() bool                   { return it.base.IsEnd() }
func (it RBReverseIterator[K, V]) Valid() bool                   { return it.base.Valid() }
func (it RBReverseIterator[K, V]) Key() (K, error)               { return it.base.Key() }
func (it RBReverseIterator[K, V]) Val() (V, error)               { return it.base.Val() }
func (it RBReverseIterator[K, V]) Entry() (RBEntry[K, V], error) { return it.base.Entry() }
func (it RBReverseIterator[K, V]) SetVal(val V) error            { return it.base.SetVal(val) }
func (it RBReverseIterator[K, V]) Next() RBReverseIterator[K, V] { return RBReverseIterator[K, V]{it.base.Prev()} }
func (it RBReverseIterator[K, V]) Prev() RBReverseIterator[K, V] { return RBReverseIterator[K, V]{it.base.Next()} }

func (it RBReverseIterator[K, V]) Equal(other RBReverseIterator[K, V]) bool {
	return it.base.Equal(other.base)
}

func (tree *rbTree[K, V]) Min() RBIterator[K, V] {
	return tree.iter(tree.minimum(tree.root))
}

func (tree *rbTree[K, V]) Max() RBIterator[K, V] {
	return tree.iter(tree.maximum(tree.root))
}

func (tree *rbTree[K, V]) Begin() RBIterator[K, V] {
	return tree.Min()
}

func (tree *rbTree[K, V]) End() RBIterator[K, V] {
	return tree.iter(tree.sentinel)
}

func (tree *rbTree[K, V]) RBegin() RBReverseIterator[K, V] {
	return RBReverseIterator[K, V]{tree.Max()}
}

func (tree *rbTree[K, V]) REnd() RBReverseIterator[K, V] {
	return RBReverseIterator[K, V]{tree.End()}
}
