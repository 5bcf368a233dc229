package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrRBTreeRedViolation      = errors.New("rbtree red violation")
	ErrRBTreeBlackViolation    = errors.New("rbtree black violation")
	ErrRBTreeRootColor         = errors.New("rbtree root is not black")
	ErrRBTreeOrderViolation    = errors.New("rbtree in-order sequence is not sorted")
	ErrRBTreeParentLink        = errors.New("rbtree parent link is broken")
	ErrRBTreeSizeMismatch      = errors.New("rbtree size mismatch")
	ErrRBTreeSentinelCorrupted = errors.New("rbtree sentinel corrupted")
)

func isNilLeaf[K any, V any](node RBNode[K, V]) bool {
	return node == nil || !node.HasKeyVal()
}

func isBlack[K any, V any](node RBNode[K, V]) bool {
	return isNilLeaf[K, V](node) || node.Color() == Black
}

func isRed[K any, V any](node RBNode[K, V]) bool {
	return !isNilLeaf[K, V](node) && node.Color() == Red
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func RootColorValidate[K any, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); !isBlack[K, V](root) {
		return ErrRBTreeRootColor
	}
	return nil
}

// Inorder traversal to validate the red node has no red child.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	var aux = tree.Root()
	if isNilLeaf[K, V](aux) {
		return nil
	}

	stack := make([]RBNode[K, V], 0, tree.Len()>>1+1)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[K, V](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; isRed[K, V](aux) {
			if isRed[K, V](aux.Left()) || isRed[K, V](aux.Right()) {
				return ErrRBTreeRedViolation
			}
		}

		stack = stack[:size-1]
		for aux = aux.Right(); !isNilLeaf[K, V](aux); aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	if blackHeight[K, V](tree.Root()) < 0 {
		return ErrRBTreeBlackViolation
	}
	return nil
}

// blackHeight returns -1 if two paths below node disagree.
func blackHeight[K any, V any](node RBNode[K, V]) int {
	if isNilLeaf[K, V](node) {
		return 1
	}
	l, r := blackHeight[K, V](node.Left()), blackHeight[K, V](node.Right())
	if l < 0 || r < 0 || l != r {
		return -1
	}
	if isBlack[K, V](node) {
		return l + 1
	}
	return l
}

// OrderValidate checks the in-order keys are strictly increasing, or
// non-decreasing if the duplicates are allowed.
func OrderValidate[K any, V any](tree RBTree[K, V]) error {
	var (
		prev    K
		hasPrev bool
		err     error
		cmp     = tree.Comparator()
	)
	tree.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		if hasPrev {
			res := cmp(prev, key)
			if res > 0 || (res == 0 && !tree.AllowDuplicates()) {
				err = ErrRBTreeOrderViolation
				return false
			}
		}
		prev, hasPrev = key, true
		return true
	})
	return err
}

// ParentLinkValidate checks every child points back to its parent.
func ParentLinkValidate[K any, V any](tree RBTree[K, V]) error {
	root := tree.Root()
	if isNilLeaf[K, V](root) {
		return nil
	}
	if root.Parent() != nil {
		return ErrRBTreeParentLink
	}

	queue := []RBNode[K, V]{root}
	for len(queue) > 0 {
		aux := queue[0]
		queue = queue[1:]
		for _, child := range []RBNode[K, V]{aux.Left(), aux.Right()} {
			if isNilLeaf[K, V](child) {
				continue
			}
			if child.Parent() != aux {
				return ErrRBTreeParentLink
			}
			queue = append(queue, child)
		}
	}
	return nil
}

func SizeValidate[K any, V any](tree RBTree[K, V]) error {
	count := int64(0)
	tree.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		count++
		return true
	})
	if count != tree.Len() {
		return ErrRBTreeSizeMismatch
	}
	return nil
}

func (tree *rbTree[K, V]) sentinelValidate() error {
	s := tree.sentinel
	if s == nil || s.color != Black || s.hasKV ||
		s.parent != nil || s.left != nil || s.right != nil {
		return ErrRBTreeSentinelCorrupted
	}
	if tree.isNilLeaf(tree.root) != (tree.count == 0) {
		return ErrRBTreeSizeMismatch
	}
	return nil
}

// Validate runs all the rules and reports every violation found.
func Validate[K any, V any](tree RBTree[K, V]) error {
	var merr error
	if t, ok := tree.(interface{ sentinelValidate() error }); ok {
		merr = multierr.Append(merr, t.sentinelValidate())
	}
	merr = multierr.Combine(
		merr,
		RootColorValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		OrderValidate[K, V](tree),
		ParentLinkValidate[K, V](tree),
		SizeValidate[K, V](tree),
	)
	return infra.WrapErrorStackWithMessage(merr, "[rbtree] invariant violation")
}
