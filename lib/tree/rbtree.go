package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type rbNode[K any, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	hasKV  bool
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) HasKeyVal() bool {
	if node == nil {
		return false
	}
	return node.hasKV
}

// The sentinel and the released nodes never carry key and value,
// so the links to them are hidden from the read only view.

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || !node.left.HasKeyVal() {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || !node.parent.HasKeyVal() {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || !node.right.HasKeyVal() {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) isRed() bool {
	return node.color == Red
}

func (node *rbNode[K, V]) isBlack() bool {
	return node.color == Black
}

func (node *rbNode[K, V]) release() {
	node.parent, node.left, node.right = nil, nil, nil
	node.hasKV = false
}

type rbTree[K any, V any] struct {
	root     *rbNode[K, V]
	sentinel *rbNode[K, V]
	count    int64
	cmp      infra.KeyComparator[K]
	isDesc   bool
	allowDup bool
}

// The sentinel stands for every absent child and the parent of root.
// It is always black and none of the algorithms writes it.
func newSentinel[K any, V any]() *rbNode[K, V] {
	return &rbNode[K, V]{
		color: Black,
	}
}

func (tree *rbTree[K, V]) newNode(key K, val V, parent *rbNode[K, V]) *rbNode[K, V] {
	return &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: parent,
		left:   tree.sentinel,
		right:  tree.sentinel,
		hasKV:  true,
	}
}

func (tree *rbTree[K, V]) isNilLeaf(node *rbNode[K, V]) bool {
	return node == tree.sentinel
}

func (tree *rbTree[K, V]) direction(node *rbNode[K, V]) RBDirection {
	if tree.isNilLeaf(node) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if tree.isNilLeaf(node.parent) {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (tree *rbTree[K, V]) minimum(node *rbNode[K, V]) *rbNode[K, V] {
	aux := node
	for ; !tree.isNilLeaf(aux) && !tree.isNilLeaf(aux.left); aux = aux.left {
	}
	return aux
}

func (tree *rbTree[K, V]) maximum(node *rbNode[K, V]) *rbNode[K, V] {
	aux := node
	for ; !tree.isNilLeaf(aux) && !tree.isNilLeaf(aux.right); aux = aux.right {
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
// Returns the sentinel if the current node is the maximum.
func (tree *rbTree[K, V]) succ(node *rbNode[K, V]) *rbNode[K, V] {
	x := node
	if !tree.isNilLeaf(x.right) {
		return tree.minimum(x.right)
	}

	aux := x.parent
	// Backtrack to the first ancestor whose left subtree holds x.
	for !tree.isNilLeaf(aux) && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
// Returns the sentinel if the current node is the minimum.
func (tree *rbTree[K, V]) pred(node *rbNode[K, V]) *rbNode[K, V] {
	x := node
	if !tree.isNilLeaf(x.left) {
		return tree.maximum(x.left)
	}

	aux := x.parent
	// Backtrack to the first ancestor whose right subtree holds x.
	for !tree.isNilLeaf(aux) && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Empty() bool {
	return tree.count == 0
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.isNilLeaf(tree.root) {
		return nil
	}
	return tree.root
}

func (tree *rbTree[K, V]) Comparator() infra.KeyComparator[K] {
	return tree.cmp
}

func (tree *rbTree[K, V]) AllowDuplicates() bool {
	return tree.allowDup
}

// References:
// Introduction to Algorithms (CLRS), chapter 13.
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes (the sentinel) are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest path nodes' number is at most 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	if tree.isNilLeaf(x) || tree.isNilLeaf(x.right) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	dir, y := tree.direction(x), x.right
	x.right = y.left
	if !tree.isNilLeaf(y.left) {
		y.left.parent = x
	}
	y.parent = x.parent

	switch dir {
	case Root:
		tree.root = y
	case Left:
		x.parent.left = y
	case Right:
		x.parent.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.left = x
	x.parent = y
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	if tree.isNilLeaf(x) || tree.isNilLeaf(x.left) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	dir, y := tree.direction(x), x.left
	x.left = y.right
	if !tree.isNilLeaf(y.right) {
		y.right.parent = x
	}
	y.parent = x.parent

	switch dir {
	case Root:
		tree.root = y
	case Left:
		x.parent.left = y
	case Right:
		x.parent.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.right = x
	x.parent = y
}

// search descends from root. In duplicates mode it returns the first
// equal node met on the path.
func (tree *rbTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; !tree.isNilLeaf(aux); {
		res := tree.cmp(key, aux.key)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = aux.left
		} else /* greater */ {
			aux = aux.right
		}
	}
	return tree.sentinel
}

// insert returns the existing node and false if the key is present
// and the duplicates are disabled.
// i1: Empty rbtree, the new node becomes root and is painted into black
// by the rebalance.
func (tree *rbTree[K, V]) insert(key K, val V) (*rbNode[K, V], bool) {
	var (
		x, y = tree.root, tree.sentinel
		dir  = Root
	)
	for !tree.isNilLeaf(x) {
		y = x
		res := tree.cmp(key, x.key)
		if /* equal */ res == 0 && !tree.allowDup {
			return x, false
		} else /* less */ if res < 0 {
			x, dir = x.left, Left
		} else /* greater or duplicate */ {
			x, dir = x.right, Right
		}
	}

	// Allocate before linking, a failed allocation leaves the tree untouched.
	z := tree.newNode(key, val, y)
	tree.link(y, z, dir)
	tree.count++
	tree.insertRebalance(z)
	return z, true
}

// link hangs the new leaf z under parent on the dir side.
func (tree *rbTree[K, V]) link(parent, z *rbNode[K, V], dir RBDirection) {
	switch dir {
	case /* i1 */ Root:
		tree.root = z
	case Left:
		parent.left = z
	case Right:
		parent.right = z
	default:
		panic( /* debug assertion */ "[rbtree] unknown node direction to insert")
	}
}

func (tree *rbTree[K, V]) Insert(key K, val V) (RBIterator[K, V], bool) {
	z, ok := tree.insert(key, val)
	return tree.iter(z), ok
}

func (tree *rbTree[K, V]) InsertOrAssign(key K, val V) (RBIterator[K, V], bool) {
	z, ok := tree.insert(key, val)
	if !ok {
		z.val = val
	}
	return tree.iter(z), ok
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black, so hold p3 and p4.

im2: Current node X is root, repaint X into black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	// im1: the parent of root is the black sentinel.
	for x.parent.isRed() {
		p := x.parent
		gp := p.parent // p is red, so it is not root
		if tree.direction(p) == Left {
			if u := gp.right; /* im3 */ u.isRed() {
				p.color, u.color, gp.color = Black, Black, Red
				x = gp
				continue
			}
			if /* im4 */ x == p.right {
				x = p
				tree.leftRotate(x)
				p = x.parent
			}
			/* im5 */
			p.color, gp.color = Black, Red
			tree.rightRotate(gp)
		} else {
			if u := gp.left; /* im3 */ u.isRed() {
				p.color, u.color, gp.color = Black, Black, Red
				x = gp
				continue
			}
			if /* im4 */ x == p.left {
				x = p
				tree.rightRotate(x)
				p = x.parent
			}
			/* im5 */
			p.color, gp.color = Black, Red
			tree.leftRotate(gp)
		}
	}
	/* im2 */
	tree.root.color = Black
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
// The sentinel's parent link is left untouched.
func (tree *rbTree[K, V]) transplant(u, v *rbNode[K, V]) {
	switch dir := tree.direction(u); dir {
	case Root:
		tree.root = v
	case Left:
		u.parent.left = v
	case Right:
		u.parent.right = v
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to transplant")
	}
	if !tree.isNilLeaf(v) {
		v.parent = u.parent
	}
}

/*
r1: Current node Z has at most one child C (or NIL).
Transplant C into Z's position, X is C and X's parent is Z's parent.

r2: Current node Z has left and right child.
Find Z's succ S (the minimum of the right subtree, S has no left child).
Splice S itself into Z's position instead of swapping key & value,
so the iterators to S are still valid.
X is S's right child (or NIL) and takes S's original position.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   splice(S)    L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..
	   \
	    X

S's right child must be re-linked into S's original position before
S is moved, otherwise the parent chain used by the rebalance is broken.
S inherits Z's color, so the removed color is S's original color.

r3: The removed color is red, all properties hold.

r4: The removed color is black, X carries an extra black.
(black-violation) Rebalance from X.
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) {
	y, removedColor := z, z.color
	var x, xParent *rbNode[K, V]

	if /* r1 */ tree.isNilLeaf(z.left) {
		x, xParent = z.right, z.parent
		tree.transplant(z, z.right)
	} else if /* r1 */ tree.isNilLeaf(z.right) {
		x, xParent = z.left, z.parent
		tree.transplant(z, z.left)
	} else /* r2 */ {
		y = tree.minimum(z.right)
		removedColor = y.color
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			tree.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		tree.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	z.release()
	tree.count--

	if /* r4 */ removedColor == Black {
		tree.removeRebalance(x, xParent)
	}
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node (near).
Sd is the opposite direction to X and it X's sibling's child node (far).

X may be the sentinel, so its parent P is tracked aside.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) repaint S into black, P into red.
(2) X is left node of P, left rotate P; X is right node of P, right rotate P.
Refresh S, then enter rm2-rm5 with a black S.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: The sibling S, nephew node Sc and Sd are black.
Repaint S into red, move X up to P.
If P is red, the loop exits and P is painted into black.
Otherwise, recursive to handle P.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
(1) Repaint S into red, Sc into black.
(2) If X is left node of P, right rotate S; If X is right node of P, left rotate S.
Enter into rm4 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm4: Current node X's sibling S is black, far nephew node Sd is red.
Ignore X's parent P's color (red or black is okay)
(1) S takes P's color, repaint P and Sd into black.
(2) If X is left node of P, left rotate P; If X is right node of P, right rotate P.
The extra black is absorbed, terminate.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x, parent *rbNode[K, V]) {
	for x != tree.root && x.isBlack() {
		// The sibling of a double black position is never the sentinel,
		// so x == parent.left is unambiguous even if x is the sentinel.
		if x == parent.left {
			s := parent.right
			if /* rm1 */ s.isRed() {
				s.color, parent.color = Black, Red
				tree.leftRotate(parent)
				s = parent.right
			}
			if /* rm2 */ s.left.isBlack() && s.right.isBlack() {
				s.color = Red
				x, parent = parent, parent.parent
				continue
			}
			if /* rm3 */ s.right.isBlack() {
				s.left.color, s.color = Black, Red
				tree.rightRotate(s)
				s = parent.right
			}
			/* rm4 */
			s.color, parent.color, s.right.color = parent.color, Black, Black
			tree.leftRotate(parent)
			x = tree.root
		} else {
			s := parent.left
			if /* rm1 */ s.isRed() {
				s.color, parent.color = Black, Red
				tree.rightRotate(parent)
				s = parent.left
			}
			if /* rm2 */ s.left.isBlack() && s.right.isBlack() {
				s.color = Red
				x, parent = parent, parent.parent
				continue
			}
			if /* rm3 */ s.left.isBlack() {
				s.right.color, s.color = Black, Red
				tree.leftRotate(s)
				s = parent.left
			}
			/* rm4 */
			s.color, parent.color, s.left.color = parent.color, Black, Black
			tree.rightRotate(parent)
			x = tree.root
		}
	}
	if !tree.isNilLeaf(x) {
		x.color = Black
	}
}

func (tree *rbTree[K, V]) Erase(key K) bool {
	z := tree.search(key)
	if tree.isNilLeaf(z) {
		return false
	}
	tree.removeNode(z)
	return true
}

func (tree *rbTree[K, V]) EraseAt(it RBIterator[K, V]) (RBIterator[K, V], error) {
	if err := tree.owns(it); err != nil {
		return tree.End(), err
	}
	z := it.node
	// The succ node is spliced, never copied, so it survives the removal.
	next := tree.succ(z)
	tree.removeNode(z)
	return tree.iter(next), nil
}

func (tree *rbTree[K, V]) EraseMin() (RBEntry[K, V], bool) {
	return tree.eraseEntry(tree.minimum(tree.root))
}

func (tree *rbTree[K, V]) EraseMax() (RBEntry[K, V], bool) {
	return tree.eraseEntry(tree.maximum(tree.root))
}

func (tree *rbTree[K, V]) eraseEntry(z *rbNode[K, V]) (RBEntry[K, V], bool) {
	if tree.isNilLeaf(z) {
		return RBEntry[K, V]{}, false
	}
	e := RBEntry[K, V]{Key: z.key, Val: z.val}
	tree.removeNode(z)
	return e, true
}

func (tree *rbTree[K, V]) Find(key K) RBIterator[K, V] {
	return tree.iter(tree.search(key))
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	return !tree.isNilLeaf(tree.search(key))
}

func (tree *rbTree[K, V]) Count(key K) int64 {
	count := int64(0)
	lo, hi := tree.lowerBound(key), tree.upperBound(key)
	for aux := lo; aux != hi; aux = tree.succ(aux) {
		count++
	}
	return count
}

// lowerBound tracks the last node whose key is not ordered before the key.
func (tree *rbTree[K, V]) lowerBound(key K) *rbNode[K, V] {
	res := tree.sentinel
	for aux := tree.root; !tree.isNilLeaf(aux); {
		if tree.cmp(aux.key, key) >= 0 {
			res, aux = aux, aux.left
		} else {
			aux = aux.right
		}
	}
	return res
}

// upperBound tracks the last node whose key is ordered after the key.
func (tree *rbTree[K, V]) upperBound(key K) *rbNode[K, V] {
	res := tree.sentinel
	for aux := tree.root; !tree.isNilLeaf(aux); {
		if tree.cmp(key, aux.key) < 0 {
			res, aux = aux, aux.left
		} else {
			aux = aux.right
		}
	}
	return res
}

func (tree *rbTree[K, V]) LowerBound(key K) RBIterator[K, V] {
	return tree.iter(tree.lowerBound(key))
}

func (tree *rbTree[K, V]) UpperBound(key K) RBIterator[K, V] {
	return tree.iter(tree.upperBound(key))
}

func (tree *rbTree[K, V]) EqualRange(key K) (RBIterator[K, V], RBIterator[K, V]) {
	return tree.LowerBound(key), tree.UpperBound(key)
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

// WithRBTreeDesc reverses the ordering of the comparator.
func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeAllowDuplicates lets equal keys coexist. The equal keys are
// contiguous in sorted order, their relative order is unspecified.
func WithRBTreeAllowDuplicates[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.allowDup = true
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return NewRBTreeFunc[K, V](infra.AscOrderedKeyCmp[K], opts...)
}

func NewRBTreeFunc[K any, V any](cmp infra.KeyComparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](cmp, opts...)
}

func newRBTree[K any, V any](cmp infra.KeyComparator[K], opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	if cmp == nil {
		panic("[rbtree] nil key comparator")
	}
	sentinel := newSentinel[K, V]()
	tree := &rbTree[K, V]{
		root:     sentinel,
		sentinel: sentinel,
		count:    0,
		cmp:      cmp,
		isDesc:   false,
		allowDup: false,
	}

	for _, o := range opts {
		o(tree)
	}
	if tree.isDesc {
		tree.cmp = infra.ReverseCmp[K](cmp)
	}
	return tree
}
