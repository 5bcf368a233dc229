package tree

// The walks use explicit stacks and queues. Their depth is bounded by
// the tree height, but it keeps the goroutine stack flat.

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	aux := tree.root
	if tree.count <= 0 || tree.isNilLeaf(aux) {
		return
	}

	stack := make([]*rbNode[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(stack)
	}()

	for ; !tree.isNilLeaf(aux); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; !tree.isNilLeaf(aux); aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// ReverseForeach walks from the maximum by pred nodes.
func (tree *rbTree[K, V]) ReverseForeach(action func(idx int64, color RBColor, key K, val V) bool) {
	idx := int64(0)
	for aux := tree.maximum(tree.root); !tree.isNilLeaf(aux); aux = tree.pred(aux) {
		if !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
	}
}

func (tree *rbTree[K, V]) InOrderVisit(visit func(key K, val V)) {
	tree.Foreach(func(_ int64, _ RBColor, key K, val V) bool {
		visit(key, val)
		return true
	})
}

func (tree *rbTree[K, V]) preorder(visit func(node *rbNode[K, V])) {
	if tree.isNilLeaf(tree.root) {
		return
	}

	stack := make([]*rbNode[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, tree.root)

	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		visit(aux)
		// Right pushed first, so the left subtree pops first.
		if !tree.isNilLeaf(aux.right) {
			stack = append(stack, aux.right)
		}
		if !tree.isNilLeaf(aux.left) {
			stack = append(stack, aux.left)
		}
	}
}

func (tree *rbTree[K, V]) PreOrderVisit(visit func(key K, val V)) {
	tree.preorder(func(node *rbNode[K, V]) {
		visit(node.key, node.val)
	})
}

// postorder visits the children before their parent, so the visit
// is allowed to release the node.
func (tree *rbTree[K, V]) postorder(visit func(node *rbNode[K, V])) {
	if tree.isNilLeaf(tree.root) {
		return
	}

	stack := make([]*rbNode[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(stack)
	}()

	var lastVisited *rbNode[K, V]
	for aux := tree.root; !tree.isNilLeaf(aux) || len(stack) > 0; {
		if !tree.isNilLeaf(aux) {
			stack = append(stack, aux)
			aux = aux.left
			continue
		}
		top := stack[len(stack)-1]
		if !tree.isNilLeaf(top.right) && top.right != lastVisited {
			aux = top.right
			continue
		}
		stack = stack[:len(stack)-1]
		// Only the address of the visited node is kept.
		lastVisited = top
		visit(top)
	}
}

func (tree *rbTree[K, V]) PostOrderVisit(visit func(key K, val V)) {
	tree.postorder(func(node *rbNode[K, V]) {
		visit(node.key, node.val)
	})
}

// BFS traversal with a queue seeded by root.
func (tree *rbTree[K, V]) levelorder(visit func(level int64, node *rbNode[K, V])) {
	if tree.isNilLeaf(tree.root) {
		return
	}

	queue := make([]*rbNode[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, tree.root)

	for level := int64(1); len(queue) > 0; level++ {
		for width := len(queue); width > 0; width-- {
			aux := queue[0]
			queue = queue[1:]
			visit(level, aux)
			if !tree.isNilLeaf(aux.left) {
				queue = append(queue, aux.left)
			}
			if !tree.isNilLeaf(aux.right) {
				queue = append(queue, aux.right)
			}
		}
	}
}

func (tree *rbTree[K, V]) LevelOrderVisit(visit func(key K, val V)) {
	tree.levelorder(func(_ int64, node *rbNode[K, V]) {
		visit(node.key, node.val)
	})
}

func (tree *rbTree[K, V]) collect(walk func(visit func(key K, val V))) []RBEntry[K, V] {
	entries := make([]RBEntry[K, V], 0, tree.count)
	walk(func(key K, val V) {
		entries = append(entries, RBEntry[K, V]{Key: key, Val: val})
	})
	return entries
}

func (tree *rbTree[K, V]) InOrder() []RBEntry[K, V] {
	return tree.collect(tree.InOrderVisit)
}

func (tree *rbTree[K, V]) PreOrder() []RBEntry[K, V] {
	return tree.collect(tree.PreOrderVisit)
}

func (tree *rbTree[K, V]) PostOrder() []RBEntry[K, V] {
	return tree.collect(tree.PostOrderVisit)
}

func (tree *rbTree[K, V]) LevelOrder() []RBEntry[K, V] {
	return tree.collect(tree.LevelOrderVisit)
}

// Height is the deepest level reached by the BFS, 0 for an empty tree.
func (tree *rbTree[K, V]) Height() int64 {
	height := int64(0)
	tree.levelorder(func(level int64, _ *rbNode[K, V]) {
		height = level
	})
	return height
}

// Clear releases the nodes in post-order and keeps the sentinel,
// so the end iterators are still valid.
func (tree *rbTree[K, V]) Clear() {
	tree.postorder(func(node *rbNode[K, V]) {
		node.release()
	})
	tree.root = tree.sentinel
	tree.count = 0
}

// Clone re-inserts every element of a pre-order walk, the new tree
// rebuilds its own balanced shape.
func (tree *rbTree[K, V]) Clone() RBTree[K, V] {
	sentinel := newSentinel[K, V]()
	dst := &rbTree[K, V]{
		root:     sentinel,
		sentinel: sentinel,
		cmp:      tree.cmp,
		isDesc:   tree.isDesc,
		allowDup: tree.allowDup,
	}
	tree.preorder(func(node *rbNode[K, V]) {
		dst.insert(node.key, node.val)
	})
	return dst
}

// Move never lets the current tree keep a reference to the handed over
// sentinel, it starts over with a fresh one.
func (tree *rbTree[K, V]) Move() RBTree[K, V] {
	dst := &rbTree[K, V]{
		root:     tree.root,
		sentinel: tree.sentinel,
		count:    tree.count,
		cmp:      tree.cmp,
		isDesc:   tree.isDesc,
		allowDup: tree.allowDup,
	}
	tree.sentinel = newSentinel[K, V]()
	tree.root = tree.sentinel
	tree.count = 0
	return dst
}

func (tree *rbTree[K, V]) Swap(other RBTree[K, V]) {
	o, ok := other.(*rbTree[K, V])
	if !ok || o == nil {
		panic( /* debug assertion */ "[rbtree] swap with an unknown tree implementation")
	}
	if o == tree {
		return
	}
	*tree, *o = *o, *tree
}

func (tree *rbTree[K, V]) EqualFunc(other RBTree[K, V], eq func(v1, v2 V) bool) bool {
	if other == nil || tree.Len() != other.Len() {
		return false
	}
	if o, ok := other.(*rbTree[K, V]); ok && o == tree {
		return true
	}

	it1, it2 := tree.Begin(), other.Begin()
	for ; !it1.IsEnd() && !it2.IsEnd(); it1, it2 = it1.Next(), it2.Next() {
		e1, _ := it1.Entry()
		e2, _ := it2.Entry()
		if tree.cmp(e1.Key, e2.Key) != 0 || !eq(e1.Val, e2.Val) {
			return false
		}
	}
	return it1.IsEnd() && it2.IsEnd()
}
