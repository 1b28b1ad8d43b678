package ir

// HandlerFunc handles one node during a walk. Returning false suppresses
// recursion into the node's children (handlers that replace a node must not
// let the walker descend into the stale subtree).
type HandlerFunc func(w *Walker, n *Node) bool

// Walker drives a deterministic pre-order depth-first walk with per-kind
// dispatch. Kinds without a handler recurse into children in order.
//
// The walk stays well-defined while handlers mutate the tree: the next
// sibling is resolved by index at the parent on every step, and after each
// child visit the walker re-locates the visited node so declarations
// inserted ahead of the traversal position neither skip nor double-visit
// siblings.
type Walker struct {
	handlers  map[NodeKind]HandlerFunc
	ancestors []*Node
}

// NewWalker creates a walker with no handlers registered.
func NewWalker() *Walker {
	return &Walker{handlers: make(map[NodeKind]HandlerFunc)}
}

// Handle registers fn for nodes of the given kind.
func (w *Walker) Handle(kind NodeKind, fn HandlerFunc) {
	w.handlers[kind] = fn
}

// Walk visits root and its subtree.
func (w *Walker) Walk(root *Node) {
	if root == nil {
		return
	}
	w.ancestors = w.ancestors[:0]
	w.visit(root)
}

// Parent returns the parent of the node currently being dispatched, or nil
// at the root.
func (w *Walker) Parent() *Node {
	if len(w.ancestors) == 0 {
		return nil
	}
	return w.ancestors[len(w.ancestors)-1]
}

// Ancestors returns the ancestor chain, outermost first. The slice is only
// valid during the current dispatch.
func (w *Walker) Ancestors() []*Node {
	return w.ancestors
}

func (w *Walker) visit(n *Node) {
	recurse := true
	if fn, ok := w.handlers[n.Kind]; ok {
		recurse = fn(w, n)
	}
	if !recurse {
		return
	}

	w.ancestors = append(w.ancestors, n)
	for i := 0; i < len(n.Children); i++ {
		child := n.Children[i]
		w.visit(child)
		if i < len(n.Children) && n.Children[i] == child {
			continue
		}
		// The child list shifted under us: a handler inserted siblings
		// before i or replaced child in its slot. Resume after the node we
		// just visited when it is still present; a replaced child keeps its
		// slot, so the index already points past it after the increment.
		if j := indexOf(n.Children, child); j >= 0 {
			i = j
		}
	}
	w.ancestors = w.ancestors[:len(w.ancestors)-1]
}

// indexOf locates a child by identity, not value.
func indexOf(children []*Node, target *Node) int {
	for i, c := range children {
		if c == target {
			return i
		}
	}
	return -1
}

// ReplaceChild swaps the child at the slot currently holding old with repl,
// resolved by identity scan at call time. Returns false when old is not a
// child of parent.
func ReplaceChild(parent *Node, old, repl *Node) bool {
	if parent == nil {
		return false
	}
	if i := indexOf(parent.Children, old); i >= 0 {
		parent.Children[i] = repl
		return true
	}
	return false
}

// InsertChild inserts child at index i of parent's child list.
func InsertChild(parent *Node, i int, child *Node) {
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[i+1:], parent.Children[i:])
	parent.Children[i] = child
}
