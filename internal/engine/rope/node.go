package rope

import (
	"slices"
	"strings"

	"github.com/dshills/lexrope/internal/engine/lexer"
)

// nodeKind tags the two shapes a Node can take.
type nodeKind uint8

const (
	leafNode     nodeKind = iota // owns a text segment
	internalNode                 // owns a left and a right subtree
)

// Node is a node of the rope's AVL tree.
//
// A leaf owns a run of text and has height 1. An internal node owns exactly
// two children and no text. Every node stores the length and the lexer
// transition table of the text below it, so both can be read for any
// subtree without visiting its leaves.
//
// Child links own the children. The parent link is a plain back reference:
// it is cleared on both sides whenever a child is detached, and a node
// never appears in two trees.
type Node struct {
	kind nodeKind

	// Leaf fields
	text []rune

	// Internal node fields
	left  *Node
	right *Node

	parent *Node

	height int
	length Position
	table  lexer.Table

	cfg *Config
}

// newLeaf creates a leaf owning text.
func newLeaf(text []rune, cfg *Config) *Node {
	n := &Node{kind: leafNode, text: text, cfg: cfg}
	n.recalculate()
	return n
}

// newInternal creates an internal node over two detached subtrees.
func newInternal(left, right *Node, cfg *Config) *Node {
	n := &Node{kind: internalNode, cfg: cfg}
	n.setLeft(left)
	n.setRight(right)
	n.recalculate()
	return n
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.kind == leafNode
}

// Left returns the left child of an internal node, or nil for a leaf.
func (n *Node) Left() *Node {
	return n.left
}

// Right returns the right child of an internal node, or nil for a leaf.
func (n *Node) Right() *Node {
	return n.right
}

// Height returns the AVL height of the subtree; leaves have height 1.
func (n *Node) Height() int {
	return n.height
}

// Length returns the length of the subtree's text.
func (n *Node) Length() Position {
	return n.length
}

// Table returns the transition table of the subtree's text.
func (n *Node) Table() lexer.Table {
	return n.table
}

// String returns the subtree's text.
func (n *Node) String() string {
	var sb strings.Builder
	sb.Grow(n.length.Count)
	n.appendTo(&sb)
	return sb.String()
}

func (n *Node) appendTo(sb *strings.Builder) {
	if n.kind == leafNode {
		writeRunes(sb, n.text)
		return
	}
	n.left.appendTo(sb)
	n.right.appendTo(sb)
}

func height(n *Node) int {
	if n == nil {
		return 0
	}
	return n.height
}

// recalculate recomputes height, length and table from the children, or
// from the text for a leaf.
func (n *Node) recalculate() {
	if n.kind == leafNode {
		n.height = 1
		n.length = positionOfRunes(n.text)
		n.table = n.cfg.Lexer.Scan(string(n.text))
		return
	}

	n.height = max(height(n.left), height(n.right)) + 1
	switch {
	case n.left != nil && n.right != nil:
		n.length = n.left.length.Concat(n.right.length)
		n.table = n.left.table.Concat(n.right.table)
	case n.left != nil:
		n.length, n.table = n.left.length, n.left.table
	case n.right != nil:
		n.length, n.table = n.right.length, n.right.table
	default:
		n.length = Full(0, 1, 0)
		n.table = lexer.Identity(n.cfg.Lexer.States())
	}
}

func (n *Node) setLeft(child *Node) {
	n.left = child
	if child != nil {
		child.parent = n
	}
}

func (n *Node) setRight(child *Node) {
	n.right = child
	if child != nil {
		child.parent = n
	}
}

// isLeftChild reports whether n has a parent and is its left child.
func (n *Node) isLeftChild() bool {
	return n.parent != nil && n.parent.left == n
}

// replaceWith puts repl where n hangs in its parent. n is left detached.
func (n *Node) replaceWith(repl *Node) {
	parent := n.parent
	if parent != nil {
		if parent.left == n {
			parent.left = repl
		} else {
			parent.right = repl
		}
	}
	if repl != nil {
		repl.parent = parent
	}
	n.parent = nil
}

// root walks up to the root of n's tree.
func (n *Node) root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// propagate recalculates every ancestor of n and returns the root.
func (n *Node) propagate() *Node {
	for n.parent != nil {
		n = n.parent
		n.recalculate()
	}
	return n
}

// traverse calls fn with start, then with each node fn returns, until fn
// returns nil or end.
func traverse(start, end *Node, fn func(*Node) *Node) {
	for n := start; n != nil && n != end; {
		n = fn(n)
	}
}

// rotateLeft promotes pivot's right child into pivot's place and returns it.
func rotateLeft(pivot *Node) *Node {
	promoted := pivot.right
	parent := pivot.parent

	pivot.replaceWith(promoted)
	pivot.setRight(promoted.left)
	promoted.setLeft(pivot)

	pivot.recalculate()
	promoted.recalculate()
	if parent != nil {
		parent.recalculate()
	}
	return promoted
}

// rotateRight promotes pivot's left child into pivot's place and returns it.
func rotateRight(pivot *Node) *Node {
	promoted := pivot.left
	parent := pivot.parent

	pivot.replaceWith(promoted)
	pivot.setLeft(promoted.right)
	promoted.setRight(pivot)

	pivot.recalculate()
	promoted.recalculate()
	if parent != nil {
		parent.recalculate()
	}
	return promoted
}

// rebalance restores the AVL balance of start and all its ancestors and
// returns the root. It assumes the tree differs from balanced by at most one
// structural change, so each ancestor needs at most a double rotation.
// Aggregates of every internal node on the way up are recalculated.
func (n *Node) rebalance() *Node {
	root := n
	traverse(n, nil, func(node *Node) *Node {
		if node.kind == internalNode {
			node.recalculate()
		}

		lh, rh := height(node.left), height(node.right)
		switch {
		case lh-rh > 1:
			if height(node.left.right) > height(node.left.left) {
				rotateLeft(node.left)
			}
			node = rotateRight(node)
		case rh-lh > 1:
			if height(node.right.left) > height(node.right.right) {
				rotateRight(node.right)
			}
			node = rotateLeft(node)
		}

		root = node
		return node.parent
	})
	return root
}

// append concatenates the detached subtree other after the detached subtree
// n and returns the root of the result.
//
// The taller tree is descended along the edge facing the join until a
// subtree no more than one level taller than the shorter tree is found. A
// new node joining the two is spliced in there and balance is restored on
// the way back up, so the cost is proportional to the height difference.
func (n *Node) append(other *Node) *Node {
	if other == nil {
		return n
	}
	if n.parent != nil || other.parent != nil {
		panic("rope: append of an attached subtree")
	}

	var joint *Node
	if n.height >= other.height {
		spine := n
		for spine.kind == internalNode && spine.height > other.height+1 {
			spine = spine.right
		}
		parent := spine.parent
		spine.parent = nil
		joint = newInternal(spine, other, n.cfg)
		if parent != nil {
			parent.setRight(joint)
		}
	} else {
		spine := other
		for spine.kind == internalNode && spine.height > n.height+1 {
			spine = spine.left
		}
		parent := spine.parent
		spine.parent = nil
		joint = newInternal(n, spine, n.cfg)
		if parent != nil {
			parent.setLeft(joint)
		}
	}
	return joint.rebalance()
}

// join concatenates two detached subtrees, either of which may be nil.
func join(left, right *Node) *Node {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}
	return left.append(right)
}

// adjust keeps leaf sizes within the configured band after a local edit.
// A leaf longer than SplitLength is split in half; a height-2 node whose
// two leaves hold fewer than JoinLength symbols becomes a single leaf.
// It returns the root of the tree.
func (n *Node) adjust() *Node {
	switch {
	case n.kind == leafNode && len(n.text) > n.cfg.SplitLength:
		text := n.text
		mid := len(text) / 2
		n.kind = internalNode
		n.text = nil
		n.setLeft(newLeaf(slices.Clone(text[:mid]), n.cfg))
		n.setRight(newLeaf(slices.Clone(text[mid:]), n.cfg))
		n.recalculate()
		return n.rebalance()

	case n.kind == internalNode && n.height == 2 && n.length.Count < n.cfg.JoinLength:
		text := slices.Concat(n.left.text, n.right.text)
		n.left.parent, n.right.parent = nil, nil
		n.left, n.right = nil, nil
		n.kind = leafNode
		n.text = text
		n.recalculate()
		return n.rebalance()
	}
	return n.root()
}

// unlink removes the leaf n from its tree by putting its sibling in place
// of its parent, and returns the new root.
func (n *Node) unlink() *Node {
	parent := n.parent
	if parent == nil {
		return n
	}
	sibling := parent.left
	if sibling == n {
		sibling = parent.right
	}
	grand := parent.parent

	parent.left, parent.right = nil, nil
	n.parent, sibling.parent = nil, nil
	parent.replaceWith(sibling)

	if grand == nil {
		return sibling
	}
	return grand.rebalance()
}

// split divides the detached subtree n at the absolute offset i, so that
// the left result holds [0, i) and the right result the rest. Either result
// may be nil. n must not be used afterwards.
func (n *Node) split(i int) (left, right *Node, err error) {
	if i < 0 || i >= n.length.Count {
		return nil, nil, &RangeError{Op: "split", Pos: Offset(i), Len: n.length.Count}
	}
	left, right = n.splitAt(i)
	return left, right, nil
}

func (n *Node) splitAt(i int) (left, right *Node) {
	if n.kind == leafNode {
		if i > 0 {
			left = newLeaf(slices.Clone(n.text[:i]), n.cfg)
		}
		return left, newLeaf(slices.Clone(n.text[i:]), n.cfg)
	}

	l, r := n.left, n.right
	l.parent, r.parent = nil, nil
	n.left, n.right = nil, nil

	if i < l.length.Count {
		a, b := l.splitAt(i)
		return a, join(b, r)
	}
	if i == l.length.Count {
		return l, r
	}
	a, b := r.splitAt(i - l.length.Count)
	return join(l, a), b
}

// locate finds the leaf holding the point pos, descending from n.
//
// At each internal node the point is compared with the left subtree's
// length: it lies in the left subtree when strictly before its end,
// otherwise the left length is subtracted and the search continues right.
// The lexer state entering the right subtree is the left table applied to
// the state so far. It returns the leaf, the full point relative to the
// leaf and the lexer state entering the leaf.
func (n *Node) locate(pos Position) (*Node, Position, lexer.State, error) {
	switch {
	case pos.HasCount():
		if pos.Count < 0 || pos.Count > n.length.Count {
			return nil, Position{}, 0, &RangeError{Op: "locate", Pos: pos, Len: n.length.Count}
		}
	case pos.HasLineColumn():
		if pos.Lines < 1 || pos.Lines > n.length.Lines || pos.Column < 0 {
			return nil, Position{}, 0, &RangeError{Op: "locate", Pos: pos, Len: n.length.Count}
		}
	default:
		return nil, Position{}, 0, ErrInsufficientInfo
	}

	cur := n
	state := lexer.StateNormal
	for cur.kind == internalNode {
		less, err := pos.Less(cur.left.length)
		if err != nil {
			return nil, Position{}, 0, err
		}
		if less {
			cur = cur.left
			continue
		}
		_, pos = pos.Split(cur.left.length)
		state = cur.left.table.Lookup(state)
		cur = cur.right
	}

	local, err := pos.Resolve(cur.text)
	if err != nil {
		return nil, Position{}, 0, err
	}
	return cur, local, state, nil
}

// absolute converts a full point relative to the leaf n into a point
// relative to the root, prepending the length of every left sibling met on
// the way up.
func (n *Node) absolute(rel Position) Position {
	for cur := n; cur.parent != nil; cur = cur.parent {
		if !cur.isLeftChild() {
			rel = cur.parent.left.length.Concat(rel)
		}
	}
	return rel
}

// firstLeaf returns the leftmost leaf below n.
func (n *Node) firstLeaf() *Node {
	for n.kind == internalNode {
		n = n.left
	}
	return n
}

// nextLeaf returns the leaf after n in text order, or nil.
func (n *Node) nextLeaf() *Node {
	cur := n
	for cur.parent != nil && !cur.isLeftChild() {
		cur = cur.parent
	}
	if cur.parent == nil {
		return nil
	}
	return cur.parent.right.firstLeaf()
}

func writeRunes(sb *strings.Builder, text []rune) {
	for _, r := range text {
		sb.WriteRune(r)
	}
}
