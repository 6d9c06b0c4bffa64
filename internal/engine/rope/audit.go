package rope

import (
	"fmt"
)

// validate checks the structure below n. path names n for error messages:
// "o" for the root followed by one "l" or "r" per step down.
func (n *Node) validate(path string, isRoot bool) error {
	fail := func(check, format string, args ...any) error {
		return &InvariantError{Check: check, Path: path, Detail: fmt.Sprintf(format, args...)}
	}

	if isRoot && n.parent != nil {
		return fail("links", "root has a parent")
	}

	switch n.kind {
	case leafNode:
		if n.left != nil || n.right != nil {
			return fail("links", "leaf has children")
		}
		if n.height != 1 {
			return fail("height", "leaf height %d", n.height)
		}
		if len(n.text) > n.cfg.SplitLength {
			return fail("leaf size", "leaf holds %d symbols, split length is %d", len(n.text), n.cfg.SplitLength)
		}
		if len(n.text) == 0 && !isRoot {
			return fail("leaf size", "empty leaf below the root")
		}
		if want := positionOfRunes(n.text); !sameLength(n.length, want) {
			return fail("length", "stored %v, text has %v", n.length, want)
		}
		if want := n.cfg.Lexer.Scan(string(n.text)); !n.table.Equal(want) {
			return fail("table", "stored table differs from a scan of the text")
		}
		return nil

	case internalNode:
		if n.left == nil || n.right == nil {
			return fail("links", "internal node missing a child")
		}
		if n.text != nil {
			return fail("links", "internal node holds text")
		}
		if n.left.parent != n || n.right.parent != n {
			return fail("links", "child parent pointer does not point back")
		}
		if err := n.left.validate(path+"l", false); err != nil {
			return err
		}
		if err := n.right.validate(path+"r", false); err != nil {
			return err
		}

		lh, rh := n.left.height, n.right.height
		if n.height != max(lh, rh)+1 {
			return fail("height", "stored %d, children have %d and %d", n.height, lh, rh)
		}
		if lh-rh > 1 || rh-lh > 1 {
			return fail("balance", "children heights %d and %d", lh, rh)
		}
		if want := n.left.length.Concat(n.right.length); !sameLength(n.length, want) {
			return fail("length", "stored %v, children concatenate to %v", n.length, want)
		}
		if want := n.left.table.Concat(n.right.table); !n.table.Equal(want) {
			return fail("table", "stored table differs from the children's composition")
		}
		return nil
	}
	return fail("links", "unknown node kind %d", n.kind)
}

// checkJoinBound reports the first height-2 node whose leaves hold fewer
// than JoinLength symbols together.
func (n *Node) checkJoinBound(path string) error {
	if n.kind == leafNode {
		return nil
	}
	if n.height == 2 && n.length.Count < n.cfg.JoinLength {
		return &InvariantError{
			Check:  "join bound",
			Path:   path,
			Detail: fmt.Sprintf("leaves hold %d symbols, join length is %d", n.length.Count, n.cfg.JoinLength),
		}
	}
	if err := n.left.checkJoinBound(path + "l"); err != nil {
		return err
	}
	return n.right.checkJoinBound(path + "r")
}

func sameLength(a, b Position) bool {
	return a.IsFull() && b.IsFull() && a.Count == b.Count && a.Lines == b.Lines && a.Column == b.Column
}
