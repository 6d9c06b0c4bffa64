package rope

import (
	"strings"
	"testing"

	"github.com/dshills/lexrope/internal/engine/lexer"
)

// testConfig returns a configuration with tiny leaves so that small texts
// produce deep trees.
func testConfig(t testing.TB, opts ...Option) *Config {
	t.Helper()
	cfg, err := newConfig(append([]Option{WithThresholds(8, 4)}, opts...))
	if err != nil {
		t.Fatalf("newConfig: %v", err)
	}
	return cfg
}

func mustValidate(t testing.TB, n *Node) {
	t.Helper()
	if err := n.validate("o", true); err != nil {
		t.Fatalf("validate: %v\n%s", err, dotOf(n))
	}
}

func dotOf(n *Node) string {
	var sb strings.Builder
	n.writeDot(&sb, "o")
	return sb.String()
}

func TestBuildBalanced(t *testing.T) {
	cfg := testConfig(t)
	for _, size := range []int{0, 1, 5, 6, 7, 12, 13, 61, 100, 257} {
		text := strings.Repeat("ab\nc", size)[:size]
		n := build([]rune(text), cfg)
		mustValidate(t, n)
		if got := n.String(); got != text {
			t.Errorf("build(%d) text = %q, want %q", size, got, text)
		}
		if err := n.checkJoinBound("o"); err != nil {
			t.Errorf("build(%d): %v", size, err)
		}
	}
}

func TestRotationsKeepAggregates(t *testing.T) {
	cfg := testConfig(t)
	a := newLeaf([]rune("ab\n"), cfg)
	b := newLeaf([]rune("cd"), cfg)
	c := newLeaf([]rune("\nef"), cfg)
	root := newInternal(a, newInternal(b, c, cfg), cfg)

	want := root.String()
	wantTable := root.table

	root = rotateLeft(root)
	if root.parent != nil || root.left.left != a || root.right != c {
		t.Fatalf("rotateLeft produced unexpected shape:\n%s", dotOf(root))
	}
	mustValidate(t, root)
	if root.String() != want || !root.table.Equal(wantTable) {
		t.Errorf("rotateLeft changed text or table")
	}

	root = rotateRight(root)
	if root.left != a || root.right.left != b {
		t.Fatalf("rotateRight produced unexpected shape:\n%s", dotOf(root))
	}
	mustValidate(t, root)
	if root.String() != want || !root.length.Equal(PositionOf(want)) {
		t.Errorf("rotateRight changed text or length")
	}
}

func TestAppendDifferentHeights(t *testing.T) {
	cfg := testConfig(t)
	long := strings.Repeat("hello\nworld ", 40)

	tests := []struct {
		name        string
		left, right string
	}{
		{"equal", "abcdef", "ghijkl"},
		{"left taller", long, "xyz"},
		{"right taller", "xyz", long},
		{"both large", long, long[:200]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := build([]rune(tt.left), cfg)
			r := build([]rune(tt.right), cfg)
			n := l.append(r)
			mustValidate(t, n)
			if got := n.String(); got != tt.left+tt.right {
				t.Errorf("append text mismatch")
			}
		})
	}
}

func TestSplitEveryOffset(t *testing.T) {
	cfg := testConfig(t)
	text := "the quick\nbrown fox\njumps over\nthe lazy dog"

	for i := range len(text) {
		n := build([]rune(text), cfg)
		left, right, err := n.split(i)
		if err != nil {
			t.Fatalf("split(%d): %v", i, err)
		}
		if right == nil {
			t.Fatalf("split(%d): right part missing", i)
		}
		got := right.String()
		if left != nil {
			mustValidate(t, left)
			got = left.String() + got
		} else if i != 0 {
			t.Fatalf("split(%d): left part missing", i)
		}
		mustValidate(t, right)
		if got != text {
			t.Errorf("split(%d) parts = %q, want %q", i, got, text)
		}
	}
}

func TestSplitOutOfRange(t *testing.T) {
	cfg := testConfig(t)
	for _, i := range []int{-1, 5, 6} {
		n := build([]rune("abcde"), cfg)
		if _, _, err := n.split(i); err == nil {
			t.Errorf("split(%d) should fail", i)
		}
	}
}

func TestAdjust(t *testing.T) {
	cfg := testConfig(t)

	t.Run("split long leaf", func(t *testing.T) {
		leaf := newLeaf([]rune("0123456789abc"), cfg)
		root := leaf.adjust()
		mustValidate(t, root)
		if root.IsLeaf() || root.String() != "0123456789abc" {
			t.Errorf("adjust did not split: %s", dotOf(root))
		}
		if got := root.left.String(); got != "012345" {
			t.Errorf("left half = %q, want %q", got, "012345")
		}
	})

	t.Run("merge short leaves", func(t *testing.T) {
		n := newInternal(newLeaf([]rune("a"), cfg), newLeaf([]rune("b"), cfg), cfg)
		root := n.adjust()
		mustValidate(t, root)
		if !root.IsLeaf() || root.String() != "ab" {
			t.Errorf("adjust did not merge: %s", dotOf(root))
		}
	})

	t.Run("leave balanced node", func(t *testing.T) {
		n := newInternal(newLeaf([]rune("abc"), cfg), newLeaf([]rune("def"), cfg), cfg)
		if root := n.adjust(); root != n || root.IsLeaf() {
			t.Errorf("adjust changed a node within bounds")
		}
	})
}

func TestLocateState(t *testing.T) {
	cfg := testConfig(t, WithLexer(lexer.MustScanner(lexer.Go())))
	text := "x := 1 /* long\ncomment */ s := \"str\" // tail\ny"
	n := build([]rune(text), cfg)
	runes := []rune(text)

	for i := 0; i <= len(runes); i++ {
		leaf, rel, in, err := n.locate(Offset(i))
		if err != nil {
			t.Fatalf("locate(%d): %v", i, err)
		}
		if got := leaf.absolute(rel); !got.Equal(PositionOf(string(runes[:i]))) {
			t.Errorf("absolute(locate(%d)) = %v", i, got)
		}
		want := cfg.Lexer.LastState(string(runes[:i]), lexer.StateNormal)
		if got := cfg.Lexer.LastState(string(leaf.text[:rel.Count]), in); got != want {
			t.Errorf("state at %d = %v, want %v", i, got, want)
		}
	}
}

func TestLocateByPoint(t *testing.T) {
	cfg := testConfig(t)
	text := "first line\nsecond\n\nlast"
	n := build([]rune(text), cfg)

	tests := []struct {
		line, column int
		want         int
	}{
		{0, 0, 0},
		{0, 10, 10},
		{1, 0, 11},
		{1, 6, 17},
		{2, 0, 18},
		{3, 4, 23},
	}
	for _, tt := range tests {
		leaf, rel, _, err := n.locate(Point(tt.line, tt.column))
		if err != nil {
			t.Fatalf("locate(%d:%d): %v", tt.line, tt.column, err)
		}
		if got := leaf.absolute(rel); got.Count != tt.want || got.Line() != tt.line || got.Column != tt.column {
			t.Errorf("locate(%d:%d) = %v, want offset %d", tt.line, tt.column, got, tt.want)
		}
	}

	for _, pos := range []Position{Point(0, 11), Point(2, 1), Point(4, 0), Offset(24)} {
		if _, _, _, err := n.locate(pos); err == nil {
			t.Errorf("locate(%v) should fail", pos)
		}
	}
}

func TestNextLeaf(t *testing.T) {
	cfg := testConfig(t)
	text := strings.Repeat("0123456789", 7)
	n := build([]rune(text), cfg)

	var sb strings.Builder
	count := 0
	for leaf := n.firstLeaf(); leaf != nil; leaf = leaf.nextLeaf() {
		if !leaf.IsLeaf() {
			t.Fatal("nextLeaf returned an internal node")
		}
		writeRunes(&sb, leaf.text)
		count++
	}
	if sb.String() != text {
		t.Errorf("leaf walk = %q, want %q", sb.String(), text)
	}
	if want := (len(text) + 5) / 6; count != want {
		t.Errorf("leaf count = %d, want %d", count, want)
	}
}

func TestUnlink(t *testing.T) {
	cfg := testConfig(t)
	n := build([]rune(strings.Repeat("abcdef", 6)), cfg)
	leaf := n.firstLeaf()
	leaf.text = leaf.text[:0]
	root := leaf.unlink()
	mustValidate(t, root)
	if got := root.String(); got != strings.Repeat("abcdef", 5) {
		t.Errorf("after unlink = %q", got)
	}
}
